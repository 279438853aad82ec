package expenses_bot

import (
	"context"
)

// Storage is the record store boundary: blind appends and full-scan
// reads, no caching and no transactions. The store may use either
// English or Russian column headers; FetchAllRecords returns rows as
// raw header-to-value mappings and leaves normalization to the caller.
type Storage interface {
	AppendRow(ctx context.Context, fields []interface{}) error
	FetchAllRecords(ctx context.Context) ([]map[string]string, error)
	FetchColumn(ctx context.Context, sheet string, column int) ([]string, error)
	Ping(ctx context.Context) error
}
