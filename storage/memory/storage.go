package memory

import (
	"context"
	"fmt"
	"sync"

	bot "github.com/azatv/expenses-bot"
)

// Storage is an in-memory record store used in tests. Rows are kept in
// append order under a fixed header set.
type Storage struct {
	mu      sync.Mutex
	headers []string
	rows    [][]string
	columns map[string][]string
}

var _ bot.Storage = (*Storage)(nil)

// New creates an empty store with the given data headers.
func New(headers []string) *Storage {
	return &Storage{
		headers: append([]string(nil), headers...),
		columns: make(map[string][]string),
	}
}

// SetColumn seeds a config-sheet column, header row included.
func (s *Storage) SetColumn(sheet string, values []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.columns[sheet] = append([]string(nil), values...)
}

func (s *Storage) AppendRow(_ context.Context, fields []interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row := make([]string, len(fields))
	for i, f := range fields {
		row[i] = fmt.Sprint(f)
	}
	s.rows = append(s.rows, row)
	return nil
}

func (s *Storage) FetchAllRecords(_ context.Context) ([]map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	records := make([]map[string]string, 0, len(s.rows))
	for _, row := range s.rows {
		record := make(map[string]string, len(s.headers))
		for i, h := range s.headers {
			if i < len(row) {
				record[h] = row[i]
			} else {
				record[h] = ""
			}
		}
		records = append(records, record)
	}
	return records, nil
}

func (s *Storage) FetchColumn(_ context.Context, sheet string, _ int) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	values, ok := s.columns[sheet]
	if !ok {
		return nil, fmt.Errorf("no such sheet %q", sheet)
	}
	if len(values) < 2 {
		return nil, nil
	}
	return append([]string(nil), values[1:]...), nil
}

func (s *Storage) Ping(_ context.Context) error {
	return nil
}

// Len reports the number of appended rows.
func (s *Storage) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}
