package sheets

import (
	"context"
	"fmt"

	bot "github.com/azatv/expenses-bot"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

// Storage is the Google Sheets record store: blind appends to the data
// sheet, full-range reads, category column on a separate config sheet.
type Storage struct {
	svc           *gsheets.Service
	spreadsheetID string
	dataSheet     string
}

func New(ctx context.Context, credentialsFile, spreadsheetID, dataSheet string) (bot.Storage, error) {
	svc, err := gsheets.NewService(
		ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(gsheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return &Storage{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		dataSheet:     dataSheet,
	}, nil
}

func (s *Storage) AppendRow(ctx context.Context, fields []interface{}) error {
	vr := &gsheets.ValueRange{Values: [][]interface{}{fields}}
	_, err := s.svc.Spreadsheets.Values.
		Append(s.spreadsheetID, s.dataSheet+"!A:G", vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append to %s: %w", s.dataSheet, err)
	}
	return nil
}

func (s *Storage) FetchAllRecords(ctx context.Context) ([]map[string]string, error) {
	rng := s.dataSheet + "!A1:G"
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	if len(resp.Values) < 2 {
		return nil, nil
	}

	headers := toStrings(resp.Values[0])
	records := make([]map[string]string, 0, len(resp.Values)-1)
	for _, row := range resp.Values[1:] {
		cells := toStrings(row)
		record := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(cells) {
				record[h] = cells[i]
			} else {
				record[h] = ""
			}
		}
		records = append(records, record)
	}
	return records, nil
}

// FetchColumn reads one column of a sheet top to bottom, skipping the
// header row.
func (s *Storage) FetchColumn(ctx context.Context, sheet string, column int) ([]string, error) {
	letter := columnLetter(column)
	rng := fmt.Sprintf("%s!%s:%s", sheet, letter, letter)
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}

	values := make([]string, 0, len(resp.Values))
	for i, row := range resp.Values {
		if i == 0 {
			continue
		}
		if len(row) == 0 {
			values = append(values, "")
			continue
		}
		values = append(values, fmt.Sprint(row[0]))
	}
	return values, nil
}

func (s *Storage) Ping(ctx context.Context) error {
	_, err := s.svc.Spreadsheets.Get(s.spreadsheetID).Context(ctx).Do()
	return err
}

func toStrings(row []interface{}) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = fmt.Sprint(v)
	}
	return out
}

// columnLetter maps a 1-based column index to its A1-notation letter.
func columnLetter(column int) string {
	if column < 1 {
		column = 1
	}
	letters := ""
	for column > 0 {
		column--
		letters = string(rune('A'+column%26)) + letters
		column /= 26
	}
	return letters
}
