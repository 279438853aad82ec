package expenses_bot

import (
	"bytes"
	"encoding/csv"
	"io"
)

var exportHeader = []string{"date", "month", "category", "amount", "currency", "spender", "comment"}

// csvExport streams records as CSV one row per Read call.
type csvExport struct {
	records []Record
	csv     *csv.Writer
	buff    *bytes.Buffer
	n       int
}

func (d *csvExport) Read(p []byte) (int, error) {
	if d.n >= len(d.records) {
		d.csv.Flush()
		if d.buff.Len() > 0 {
			return d.buff.Read(p)
		}
		return 0, io.EOF
	}

	r := d.records[d.n]
	fields := []string{
		r.Date,
		r.Month,
		r.Category,
		formatAmountRaw(r.Amount),
		r.Currency,
		r.Spender,
		r.Comment,
	}
	if err := d.csv.Write(fields); err != nil {
		return 0, err
	}
	d.csv.Flush()
	d.n++
	return d.buff.Read(p)
}

func (d *csvExport) Close() error {
	return nil
}

// ExportCSV renders records as a CSV stream in store column order.
func ExportCSV(records []Record) io.ReadCloser {
	buff := bytes.NewBuffer(make([]byte, 0, 1024))
	w := csv.NewWriter(buff)
	_ = w.Write(exportHeader)
	w.Flush()
	return &csvExport{records: records, csv: w, buff: buff}
}
