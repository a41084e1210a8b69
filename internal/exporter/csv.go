package exporter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/pkg/contracts/domain"
)

// DateHeader names the leading column of every exported table.
const DateHeader = "Date"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVOptions configures CSV writing behavior
type CSVOptions struct {
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
	Comma     rune
}

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	opts CSVOptions
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(opts CSVOptions) *CSVWriter {
	if opts.Comma == 0 {
		opts.Comma = ','
	}
	return &CSVWriter{opts: opts}
}

// WriteTable writes t with a Date column followed by one column per ticker.
// Missing cells are written as empty fields.
func (w *CSVWriter) WriteTable(out io.Writer, t *domain.Table) error {
	if t == nil {
		return fmt.Errorf("write table: nil table")
	}

	headers := make([]string, 0, t.Width()+1)
	headers = append(headers, DateHeader)
	headers = append(headers, t.Columns...)

	return w.write(out, headers, t.Len(), func(i int) []string {
		record := make([]string, 0, t.Width()+1)
		record = append(record, formatDate(t.Dates[i]))
		for _, v := range t.Cells[i] {
			record = append(record, formatFloat(v))
		}
		return record
	})
}

// WriteSummary writes one row of descriptive statistics per ticker.
func (w *CSVWriter) WriteSummary(out io.Writer, summaries []domain.ReturnSummary) error {
	headers := []string{"Ticker", "Observations", "Mean", "StdDev", "Min", "Max", "Cumulative"}

	return w.write(out, headers, len(summaries), func(i int) []string {
		s := summaries[i]
		return []string{
			s.Ticker,
			formatInt(s.Observations),
			nullableField(s.Mean.Valid, s.Mean.Float64),
			nullableField(s.StdDev.Valid, s.StdDev.Float64),
			nullableField(s.Min.Valid, s.Min.Float64),
			nullableField(s.Max.Valid, s.Max.Float64),
			nullableField(s.Cumulative.Valid, s.Cumulative.Float64),
		}
	})
}

func (w *CSVWriter) write(out io.Writer, headers []string, n int, row func(int) []string) error {
	if w.opts.BOMPrefix {
		if _, err := out.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(out)
	writer.Comma = w.opts.Comma

	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for i := 0; i < n; i++ {
		if err := writer.Write(row(i)); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func nullableField(valid bool, v float64) string {
	if !valid {
		return ""
	}
	return formatFloat(v)
}
