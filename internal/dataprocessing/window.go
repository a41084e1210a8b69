package dataprocessing

import (
	"math"
	"time"

	"github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/pkg/contracts/domain"
)

// NormalizedBase is the value every column takes on the first row after
// normalization.
const NormalizedBase = 100.0

// FilterRange keeps the rows whose date lies in [start, end], both bounds
// inclusive and compared at day precision. A zero bound is open. When start
// is after end the result is empty.
func FilterRange(t *domain.Table, start, end time.Time) *domain.Table {
	if t == nil {
		return nil
	}
	out := domain.NewTable(t.Columns)
	if !start.IsZero() && !end.IsZero() && domain.TruncateDay(start).After(domain.TruncateDay(end)) {
		return out
	}

	for i, d := range t.Dates {
		if !start.IsZero() && d.Before(domain.TruncateDay(start)) {
			continue
		}
		if !end.IsZero() && d.After(domain.TruncateDay(end)) {
			continue
		}
		out.AppendRow(d, t.Cells[i])
	}
	return out
}

// Normalize divides every column by its first-row value and scales by 100.
// Columns whose first-row value is missing or zero cannot be rebased; their
// cells become NaN or infinite and the column is returned in unbased.
func Normalize(t *domain.Table) (normalized *domain.Table, unbased []string) {
	if t == nil {
		return nil, nil
	}
	out := domain.NewTable(t.Columns)
	if t.IsEmpty() {
		return out, nil
	}

	base := t.Cells[0]
	for col, b := range base {
		if math.IsNaN(b) || b == 0 {
			unbased = append(unbased, t.Columns[col])
		}
	}

	row := make([]float64, t.Width())
	for i, d := range t.Dates {
		for col, v := range t.Cells[i] {
			row[col] = v / base[col] * NormalizedBase
		}
		out.AppendRow(d, row)
	}
	return out, unbased
}
