package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/guregu/null/v6"
)

// Table is a date-indexed wide table with one column per ticker. Dates are
// ascending and unique; Cells[row][col] is the value at Dates[row] for
// Columns[col] and NaN marks a missing cell. Tables are treated as
// immutable once built.
type Table struct {
	Columns []string
	Dates   []time.Time
	Cells   [][]float64
}

// NewTable creates an empty table with the given columns.
func NewTable(columns []string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{Columns: cols}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Dates)
}

// Width returns the number of columns.
func (t *Table) Width() int {
	if t == nil {
		return 0
	}
	return len(t.Columns)
}

// IsEmpty reports whether the table has no rows.
func (t *Table) IsEmpty() bool {
	return t.Len() == 0
}

// AppendRow adds a row. values must have one entry per column.
func (t *Table) AppendRow(date time.Time, values []float64) {
	row := make([]float64, len(values))
	copy(row, values)
	t.Dates = append(t.Dates, date)
	t.Cells = append(t.Cells, row)
}

// ColumnIndex returns the position of name, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Column returns a copy of the named column.
func (t *Table) Column(name string) ([]float64, bool) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil, false
	}
	out := make([]float64, len(t.Cells))
	for i, row := range t.Cells {
		out[i] = row[idx]
	}
	return out, true
}

// Value returns the cell at row, col.
func (t *Table) Value(row, col int) float64 {
	return t.Cells[row][col]
}

// Slice returns rows [from, to) as a new table.
func (t *Table) Slice(from, to int) *Table {
	out := NewTable(t.Columns)
	for i := from; i < to; i++ {
		out.AppendRow(t.Dates[i], t.Cells[i])
	}
	return out
}

// Start returns the first date, or the zero time for an empty table.
func (t *Table) Start() time.Time {
	if t.IsEmpty() {
		return time.Time{}
	}
	return t.Dates[0]
}

// End returns the last date, or the zero time for an empty table.
func (t *Table) End() time.Time {
	if t.IsEmpty() {
		return time.Time{}
	}
	return t.Dates[len(t.Dates)-1]
}

type tableJSON struct {
	Columns []string       `json:"columns"`
	Rows    []tableRowJSON `json:"rows"`
}

type tableRowJSON struct {
	Date   string       `json:"date"`
	Values []null.Float `json:"values"`
}

// MarshalJSON encodes the table row by row; NaN and infinite cells become null.
func (t Table) MarshalJSON() ([]byte, error) {
	out := tableJSON{
		Columns: t.Columns,
		Rows:    make([]tableRowJSON, len(t.Dates)),
	}
	if out.Columns == nil {
		out.Columns = []string{}
	}
	for i, d := range t.Dates {
		values := make([]null.Float, len(t.Cells[i]))
		for j, v := range t.Cells[i] {
			values[j] = Nullable(v)
		}
		out.Rows[i] = tableRowJSON{Date: FormatDay(d), Values: values}
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the row form produced by MarshalJSON.
func (t *Table) UnmarshalJSON(data []byte) error {
	var in tableJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*t = Table{Columns: in.Columns}
	for _, row := range in.Rows {
		date, err := ParseDay(row.Date)
		if err != nil {
			return fmt.Errorf("row date %q: %w", row.Date, err)
		}
		if len(row.Values) != len(in.Columns) {
			return fmt.Errorf("row %s has %d values for %d columns", row.Date, len(row.Values), len(in.Columns))
		}
		values := make([]float64, len(row.Values))
		for j, v := range row.Values {
			values[j] = FromNullable(v)
		}
		t.AppendRow(date, values)
	}
	return nil
}

// Nullable converts a cell value to its JSON form.
func Nullable(v float64) null.Float {
	return null.NewFloat(v, !math.IsNaN(v) && !math.IsInf(v, 0))
}

// FromNullable converts a JSON cell back to a float, NaN when null.
func FromNullable(v null.Float) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
