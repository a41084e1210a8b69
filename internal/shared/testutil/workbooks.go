package testutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// Column headers of a per-ticker workbook.
const (
	DateHeader  = "Date"
	CloseHeader = "Adj Close"
)

// SeriesSuffix is the default file suffix of per-ticker workbooks.
const SeriesSuffix = "_data.xlsx"

// Point is one row of a per-ticker workbook. Close may be any value excelize
// can store; a string makes the cell textual.
type Point struct {
	Date  interface{}
	Close interface{}
}

// WriteWorkbook saves rows, header first, to dir/name on the default sheet
// and returns the full path.
func WriteWorkbook(t testing.TB, dir, name string, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, r+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &rows[r]))
	}

	path := filepath.Join(dir, name)
	require.NoError(t, f.SaveAs(path))
	return path
}

// WriteSeries writes a Date/Adj Close workbook for ticker under the default
// file name.
func WriteSeries(t testing.TB, dir, ticker string, points ...Point) string {
	t.Helper()

	rows := make([][]interface{}, 0, len(points)+1)
	rows = append(rows, []interface{}{DateHeader, CloseHeader})
	for _, p := range points {
		rows = append(rows, []interface{}{p.Date, p.Close})
	}
	return WriteWorkbook(t, dir, ticker+SeriesSuffix, rows)
}
