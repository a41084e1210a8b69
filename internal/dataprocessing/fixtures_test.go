package dataprocessing

import (
	"io"
	"log/slog"
	"math"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/internal/config"
	"github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/internal/shared/testutil"
	"github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/pkg/contracts/domain"
)

var nan = math.NaN()

func day(s string) time.Time {
	t, err := domain.ParseDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

// writeWorkbook saves rows (header first) to dir/name on the default sheet.
func writeWorkbook(t *testing.T, dir, name string, rows [][]interface{}) string {
	t.Helper()
	return testutil.WriteWorkbook(t, dir, name, rows)
}

// writeSeries writes a Date/Adj Close workbook for ticker using the
// canonical file name.
func writeSeries(t *testing.T, dir, ticker string, points map[string]float64) string {
	t.Helper()
	rows := [][]interface{}{{"Date", "Open", "Adj Close"}}
	for _, d := range sortedKeys(points) {
		rows = append(rows, []interface{}{d, 1.0, points[d]})
	}
	return writeWorkbook(t, dir, ticker+"_data.xlsx", rows)
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func testDataConfig(dir string) config.DataConfig {
	cfg := config.Default().Data
	cfg.Dir = dir
	return cfg
}

func newTestLoader(t *testing.T, dir string) *SeriesLoader {
	t.Helper()
	l, err := NewSeriesLoader(testDataConfig(dir), slog.New(slog.NewJSONHandler(io.Discard, nil)), nil)
	require.NoError(t, err)
	return l
}

func table(columns []string, rows map[string][]float64) *domain.Table {
	tbl := domain.NewTable(columns)
	keys := make([]string, 0, len(rows))
	for k := range rows {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		tbl.AppendRow(day(k), rows[k])
	}
	return tbl
}
