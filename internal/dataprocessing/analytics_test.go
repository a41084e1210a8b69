package dataprocessing

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReturns(t *testing.T) {
	tbl := table([]string{"A", "B"}, map[string][]float64{
		"2022-01-03": {100, 10},
		"2022-01-04": {110, nan},
		"2022-01-05": {99, 12},
		"2022-01-06": {99, 6},
	})

	got := Returns(tbl, time.Time{}, time.Time{})

	require.Equal(t, 3, got.Len())
	assert.Equal(t, day("2022-01-04"), got.Dates[0])
	assert.InDelta(t, 0.1, got.Value(0, 0), 1e-12)
	assert.InDelta(t, -0.1, got.Value(1, 0), 1e-12)
	assert.Equal(t, 0.0, got.Value(2, 0))
	assert.True(t, math.IsNaN(got.Value(0, 1)), "missing current value")
	assert.True(t, math.IsNaN(got.Value(1, 1)), "missing previous value is not filled")
	assert.InDelta(t, -0.5, got.Value(2, 1), 1e-12)
}

func TestReturnsWindow(t *testing.T) {
	tbl := table([]string{"A"}, map[string][]float64{
		"2022-01-03": {100}, "2022-01-04": {200}, "2022-01-05": {300},
	})

	got := Returns(tbl, day("2022-01-04"), day("2022-01-05"))
	require.Equal(t, 1, got.Len())
	assert.InDelta(t, 0.5, got.Value(0, 0), 1e-12)

	assert.True(t, Returns(tbl, day("2022-01-05"), day("2022-01-05")).IsEmpty())
	assert.Nil(t, Returns(nil, time.Time{}, time.Time{}))
}

func TestReturnsUnaffectedByNormalization(t *testing.T) {
	tbl := table([]string{"A"}, map[string][]float64{
		"2022-01-03": {40}, "2022-01-04": {50}, "2022-01-05": {45},
	})
	norm, _ := Normalize(tbl)

	raw := Returns(tbl, time.Time{}, time.Time{})
	scaled := Returns(norm, time.Time{}, time.Time{})
	for i := 0; i < raw.Len(); i++ {
		assert.InDelta(t, raw.Value(i, 0), scaled.Value(i, 0), 1e-12)
	}
}

func TestBuildHeatmap(t *testing.T) {
	returns := table([]string{"A", "B"}, map[string][]float64{
		"2022-01-04": {0.1, nan},
		"2022-01-05": {-0.2, 0.3},
	})

	h := BuildHeatmap(returns)

	assert.Equal(t, []string{"A", "B"}, h.Tickers)
	assert.Equal(t, returns.Dates, h.Dates)
	assert.Equal(t, []float64{0.1, -0.2}, h.Cells[0])
	assert.True(t, math.IsNaN(h.Cells[1][0]))
	assert.Equal(t, 0.3, h.Cells[1][1])

	assert.True(t, BuildHeatmap(nil).Empty())
	assert.True(t, BuildHeatmap(table([]string{"A"}, nil)).Empty())
}

func TestSummarizeReturns(t *testing.T) {
	returns := table([]string{"A", "B", "C"}, map[string][]float64{
		"2022-01-04": {0.1, nan, nan},
		"2022-01-05": {-0.1, 0.2, nan},
		"2022-01-06": {0.2, nan, nan},
	})

	got := SummarizeReturns(returns)
	require.Len(t, got, 3)

	a := got[0]
	assert.Equal(t, "A", a.Ticker)
	assert.Equal(t, 3, a.Observations)
	assert.InDelta(t, 0.2/3, a.Mean.Float64, 1e-12)
	assert.InDelta(t, -0.1, a.Min.Float64, 1e-12)
	assert.InDelta(t, 0.2, a.Max.Float64, 1e-12)
	assert.InDelta(t, 1.1*0.9*1.2-1, a.Cumulative.Float64, 1e-12)
	assert.True(t, a.StdDev.Valid)

	b := got[1]
	assert.Equal(t, 1, b.Observations)
	assert.False(t, b.StdDev.Valid)
	assert.InDelta(t, 0.2, b.Cumulative.Float64, 1e-12)

	c := got[2]
	assert.Equal(t, 0, c.Observations)
	assert.False(t, c.Mean.Valid)
	assert.False(t, c.Cumulative.Valid)
}
