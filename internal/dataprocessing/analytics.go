package dataprocessing

import (
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/pkg/contracts/domain"
)

// Returns computes the period-over-period fractional change of every column
// within [start, end]. The first row has no predecessor and is dropped. A
// missing value on either side yields NaN; gaps are not filled.
func Returns(t *domain.Table, start, end time.Time) *domain.Table {
	window := FilterRange(t, start, end)
	if window == nil {
		return nil
	}
	out := domain.NewTable(window.Columns)
	if window.Len() < 2 {
		return out
	}

	row := make([]float64, window.Width())
	for i := 1; i < window.Len(); i++ {
		prev, cur := window.Cells[i-1], window.Cells[i]
		for col := range row {
			row[col] = pctChange(prev[col], cur[col])
		}
		out.AppendRow(window.Dates[i], row)
	}
	return out
}

func pctChange(prev, cur float64) float64 {
	if math.IsNaN(prev) || math.IsNaN(cur) {
		return math.NaN()
	}
	return (cur - prev) / prev
}

// BuildHeatmap transposes a returns table so tickers become rows and dates
// become columns.
func BuildHeatmap(returns *domain.Table) *domain.Heatmap {
	h := &domain.Heatmap{}
	if returns == nil {
		return h
	}
	h.Tickers = append([]string(nil), returns.Columns...)
	h.Dates = append([]time.Time(nil), returns.Dates...)
	h.Cells = make([][]float64, len(h.Tickers))
	for col := range h.Tickers {
		line := make([]float64, returns.Len())
		for i := 0; i < returns.Len(); i++ {
			line[i] = returns.Cells[i][col]
		}
		h.Cells[col] = line
	}
	return h
}

// SummarizeReturns describes each column of a returns table. Missing and
// non-finite values are ignored; a column without any value gets null
// statistics.
func SummarizeReturns(returns *domain.Table) []domain.ReturnSummary {
	if returns == nil {
		return nil
	}
	out := make([]domain.ReturnSummary, 0, returns.Width())
	for col, ticker := range returns.Columns {
		values := make([]float64, 0, returns.Len())
		for i := 0; i < returns.Len(); i++ {
			v := returns.Cells[i][col]
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			values = append(values, v)
		}

		summary := domain.ReturnSummary{Ticker: ticker, Observations: len(values)}
		if len(values) > 0 {
			minV, maxV := values[0], values[0]
			growth := 1.0
			for _, v := range values {
				minV = math.Min(minV, v)
				maxV = math.Max(maxV, v)
				growth *= 1 + v
			}
			summary.Mean = domain.Nullable(stat.Mean(values, nil))
			summary.Min = domain.Nullable(minV)
			summary.Max = domain.Nullable(maxV)
			summary.Cumulative = domain.Nullable(growth - 1)
			if len(values) > 1 {
				summary.StdDev = domain.Nullable(stat.StdDev(values, nil))
			}
		}
		out = append(out, summary)
	}
	return out
}
