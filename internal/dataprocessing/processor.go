package dataprocessing

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/pkg/contracts/domain"
)

// ErrNoValidData is returned when no requested ticker yielded a usable series.
var ErrNoValidData = errors.New("no valid data found for the selected tickers")

// JoinError reports a series that cannot be aligned on date.
type JoinError struct {
	Ticker string
	Date   time.Time
	Reason string
}

func (e *JoinError) Error() string {
	if e.Date.IsZero() {
		return fmt.Sprintf("cannot join %s: %s", e.Ticker, e.Reason)
	}
	return fmt.Sprintf("cannot join %s at %s: %s", e.Ticker, domain.FormatDay(e.Date), e.Reason)
}

// Aggregate outer-joins the valid series on date. Columns follow order and
// skip tickers without a series; rows are the sorted union of all dates,
// with NaN where a ticker has no observation.
func Aggregate(order []string, series map[string]*domain.RawSeries) (*domain.Table, error) {
	columns := make([]string, 0, len(order))
	for _, ticker := range order {
		if s, ok := series[ticker]; ok && s.Valid() {
			columns = append(columns, ticker)
		}
	}
	if len(columns) == 0 {
		return nil, ErrNoValidData
	}

	// date -> column -> value
	byDate := make(map[time.Time][]float64)
	for col, ticker := range columns {
		seen := make(map[time.Time]struct{}, series[ticker].Len())
		for _, obs := range series[ticker].Observations {
			if obs.Date.IsZero() {
				return nil, &JoinError{Ticker: ticker, Reason: "observation without a date"}
			}
			key := domain.TruncateDay(obs.Date)
			if _, dup := seen[key]; dup {
				return nil, &JoinError{Ticker: ticker, Date: key, Reason: "duplicate date"}
			}
			seen[key] = struct{}{}

			row, ok := byDate[key]
			if !ok {
				row = make([]float64, len(columns))
				for i := range row {
					row[i] = math.NaN()
				}
				byDate[key] = row
			}
			row[col] = obs.Value
		}
	}

	dates := make([]time.Time, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	table := domain.NewTable(columns)
	for _, d := range dates {
		table.AppendRow(d, byDate[d])
	}
	return table, nil
}
