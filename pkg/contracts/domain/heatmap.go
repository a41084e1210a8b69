package domain

import (
	"encoding/json"
	"time"

	"github.com/guregu/null/v6"
)

// Heatmap is the transposed returns table: one row per ticker, one column
// per date.
type Heatmap struct {
	Tickers []string
	Dates   []time.Time
	Cells   [][]float64
}

// Empty reports whether there is nothing to draw.
func (h *Heatmap) Empty() bool {
	return h == nil || len(h.Tickers) == 0 || len(h.Dates) == 0
}

type heatmapJSON struct {
	Tickers []string       `json:"tickers"`
	Dates   []string       `json:"dates"`
	Cells   [][]null.Float `json:"cells"`
}

// MarshalJSON encodes the heatmap with dates as YYYY-MM-DD.
func (h Heatmap) MarshalJSON() ([]byte, error) {
	out := heatmapJSON{
		Tickers: h.Tickers,
		Dates:   make([]string, len(h.Dates)),
		Cells:   make([][]null.Float, len(h.Cells)),
	}
	if out.Tickers == nil {
		out.Tickers = []string{}
	}
	for i, d := range h.Dates {
		out.Dates[i] = FormatDay(d)
	}
	for i, row := range h.Cells {
		out.Cells[i] = make([]null.Float, len(row))
		for j, v := range row {
			out.Cells[i][j] = Nullable(v)
		}
	}
	return json.Marshal(out)
}

// ReturnSummary holds descriptive statistics of one ticker's period returns.
type ReturnSummary struct {
	Ticker       string     `json:"ticker"`
	Observations int        `json:"observations"`
	Mean         null.Float `json:"mean"`
	StdDev       null.Float `json:"std_dev"`
	Min          null.Float `json:"min"`
	Max          null.Float `json:"max"`
	Cumulative   null.Float `json:"cumulative"`
}
