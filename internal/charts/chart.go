package charts

import (
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/internal/config"
	"github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/pkg/contracts/domain"
)

// Axis labels of the comparison chart.
const (
	XAxisLabel = "Date"
	YAxisLabel = "Stock Value"
)

// Format selects the image encoding.
type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	if f == FormatSVG {
		return "image/svg+xml"
	}
	return "image/png"
}

// ErrNothingToPlot is returned when no column has a finite value.
var ErrNothingToPlot = errors.New("no finite values to plot")

// Options control chart presentation.
type Options struct {
	Title  string
	Width  int
	Height int
	Format Format
}

// OptionsFrom builds Options from the dashboard configuration.
func OptionsFrom(cfg config.DashboardConfig) Options {
	return Options{
		Title:  cfg.ChartTitle,
		Width:  cfg.ChartWidth,
		Height: cfg.ChartHeight,
		Format: FormatPNG,
	}
}

func (o Options) withDefaults() Options {
	if o.Title == "" {
		o.Title = "Stock Comparison"
	}
	if o.Width <= 0 {
		o.Width = 1024
	}
	if o.Height <= 0 {
		o.Height = 512
	}
	if o.Format == "" {
		o.Format = FormatPNG
	}
	return o
}

// RenderComparison draws every column of t as a time series and writes the
// encoded image to w.
func RenderComparison(w io.Writer, t *domain.Table, opts Options) error {
	opts = opts.withDefaults()

	series, lo, hi := buildSeries(t)
	if len(series) == 0 {
		return ErrNothingToPlot
	}

	ch := chart.Chart{
		Title:      opts.Title,
		Width:      opts.Width,
		Height:     opts.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:           XAxisLabel,
			ValueFormatter: chart.TimeDateValueFormatter,
		},
		YAxis: chart.YAxis{Name: YAxisLabel},
		Series: series,
	}
	if lo == hi {
		// flat lines still need a non-zero y range
		ch.YAxis.Range = &chart.ContinuousRange{Min: lo - 1, Max: hi + 1}
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	provider := chart.PNG
	if opts.Format == FormatSVG {
		provider = chart.SVG
	}
	if err := ch.Render(provider, w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

// buildSeries converts each column to a TimeSeries, dropping missing cells.
// It also reports the overall value range of the plotted points.
func buildSeries(t *domain.Table) ([]chart.Series, float64, float64) {
	if t.IsEmpty() {
		return nil, 0, 0
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	series := make([]chart.Series, 0, t.Width())
	for col, name := range t.Columns {
		xs := make([]time.Time, 0, t.Len())
		ys := make([]float64, 0, t.Len())
		for row, date := range t.Dates {
			v := t.Cells[row][col]
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			xs = append(xs, date)
			ys = append(ys, v)
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
		if len(xs) == 0 {
			continue
		}
		if len(xs) == 1 {
			xs = append(xs, xs[0].AddDate(0, 0, 1))
			ys = append(ys, ys[0])
		}

		color := chart.GetDefaultColor(col)
		series = append(series, chart.TimeSeries{
			Name:    name,
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: color,
				StrokeWidth: 2,
				DotColor:    color,
			},
		})
	}
	return series, lo, hi
}
