package http

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"math"
	"net/http"
	"net/url"

	"github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/internal/config"
	apierrors "github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/internal/errors"
	"github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/internal/services"
	api "github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/pkg/contracts/api/v1"
	"github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/pkg/contracts/domain"
)

//go:embed templates/dashboard.html
var templateFS embed.FS

var dashboardTemplate = template.Must(template.ParseFS(templateFS, "templates/dashboard.html"))

// MessageSelectTickers is shown before any ticker is chosen.
const MessageSelectTickers = "Select one or more stocks to compare."

// DashboardView is the data rendered by the dashboard template.
type DashboardView struct {
	Title       string
	Start       string
	End         string
	Normalize   bool
	Tenures     []optionView
	Tickers     []tickerOptionView
	Message     string
	MessageKind string
	Warnings    []string
	ChartQuery  template.URL
	Returns     *gridView
	Heatmap     *gridView
}

type optionView struct {
	Label    string
	Selected bool
}

type tickerOptionView struct {
	Symbol    string
	Available bool
	Selected  bool
}

type gridView struct {
	Headers []string
	Rows    []gridRow
}

type gridRow struct {
	Label string
	Cells []gridCell
}

type gridCell struct {
	Text  string
	Style template.CSS
}

// DashboardHandler renders the single page dashboard
type DashboardHandler struct {
	comparison ComparisonServiceInterface
	catalog    CatalogServiceInterface
	title      string
	logger     *slog.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(comparison ComparisonServiceInterface, catalog CatalogServiceInterface, dashboard config.DashboardConfig, logger *slog.Logger) *DashboardHandler {
	title := dashboard.ChartTitle
	if title == "" {
		title = "Stock Comparison"
	}
	return &DashboardHandler{
		comparison: comparison,
		catalog:    catalog,
		title:      title,
		logger:     logger.With(slog.String("component", "dashboard_handler")),
	}
}

// ServeHTTP handles GET /
func (h *DashboardHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	req, parseErr := parseComparisonQuery(query)
	view := h.baseView(r, req)

	switch {
	case parseErr != nil:
		view.setMessage("error", apierrors.UserMessage(parseErr))
	case len(req.Tickers) == 0:
		view.setMessage("info", MessageSelectTickers)
	default:
		h.fillResult(r, req, query, view)
	}

	var buf bytes.Buffer
	if err := dashboardTemplate.Execute(&buf, view); err != nil {
		h.logger.ErrorContext(ctx, "dashboard_render_failed", slog.String("error", err.Error()))
		http.Error(w, "Error rendering page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (h *DashboardHandler) fillResult(r *http.Request, req api.ComparisonRequest, query url.Values, view *DashboardView) {
	result, err := h.comparison.Compare(r.Context(), req)
	if err != nil {
		view.setMessage("error", apierrors.UserMessage(err))
		return
	}

	view.Start = domain.FormatDay(result.Request.Start)
	view.End = domain.FormatDay(result.Request.End)
	view.Warnings = result.Warnings

	if err := services.ResultError(result); err != nil {
		view.setMessage("error", apierrors.UserMessage(err))
		return
	}

	if result.Chart.IsEmpty() {
		return
	}
	view.ChartQuery = template.URL(query.Encode())
	if result.Returns.Len() > 0 {
		view.Returns = tableGrid(result.Returns)
	}
	if !result.Heatmap.Empty() {
		view.Heatmap = heatmapGrid(result.Heatmap)
	}
}

func (h *DashboardHandler) baseView(r *http.Request, req api.ComparisonRequest) *DashboardView {
	view := &DashboardView{
		Title:     h.title,
		Start:     req.StartDate,
		End:       req.EndDate,
		Normalize: req.Normalize,
	}

	for _, t := range h.catalog.ListTenures() {
		view.Tenures = append(view.Tenures, optionView{Label: t.Label, Selected: t.Label == req.Tenure})
	}

	selected := make(map[string]bool, len(req.Tickers))
	for _, t := range req.Tickers {
		selected[t] = true
	}
	tickers, err := h.catalog.ListTickers(r.Context(), api.TickerListRequest{})
	if err != nil {
		h.logger.WarnContext(r.Context(), "ticker catalog unavailable", slog.String("error", err.Error()))
	}
	for _, t := range tickers {
		view.Tickers = append(view.Tickers, tickerOptionView{
			Symbol:    t.Symbol,
			Available: t.Available,
			Selected:  selected[t.Symbol],
		})
	}
	return view
}

func (v *DashboardView) setMessage(kind, message string) {
	v.MessageKind = kind
	v.Message = message
}

func tableGrid(t *domain.Table) *gridView {
	g := &gridView{Headers: append([]string{"Date"}, t.Columns...)}
	for i, d := range t.Dates {
		row := gridRow{Label: domain.FormatDay(d), Cells: make([]gridCell, len(t.Columns))}
		for j, v := range t.Cells[i] {
			row.Cells[j] = gridCell{Text: formatPercent(v)}
		}
		g.Rows = append(g.Rows, row)
	}
	return g
}

func heatmapGrid(hm *domain.Heatmap) *gridView {
	scale := 0.0
	for _, row := range hm.Cells {
		for _, v := range row {
			if !math.IsNaN(v) && !math.IsInf(v, 0) {
				scale = math.Max(scale, math.Abs(v))
			}
		}
	}

	g := &gridView{Headers: []string{"Ticker"}}
	for _, d := range hm.Dates {
		g.Headers = append(g.Headers, domain.FormatDay(d))
	}
	for i, ticker := range hm.Tickers {
		row := gridRow{Label: ticker, Cells: make([]gridCell, len(hm.Cells[i]))}
		for j, v := range hm.Cells[i] {
			row.Cells[j] = gridCell{Text: formatPercent(v), Style: heatColor(v, scale)}
		}
		g.Rows = append(g.Rows, row)
	}
	return g
}

func formatPercent(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return fmt.Sprintf("%.2f%%", v*100)
}

// heatColor maps v onto a red, white and green scale spanning
// [-scale, scale].
func heatColor(v, scale float64) template.CSS {
	if math.IsNaN(v) || math.IsInf(v, 0) || scale == 0 {
		return ""
	}
	f := math.Min(math.Abs(v)/scale, 1)
	fade := uint8(255 - math.Round(f*155))
	if v < 0 {
		return template.CSS(fmt.Sprintf("background-color: #ff%02x%02x", fade, fade))
	}
	return template.CSS(fmt.Sprintf("background-color: #%02xff%02x", fade, fade))
}
