package http

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/internal/charts"
	apierrors "github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/internal/errors"
	"github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/internal/exporter"
	"github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/internal/infrastructure"
	"github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/internal/middleware"
	"github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/internal/operations"
	"github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/internal/services"
	api "github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/pkg/contracts/api/v1"
	"github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/pkg/contracts/domain"
)

// ComparisonHandler serves comparison runs and their exports
type ComparisonHandler struct {
	service      ComparisonServiceInterface
	chartOpts    charts.Options
	csv          *exporter.CSVWriter
	metrics      *infrastructure.BusinessMetrics
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewComparisonHandler creates a new comparison handler
func NewComparisonHandler(service ComparisonServiceInterface, chartOpts charts.Options, metrics *infrastructure.BusinessMetrics, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ComparisonHandler {
	return &ComparisonHandler{
		service:      service,
		chartOpts:    chartOpts,
		csv:          exporter.NewCSVWriter(exporter.CSVOptions{BOMPrefix: true}),
		metrics:      metrics,
		logger:       logger.With(slog.String("component", "comparison_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the comparison routes
func (h *ComparisonHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(render.SetContentType(render.ContentTypeJSON)).Get("/", h.GetComparison)
	r.With(render.SetContentType(render.ContentTypeJSON)).Post("/", h.PostComparison)

	r.Get("/chart.png", h.GetChartPNG)
	r.Get("/chart.svg", h.GetChartSVG)
	r.Get("/returns.csv", h.GetReturnsCSV)
	r.Get("/summary.csv", h.GetSummaryCSV)
	r.Get("/heatmap.xlsx", h.GetHeatmapWorkbook)

	return r
}

// GetComparison handles GET /api/comparison
func (h *ComparisonHandler) GetComparison(w http.ResponseWriter, r *http.Request) {
	result, ok := h.runFromQuery(w, r)
	if !ok {
		return
	}
	render.JSON(w, r, services.ToResponse(result))
}

// PostComparison handles POST /api/comparison
func (h *ComparisonHandler) PostComparison(w http.ResponseWriter, r *http.Request) {
	var req api.ComparisonRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	result, ok := h.run(w, r, req)
	if !ok {
		return
	}
	render.JSON(w, r, services.ToResponse(result))
}

// GetChartPNG handles GET /api/comparison/chart.png
func (h *ComparisonHandler) GetChartPNG(w http.ResponseWriter, r *http.Request) {
	h.renderChart(w, r, charts.FormatPNG)
}

// GetChartSVG handles GET /api/comparison/chart.svg
func (h *ComparisonHandler) GetChartSVG(w http.ResponseWriter, r *http.Request) {
	h.renderChart(w, r, charts.FormatSVG)
}

func (h *ComparisonHandler) renderChart(w http.ResponseWriter, r *http.Request, format charts.Format) {
	result, ok := h.runFromQuery(w, r)
	if !ok {
		return
	}

	opts := h.chartOpts
	opts.Format = format

	var buf bytes.Buffer
	if err := charts.RenderComparison(&buf, result.Chart, opts); err != nil {
		if errors.Is(err, charts.ErrNothingToPlot) {
			h.errorHandler.HandleError(w, r, apierrors.NothingToPlot().WithCause(err))
			return
		}
		h.errorHandler.HandleError(w, r, err)
		return
	}

	infrastructure.RecordExport(r.Context(), h.metrics, string(opts.Format))
	w.Header().Set("Content-Type", opts.Format.ContentType())
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}

// GetReturnsCSV handles GET /api/comparison/returns.csv
func (h *ComparisonHandler) GetReturnsCSV(w http.ResponseWriter, r *http.Request) {
	result, ok := h.runFromQuery(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.csv.WriteTable(&buf, result.Returns); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	infrastructure.RecordExport(r.Context(), h.metrics, "returns_csv")
	setAttachment(w, "text/csv; charset=utf-8", exportName("returns", result, "csv"))
	_, _ = w.Write(buf.Bytes())
}

// GetSummaryCSV handles GET /api/comparison/summary.csv
func (h *ComparisonHandler) GetSummaryCSV(w http.ResponseWriter, r *http.Request) {
	result, ok := h.runFromQuery(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.csv.WriteSummary(&buf, result.Summary); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	infrastructure.RecordExport(r.Context(), h.metrics, "summary_csv")
	setAttachment(w, "text/csv; charset=utf-8", exportName("summary", result, "csv"))
	_, _ = w.Write(buf.Bytes())
}

// GetHeatmapWorkbook handles GET /api/comparison/heatmap.xlsx
func (h *ComparisonHandler) GetHeatmapWorkbook(w http.ResponseWriter, r *http.Request) {
	result, ok := h.runFromQuery(w, r)
	if !ok {
		return
	}
	if result.Heatmap.Empty() {
		h.errorHandler.HandleError(w, r, apierrors.NothingToPlot())
		return
	}

	var buf bytes.Buffer
	if err := exporter.WriteHeatmapWorkbook(&buf, result.Heatmap, result.Summary); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	infrastructure.RecordExport(r.Context(), h.metrics, "heatmap_xlsx")
	setAttachment(w, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", exportName("heatmap", result, "xlsx"))
	_, _ = w.Write(buf.Bytes())
}

func (h *ComparisonHandler) runFromQuery(w http.ResponseWriter, r *http.Request) (*operations.Result, bool) {
	req, err := parseComparisonQuery(r.URL.Query())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return nil, false
	}
	return h.run(w, r, req)
}

// run executes the comparison and writes a problem response for anything
// but a successful run.
func (h *ComparisonHandler) run(w http.ResponseWriter, r *http.Request, req api.ComparisonRequest) (*operations.Result, bool) {
	ctx := r.Context()

	result, err := h.service.Compare(ctx, req)
	if err != nil {
		h.logger.WarnContext(ctx, "comparison_rejected",
			slog.String("request_id", middleware.GetReqID(ctx)),
			slog.String("error", err.Error()))
		h.errorHandler.HandleError(w, r, err)
		return nil, false
	}

	if err := services.ResultError(result); err != nil {
		h.logger.InfoContext(ctx, "comparison_failed",
			slog.String("request_id", middleware.GetReqID(ctx)),
			slog.String("run_id", result.RunID),
			slog.String("status", string(result.Status)))
		h.errorHandler.HandleError(w, r, err)
		return nil, false
	}
	return result, true
}

func exportName(kind string, result *operations.Result, ext string) string {
	return fmt.Sprintf("%s_%s_%s.%s", kind,
		domain.FormatDay(result.Request.Start), domain.FormatDay(result.Request.End), ext)
}
