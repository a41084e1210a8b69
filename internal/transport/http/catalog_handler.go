package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	apierrors "github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/internal/errors"
	api "github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/pkg/contracts/api/v1"
)

// CatalogHandler serves the selectable tickers and tenure presets
type CatalogHandler struct {
	service      CatalogServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(service CatalogServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *CatalogHandler {
	return &CatalogHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "catalog_handler")),
		errorHandler: errorHandler,
	}
}

// ListTickers handles GET /api/tickers
func (h *CatalogHandler) ListTickers(w http.ResponseWriter, r *http.Request) {
	available, err := parseBool(r.URL.Query().Get("available"))
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("available", "available must be true or false"))
		return
	}

	tickers, err := h.service.ListTickers(r.Context(), api.TickerListRequest{AvailableOnly: available})
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to list tickers", slog.String("error", err.Error()))
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"tickers": tickers,
		"count":   len(tickers),
	})
}

// ListTenures handles GET /api/tenures
func (h *CatalogHandler) ListTenures(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"tenures": h.service.ListTenures(),
	})
}
