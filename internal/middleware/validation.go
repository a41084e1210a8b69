package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime"
	"net/http"

	apierrors "github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/internal/errors"
)

// JSONBody rejects oversized, non-JSON or malformed request bodies before
// they reach a handler. GET, HEAD and OPTIONS pass through untouched.
type JSONBody struct {
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	maxBodySize  int64
}

// NewJSONBody creates the body guard
func NewJSONBody(logger *slog.Logger, errorHandler *apierrors.ErrorHandler, maxBodySize int64) *JSONBody {
	if maxBodySize <= 0 {
		maxBodySize = 1 << 20
	}
	return &JSONBody{
		logger:       logger.With(slog.String("component", "json_body")),
		errorHandler: errorHandler,
		maxBodySize:  maxBodySize,
	}
}

// Handler implements the middleware
func (m *JSONBody) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
			return
		}

		if ct := r.Header.Get("Content-Type"); ct != "" {
			mediaType, _, err := mime.ParseMediaType(ct)
			if err != nil || mediaType != "application/json" {
				m.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
					http.StatusUnsupportedMediaType,
					apierrors.CodeInvalidRequest,
					"Content-Type must be application/json",
					map[string]string{"content_type": ct},
				))
				return
			}
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, m.maxBodySize+1))
		if err != nil {
			m.logger.WarnContext(r.Context(), "failed to read request body",
				slog.String("error", err.Error()),
				slog.String("request_id", GetReqID(r.Context())))
			m.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
			return
		}
		if int64(len(body)) > m.maxBodySize {
			m.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
				http.StatusRequestEntityTooLarge,
				apierrors.CodeInvalidRequest,
				"Request body exceeds maximum allowed size",
				map[string]int64{"max_size": m.maxBodySize},
			))
			return
		}
		if len(body) > 0 && !json.Valid(body) {
			m.errorHandler.HandleError(w, r, apierrors.New(
				http.StatusBadRequest,
				apierrors.CodeInvalidRequest,
				"Request body contains invalid JSON",
			))
			return
		}

		r.Body = io.NopCloser(bytes.NewReader(body))
		next.ServeHTTP(w, r)
	})
}
