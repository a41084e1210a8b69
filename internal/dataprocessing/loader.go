package dataprocessing

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/internal/config"
	"github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/internal/infrastructure"
	"github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/pkg/contracts/domain"
)

// Rejection reasons reported by the loader.
const (
	ReasonMissing       = "missing"
	ReasonUnreadable    = "unreadable"
	ReasonMissingColumn = "missing_column"
	ReasonInvalidDate   = "invalid_date"
	ReasonInvalidTicker = "invalid_ticker"
)

// SeriesLoader reads ticker spreadsheets from the data directory.
type SeriesLoader struct {
	data    config.DataConfig
	dir     string
	logger  *slog.Logger
	metrics *infrastructure.BusinessMetrics
}

// LoadResult is the outcome of loading several tickers. Series holds only
// the valid ones; Rejected maps every other ticker to its reason.
type LoadResult struct {
	Order    []string
	Series   map[string]*domain.RawSeries
	Rejected map[string]string
}

// Valid returns the tickers that loaded, in request order.
func (r *LoadResult) Valid() []string {
	out := make([]string, 0, len(r.Series))
	for _, t := range r.Order {
		if _, ok := r.Series[t]; ok {
			out = append(out, t)
		}
	}
	return out
}

// Excluded returns the rejected tickers, in request order.
func (r *LoadResult) Excluded() []string {
	out := make([]string, 0, len(r.Rejected))
	for _, t := range r.Order {
		if _, ok := r.Rejected[t]; ok {
			out = append(out, t)
		}
	}
	return out
}

// NewSeriesLoader creates a loader rooted at the configured data directory.
func NewSeriesLoader(data config.DataConfig, logger *slog.Logger, metrics *infrastructure.BusinessMetrics) (*SeriesLoader, error) {
	dir, err := data.ResolveDir()
	if err != nil {
		return nil, fmt.Errorf("resolve data directory: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SeriesLoader{
		data:    data,
		dir:     dir,
		logger:  logger.With(slog.String("component", "series_loader")),
		metrics: metrics,
	}, nil
}

// Dir returns the absolute data directory.
func (l *SeriesLoader) Dir() string {
	return l.dir
}

// Load reads one ticker. It returns nil when the source is absent or
// malformed; the reason is logged, never raised.
func (l *SeriesLoader) Load(ctx context.Context, ticker string) *domain.RawSeries {
	series, _ := l.load(ctx, ticker)
	return series
}

func (l *SeriesLoader) load(ctx context.Context, ticker string) (*domain.RawSeries, string) {
	if !ValidTicker(ticker) {
		l.reject(ctx, ticker, "", ReasonInvalidTicker, nil)
		return nil, ReasonInvalidTicker
	}

	path, ok := l.locate(ticker)
	if !ok {
		l.reject(ctx, ticker, l.data.CanonicalPath(l.dir, ticker), ReasonMissing, nil)
		return nil, ReasonMissing
	}

	series, err := ParseSeriesFile(path, ticker, ParseOptions{Sheet: l.data.Sheet})
	if err != nil {
		reason := ReasonUnreadable
		switch {
		case errors.Is(err, ErrMissingColumn):
			reason = ReasonMissingColumn
		case errors.Is(err, ErrInvalidDate):
			reason = ReasonInvalidDate
		}
		l.reject(ctx, ticker, path, reason, err)
		return nil, reason
	}

	infrastructure.RecordSeriesLoad(ctx, l.metrics, "")
	l.logger.DebugContext(ctx, "series loaded",
		slog.String("ticker", ticker),
		slog.String("path", path),
		slog.Int("observations", series.Len()))
	return series, ""
}

// locate returns the canonical file if present, else the legacy one.
func (l *SeriesLoader) locate(ticker string) (string, bool) {
	candidates := []string{l.data.CanonicalPath(l.dir, ticker)}
	if legacy := l.data.LegacyPath(l.dir, ticker); legacy != "" {
		candidates = append(candidates, legacy)
	}
	for _, p := range candidates {
		info, err := os.Stat(p)
		if err == nil && !info.IsDir() {
			return p, true
		}
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			l.logger.Warn("cannot stat data file", slog.String("path", p), slog.String("error", err.Error()))
		}
	}
	return "", false
}

func (l *SeriesLoader) reject(ctx context.Context, ticker, path, reason string, err error) {
	infrastructure.RecordSeriesLoad(ctx, l.metrics, reason)
	attrs := []any{
		slog.String("ticker", ticker),
		slog.String("reason", reason),
	}
	if path != "" {
		attrs = append(attrs, slog.String("path", path))
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	l.logger.WarnContext(ctx, "series excluded", attrs...)
}

// LoadAll loads tickers concurrently after deduplicating them. It only
// fails when ctx is cancelled.
func (l *SeriesLoader) LoadAll(ctx context.Context, tickers []string) (*LoadResult, error) {
	order := UniqueTickers(tickers)
	result := &LoadResult{
		Order:    order,
		Series:   make(map[string]*domain.RawSeries, len(order)),
		Rejected: make(map[string]string),
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	limit := l.data.LoadConcurrency
	if limit <= 0 {
		limit = 1
	}
	g.SetLimit(limit)

	for _, ticker := range order {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			series, reason := l.load(gctx, ticker)

			mu.Lock()
			defer mu.Unlock()
			if series != nil {
				result.Series[ticker] = series
			} else {
				result.Rejected[ticker] = reason
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
