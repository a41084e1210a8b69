package services

import (
	"context"
	"log/slog"
	"sort"

	"github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/internal/config"
	"github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/internal/dataprocessing"
	"github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/internal/files"
	api "github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/pkg/contracts/api/v1"
)

// CatalogService lists the tickers and tenures a dashboard user can pick
type CatalogService struct {
	discovery *files.Discovery
	dir       string
	suffixes  []string
	tickers   []string
	logger    *slog.Logger
}

// NewCatalogService creates a catalog over the configured ticker list and
// the workbooks found in dir.
func NewCatalogService(dir string, data config.DataConfig, dashboard config.DashboardConfig, logger *slog.Logger) *CatalogService {
	if logger == nil {
		logger = slog.Default()
	}
	suffixes := []string{data.FileSuffix}
	if data.LegacyLookup && data.LegacySuffix != "" && data.LegacySuffix != data.FileSuffix {
		suffixes = append(suffixes, data.LegacySuffix)
	}
	return &CatalogService{
		discovery: files.NewDiscovery(dir),
		dir:       dir,
		suffixes:  suffixes,
		tickers:   dataprocessing.UniqueTickers(dashboard.Tickers),
		logger:    logger.With(slog.String("service", "catalog")),
	}
}

// ListTickers returns the configured tickers in their configured order,
// each flagged with whether a workbook backs it, followed by any other
// tickers found in the data directory in name order.
func (s *CatalogService) ListTickers(ctx context.Context, req api.TickerListRequest) ([]api.TickerInfo, error) {
	found, err := s.discovery.FindTickerFiles("", s.suffixes...)
	if err != nil {
		// An unreadable directory leaves every configured ticker unavailable
		s.logger.WarnContext(ctx, "data directory not readable",
			slog.String("dir", s.dir),
			slog.String("error", err.Error()))
		found = map[string]files.TickerFile{}
	}

	out := make([]api.TickerInfo, 0, len(s.tickers)+len(found))
	configured := make(map[string]struct{}, len(s.tickers))
	for _, t := range s.tickers {
		configured[t] = struct{}{}
		info := api.TickerInfo{Symbol: t, Configured: true}
		if f, ok := found[t]; ok {
			info.Available = true
			info.Source = f.Name
		}
		if req.AvailableOnly && !info.Available {
			continue
		}
		out = append(out, info)
	}

	extras := make([]string, 0, len(found))
	for t := range found {
		if _, ok := configured[t]; !ok && dataprocessing.ValidTicker(t) {
			extras = append(extras, t)
		}
	}
	sort.Strings(extras)
	for _, t := range extras {
		out = append(out, api.TickerInfo{Symbol: t, Available: true, Source: found[t].Name})
	}

	return out, nil
}

// ListTenures returns the tenure presets, shortest first
func (s *CatalogService) ListTenures() []api.TenureInfo {
	presets := dataprocessing.Tenures()
	out := make([]api.TenureInfo, len(presets))
	for i, t := range presets {
		out[i] = api.TenureInfo{Label: t.Label, Months: t.Months}
	}
	return out
}
