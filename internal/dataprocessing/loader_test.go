package dataprocessing

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/internal/shared/testutil"
)

func TestSeriesLoaderLoad(t *testing.T) {
	dir := t.TempDir()
	writeSeries(t, dir, "^NSEI", map[string]float64{"2022-01-03": 17625, "2022-01-04": 17805})
	writeWorkbook(t, dir, "^LEGACY.xlsx", [][]interface{}{{"Date", "Adj Close"}, {"2022-01-03", 10}})
	writeWorkbook(t, dir, "^BROKEN_data.xlsx", [][]interface{}{{"Date", "Close"}, {"2022-01-03", 10}})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "^JUNK_data.xlsx"), []byte("not a workbook"), 0644))

	loader := newTestLoader(t, dir)

	tests := []struct {
		ticker     string
		wantLen    int
		wantReason string
	}{
		{ticker: "^NSEI", wantLen: 2},
		{ticker: "^LEGACY", wantLen: 1},
		{ticker: "^GHOST", wantReason: ReasonMissing},
		{ticker: "^BROKEN", wantReason: ReasonMissingColumn},
		{ticker: "^JUNK", wantReason: ReasonUnreadable},
		{ticker: "../etc/passwd", wantReason: ReasonInvalidTicker},
	}

	for _, tt := range tests {
		t.Run(tt.ticker, func(t *testing.T) {
			series, reason := loader.load(context.Background(), tt.ticker)
			assert.Equal(t, tt.wantReason, reason)
			if tt.wantReason != "" {
				assert.Nil(t, series)
				assert.Nil(t, loader.Load(context.Background(), tt.ticker))
				return
			}
			require.NotNil(t, series)
			assert.Equal(t, tt.wantLen, series.Len())
		})
	}
}

func TestSeriesLoaderPrefersCanonicalFile(t *testing.T) {
	dir := t.TempDir()
	writeSeries(t, dir, "^NSEI", map[string]float64{"2022-01-03": 1, "2022-01-04": 2})
	writeWorkbook(t, dir, "^NSEI.xlsx", [][]interface{}{{"Date", "Adj Close"}, {"2022-01-03", 99}})

	series := newTestLoader(t, dir).Load(context.Background(), "^NSEI")
	require.NotNil(t, series)
	assert.Equal(t, filepath.Join(dir, "^NSEI_data.xlsx"), series.Source)
	assert.Equal(t, 2, series.Len())
}

func TestSeriesLoaderLegacyLookupDisabled(t *testing.T) {
	dir := t.TempDir()
	writeWorkbook(t, dir, "^NSEI.xlsx", [][]interface{}{{"Date", "Adj Close"}, {"2022-01-03", 99}})

	cfg := testDataConfig(dir)
	cfg.LegacyLookup = false
	loader, err := NewSeriesLoader(cfg, nil, nil)
	require.NoError(t, err)

	assert.Nil(t, loader.Load(context.Background(), "^NSEI"))
}

func TestSeriesLoaderLoadAll(t *testing.T) {
	dir := t.TempDir()
	writeSeries(t, dir, "^NSEI", map[string]float64{"2022-01-03": 1})
	writeSeries(t, dir, "^BSESN", map[string]float64{"2022-01-03": 2})

	result, err := newTestLoader(t, dir).LoadAll(context.Background(),
		[]string{"^NSEI", "^GHOST", " ^NSEI ", "^BSESN", ""})
	require.NoError(t, err)

	assert.Equal(t, []string{"^NSEI", "^GHOST", "^BSESN"}, result.Order)
	assert.Equal(t, []string{"^NSEI", "^BSESN"}, result.Valid())
	assert.Equal(t, []string{"^GHOST"}, result.Excluded())
	assert.Equal(t, ReasonMissing, result.Rejected["^GHOST"])
}

func TestSeriesLoaderLoadAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestLoader(t, t.TempDir()).LoadAll(ctx, []string{"^NSEI"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestUniqueTickers(t *testing.T) {
	assert.Equal(t,
		[]string{"^NSEBANK", "^NSEI", "^BSESN"},
		UniqueTickers([]string{"^NSEBANK", "^NSEI", "^NSEBANK", " ", "^BSESN", "^NSEI"}))
	assert.Empty(t, UniqueTickers(nil))
}

func TestValidTicker(t *testing.T) {
	tests := []struct {
		ticker string
		want   bool
	}{
		{"^NSEI", true},
		{"RELIANCE.NS", true},
		{"", false},
		{"a/b", false},
		{`a\b`, false},
		{"..", false},
		{" ^NSEI", false},
		{string(make([]byte, MaxTickerLength+1)), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidTicker(tt.ticker), "%q", tt.ticker)
	}
}

func TestSeriesLoaderLogsExclusions(t *testing.T) {
	dir := t.TempDir()
	logger, logs := testutil.NewTestLogger(t)
	loader, err := NewSeriesLoader(testDataConfig(dir), logger, nil)
	require.NoError(t, err)

	assert.Nil(t, loader.Load(context.Background(), "^GHOST"))

	testutil.AssertLogContains(t, logs, slog.LevelWarn, "series excluded")
	testutil.AssertLogAttr(t, logs, "component", "series_loader")
	testutil.AssertLogAttr(t, logs, "reason", ReasonMissing)
}
