package dataprocessing

import (
	"bytes"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParseSeriesFile(t *testing.T) {
	tests := []struct {
		name      string
		rows      [][]interface{}
		wantErr   error
		wantDates []string
		wantVals  []float64
	}{
		{
			name: "text dates",
			rows: [][]interface{}{
				{"Date", "Open", "Adj Close"},
				{"2022-01-03", 1, 100.5},
				{"2022-01-04", 1, 101.25},
			},
			wantDates: []string{"2022-01-03", "2022-01-04"},
			wantVals:  []float64{100.5, 101.25},
		},
		{
			name: "excel serial dates",
			rows: [][]interface{}{
				{"Date", "Adj Close"},
				{time.Date(2022, 1, 3, 0, 0, 0, 0, time.UTC), 17000},
				{time.Date(2022, 1, 5, 0, 0, 0, 0, time.UTC), 17100},
			},
			wantDates: []string{"2022-01-03", "2022-01-05"},
			wantVals:  []float64{17000, 17100},
		},
		{
			name: "iso datetime text dates",
			rows: [][]interface{}{
				{"Date", "Adj Close"},
				{"2022-01-03T00:00:00", 17625.7},
				{"2022-01-04T15:30:00", 17805.25},
			},
			wantDates: []string{"2022-01-03", "2022-01-04"},
			wantVals:  []float64{17625.7, 17805.25},
		},
		{
			name: "header matched loosely and leading blank row",
			rows: [][]interface{}{
				{},
				{" date ", "ADJ CLOSE"},
				{"2022-01-03", "1,234.5"},
			},
			wantDates: []string{"2022-01-03"},
			wantVals:  []float64{1234.5},
		},
		{
			name: "blank and text values become missing",
			rows: [][]interface{}{
				{"Date", "Adj Close"},
				{"2022-01-03", "null"},
				{"2022-01-04", ""},
				{"", 5},
			},
			wantDates: []string{"2022-01-03", "2022-01-04"},
			wantVals:  []float64{nan, nan},
		},
		{
			name: "missing adj close",
			rows: [][]interface{}{
				{"Date", "Close"},
				{"2022-01-03", 1},
			},
			wantErr: ErrMissingColumn,
		},
		{
			name: "missing date",
			rows: [][]interface{}{
				{"Day", "Adj Close"},
				{"2022-01-03", 1},
			},
			wantErr: ErrMissingColumn,
		},
		{
			name: "unparseable date",
			rows: [][]interface{}{
				{"Date", "Adj Close"},
				{"not a date", 1},
			},
			wantErr: ErrInvalidDate,
		},
		{
			name:    "empty sheet",
			rows:    nil,
			wantErr: ErrEmptySheet,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeWorkbook(t, t.TempDir(), "^NSEI_data.xlsx", tt.rows)

			series, err := ParseSeriesFile(path, "^NSEI", ParseOptions{})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, series)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "^NSEI", series.Ticker)
			assert.Equal(t, path, series.Source)
			require.Len(t, series.Observations, len(tt.wantDates))
			for i, obs := range series.Observations {
				assert.Equal(t, day(tt.wantDates[i]), obs.Date)
				if math.IsNaN(tt.wantVals[i]) {
					assert.True(t, obs.Missing(), "row %d", i)
				} else {
					assert.InDelta(t, tt.wantVals[i], obs.Value, 1e-9)
				}
			}
		})
	}
}

func TestParseSeriesNamedSheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	_, err := f.NewSheet("Prices")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Prices", "A1", &[]interface{}{"Date", "Adj Close"}))
	require.NoError(t, f.SetSheetRow("Prices", "A2", &[]interface{}{"2022-01-03", 42}))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	series, err := ParseSeries(&buf, "^BSESN", "memory", ParseOptions{Sheet: "Prices"})
	require.NoError(t, err)
	require.Equal(t, 1, series.Len())
	assert.Equal(t, 42.0, series.Observations[0].Value)
}

func TestParseSeriesFileMissing(t *testing.T) {
	_, err := ParseSeriesFile("/nonexistent/^NSEI_data.xlsx", "^NSEI", ParseOptions{})
	assert.Error(t, err)
}
