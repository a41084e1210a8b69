package http

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/internal/charts"
	apierrors "github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/internal/errors"
	"github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/internal/operations"
	api "github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/pkg/contracts/api/v1"
	"github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/pkg/contracts/domain"
)

func newComparisonRouter(svc *MockComparisonService) http.Handler {
	h := NewComparisonHandler(svc, charts.Options{Width: 640, Height: 320}, nil, discardLogger(), testErrorHandler())
	r := chi.NewRouter()
	r.Mount("/api/comparison", h.Routes())
	return r
}

func comparisonQuery() url.Values {
	return url.Values{
		"tickers":   {"^NSEI,^BSESN"},
		"start":     {"2022-01-01"},
		"end":       {"2022-01-31"},
		"normalize": {"true"},
	}
}

var parsedComparison = api.ComparisonRequest{
	Tickers:   []string{"^NSEI", "^BSESN"},
	StartDate: "2022-01-01",
	EndDate:   "2022-01-31",
	Normalize: true,
}

func doGet(h http.Handler, path string, q url.Values) *httptest.ResponseRecorder {
	target := path
	if q != nil {
		target += "?" + q.Encode()
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestComparisonHandler_GetComparison(t *testing.T) {
	tests := []struct {
		name       string
		query      url.Values
		setupMock  func(*MockComparisonService)
		wantStatus int
		wantType   string
	}{
		{
			name:  "success",
			query: comparisonQuery(),
			setupMock: func(m *MockComparisonService) {
				m.On("Compare", parsedComparison).Return(successResult(), nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:  "no valid data",
			query: comparisonQuery(),
			setupMock: func(m *MockComparisonService) {
				m.On("Compare", parsedComparison).
					Return(failedResult(operations.RunStatusNoValidData, operations.MessageNoValidData), nil)
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   apierrors.TypeNoValidData,
		},
		{
			name:  "join failure",
			query: comparisonQuery(),
			setupMock: func(m *MockComparisonService) {
				m.On("Compare", parsedComparison).
					Return(failedResult(operations.RunStatusJoinFailure, operations.MessageJoinFailure), nil)
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   apierrors.TypeJoinFailure,
		},
		{
			name:  "rejected request",
			query: comparisonQuery(),
			setupMock: func(m *MockComparisonService) {
				m.On("Compare", parsedComparison).
					Return(nil, apierrors.InvalidRange("2022-01-31", "2022-01-01"))
			},
			wantStatus: http.StatusBadRequest,
			wantType:   apierrors.TypeInvalidRange,
		},
		{
			name:       "bad normalize flag",
			query:      url.Values{"tickers": {"^NSEI"}, "normalize": {"maybe"}},
			setupMock:  func(m *MockComparisonService) {},
			wantStatus: http.StatusBadRequest,
			wantType:   apierrors.TypeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockComparisonService)
			tt.setupMock(svc)

			rec := doGet(newComparisonRouter(svc), "/api/comparison", tt.query)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			if tt.wantType != "" {
				assert.Equal(t, tt.wantType, body["type"])
			} else {
				assert.Equal(t, api.StatusSuccess, body["status"])
				assert.Equal(t, "2022-01-01", body["start_date"])
				assert.NotNil(t, body["chart"])
				assert.NotNil(t, body["heatmap"])
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestComparisonHandler_RepeatedTickerParams(t *testing.T) {
	svc := new(MockComparisonService)
	svc.On("Compare", api.ComparisonRequest{Tickers: []string{"^NSEI", "^BSESN", "^CNXIT"}}).
		Return(successResult(), nil)

	q := url.Values{"tickers": {"^NSEI", "^BSESN, ^CNXIT"}}
	rec := doGet(newComparisonRouter(svc), "/api/comparison", q)

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestComparisonHandler_PostComparison(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setupMock  func(*MockComparisonService)
		wantStatus int
	}{
		{
			name: "valid body",
			body: `{"tickers":["^NSEI","^BSESN"],"start_date":"2022-01-01","end_date":"2022-01-31","normalize":true}`,
			setupMock: func(m *MockComparisonService) {
				m.On("Compare", parsedComparison).Return(successResult(), nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "malformed body",
			body:       `{"tickers":`,
			setupMock:  func(m *MockComparisonService) {},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockComparisonService)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodPost, "/api/comparison", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			newComparisonRouter(svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestComparisonHandler_Chart(t *testing.T) {
	svc := new(MockComparisonService)
	svc.On("Compare", parsedComparison).Return(successResult(), nil)

	rec := doGet(newComparisonRouter(svc), "/api/comparison/chart.png", comparisonQuery())

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))
}

func TestComparisonHandler_ChartNothingToPlot(t *testing.T) {
	empty := successResult()
	empty.Chart = domain.NewTable([]string{"^NSEI"})
	empty.Chart.AppendRow(day(2022, 1, 3), []float64{math.NaN()})

	svc := new(MockComparisonService)
	svc.On("Compare", parsedComparison).Return(empty, nil)

	rec := doGet(newComparisonRouter(svc), "/api/comparison/chart.png", comparisonQuery())

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), apierrors.TypeNothingToPlot)
}

func TestComparisonHandler_ReturnsCSV(t *testing.T) {
	svc := new(MockComparisonService)
	svc.On("Compare", parsedComparison).Return(successResult(), nil)

	rec := doGet(newComparisonRouter(svc), "/api/comparison/returns.csv", comparisonQuery())

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "returns_2022-01-01_2022-01-31.csv")
	assert.Equal(t,
		"\xEF\xBB\xBFDate,^NSEI,^BSESN\n2022-01-04,0.01,\n2022-01-05,-0.01,0.02\n",
		rec.Body.String())
}

func TestComparisonHandler_HeatmapWorkbook(t *testing.T) {
	svc := new(MockComparisonService)
	svc.On("Compare", parsedComparison).Return(successResult(), nil)

	rec := doGet(newComparisonRouter(svc), "/api/comparison/heatmap.xlsx", comparisonQuery())

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "heatmap_2022-01-01_2022-01-31.xlsx")
	// xlsx files are zip archives
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")))
}

func TestComparisonHandler_HeatmapWorkbookEmpty(t *testing.T) {
	result := successResult()
	result.Heatmap = &domain.Heatmap{}

	svc := new(MockComparisonService)
	svc.On("Compare", mock.Anything).Return(result, nil)

	rec := doGet(newComparisonRouter(svc), "/api/comparison/heatmap.xlsx", comparisonQuery())

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
