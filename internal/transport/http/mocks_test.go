package http

import (
	"context"
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/stretchr/testify/mock"

	apierrors "github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/internal/errors"
	"github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/internal/operations"
	api "github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/pkg/contracts/api/v1"
	"github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/pkg/contracts/domain"
)

// MockComparisonService is a mock implementation of ComparisonServiceInterface
type MockComparisonService struct {
	mock.Mock
}

func (m *MockComparisonService) Compare(ctx context.Context, req api.ComparisonRequest) (*operations.Result, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*operations.Result), args.Error(1)
}

// MockCatalogService is a mock implementation of CatalogServiceInterface
type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) ListTickers(ctx context.Context, req api.TickerListRequest) ([]api.TickerInfo, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]api.TickerInfo), args.Error(1)
}

func (m *MockCatalogService) ListTenures() []api.TenureInfo {
	args := m.Called()
	return args.Get(0).([]api.TenureInfo)
}

// MockHealthService is a mock implementation of HealthServiceInterface
type MockHealthService struct {
	mock.Mock
}

func (m *MockHealthService) Check(ctx context.Context) api.HealthResponse {
	args := m.Called()
	return args.Get(0).(api.HealthResponse)
}

func (m *MockHealthService) Ready(ctx context.Context) error {
	args := m.Called()
	return args.Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func testErrorHandler() *apierrors.ErrorHandler {
	return apierrors.NewErrorHandler(discardLogger(), false)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// successResult is a completed two ticker run over three trading days.
func successResult() *operations.Result {
	chart := domain.NewTable([]string{"^NSEI", "^BSESN"})
	chart.AppendRow(day(2022, 1, 3), []float64{100, 100})
	chart.AppendRow(day(2022, 1, 4), []float64{101, math.NaN()})
	chart.AppendRow(day(2022, 1, 5), []float64{99.99, 102})

	returns := domain.NewTable([]string{"^NSEI", "^BSESN"})
	returns.AppendRow(day(2022, 1, 4), []float64{0.01, math.NaN()})
	returns.AppendRow(day(2022, 1, 5), []float64{-0.01, 0.02})

	return &operations.Result{
		RunID:   "run-1",
		Status:  operations.RunStatusSuccess,
		Request: operations.Request{Tickers: []string{"^NSEI", "^BSESN"}, Start: day(2022, 1, 1), End: day(2022, 1, 31)},
		Tickers: []string{"^NSEI", "^BSESN"},
		Chart:   chart,
		Returns: returns,
		Heatmap: &domain.Heatmap{
			Tickers: []string{"^NSEI", "^BSESN"},
			Dates:   returns.Dates,
			Cells:   [][]float64{{0.01, -0.01}, {math.NaN(), 0.02}},
		},
	}
}

func failedResult(status operations.RunStatus, message string) *operations.Result {
	return &operations.Result{
		RunID:    "run-2",
		Status:   status,
		Message:  message,
		Request:  operations.Request{Tickers: []string{"^GHOST"}, Start: day(2022, 1, 1), End: day(2022, 1, 31)},
		Excluded: []string{"^GHOST"},
	}
}
