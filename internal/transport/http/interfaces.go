package http

import (
	"context"

	"github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/internal/operations"
	api "github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/pkg/contracts/api/v1"
)

// ComparisonServiceInterface runs comparisons
type ComparisonServiceInterface interface {
	Compare(ctx context.Context, req api.ComparisonRequest) (*operations.Result, error)
}

// CatalogServiceInterface lists the selectable inputs of the dashboard
type CatalogServiceInterface interface {
	ListTickers(ctx context.Context, req api.TickerListRequest) ([]api.TickerInfo, error)
	ListTenures() []api.TenureInfo
}

// HealthServiceInterface reports service health
type HealthServiceInterface interface {
	Check(ctx context.Context) api.HealthResponse
	Ready(ctx context.Context) error
}
