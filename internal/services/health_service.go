package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/internal/validation"
	"github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/pkg/contracts"
	api "github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/pkg/contracts/api/v1"
)

// Health status values
const (
	HealthStatusHealthy   = "healthy"
	HealthStatusDegraded  = "degraded"
	HealthStatusUnhealthy = "unhealthy"
)

// HealthService reports whether the dashboard can serve comparisons
type HealthService struct {
	dataDir   string
	validator *validation.FileValidator
	startTime time.Time
	logger    *slog.Logger
}

// NewHealthService creates a health service for the given data directory
func NewHealthService(dataDir string, validator *validation.FileValidator, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	if validator == nil {
		validator = validation.NewFileValidator(logger)
	}
	return &HealthService{
		dataDir:   dataDir,
		validator: validator,
		startTime: time.Now(),
		logger:    logger.With(slog.String("service", "health")),
	}
}

// Check inspects the data directory. A missing directory makes the service
// unhealthy; an empty one degraded.
func (s *HealthService) Check(ctx context.Context) api.HealthResponse {
	resp := api.HealthResponse{
		Status:  HealthStatusHealthy,
		Version: contracts.GetVersionString(),
		Uptime:  s.Uptime().Truncate(time.Second).String(),
		Checks:  map[string]string{},
	}

	count, err := s.validator.ValidateDataDirectory(s.dataDir)
	switch {
	case err != nil:
		resp.Status = HealthStatusUnhealthy
		resp.Checks["data_directory"] = err.Error()
		s.logger.WarnContext(ctx, "health check failed",
			slog.String("dir", s.dataDir),
			slog.String("error", err.Error()))
	case count == 0:
		resp.Status = HealthStatusDegraded
		resp.Checks["data_directory"] = "no workbooks found"
	default:
		resp.Checks["data_directory"] = "ok"
	}
	resp.DataFiles = count
	return resp
}

// Ready returns an error when comparisons cannot be served
func (s *HealthService) Ready(ctx context.Context) error {
	if resp := s.Check(ctx); resp.Status == HealthStatusUnhealthy {
		return fmt.Errorf("not ready: %s", resp.Checks["data_directory"])
	}
	return nil
}

// Uptime returns how long the service has been running
func (s *HealthService) Uptime() time.Duration {
	return time.Since(s.startTime)
}
