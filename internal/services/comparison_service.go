package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/internal/config"
	"github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/internal/dataprocessing"
	apierrors "github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/internal/errors"
	"github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/internal/operations"
	"github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/internal/validation"
	api "github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/pkg/contracts/api/v1"
	"github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/pkg/contracts/domain"
)

// Runner executes one comparison run.
type Runner interface {
	Run(ctx context.Context, req operations.Request) *operations.Result
}

// ComparisonService turns dashboard inputs into pipeline runs
type ComparisonService struct {
	runner        Runner
	validator     *validation.RequestValidator
	defaultTenure string
	now           func() time.Time
	logger        *slog.Logger
}

// NewComparisonService creates a comparison service. The dashboard config
// supplies the tenure used when a request names neither a start date nor a
// tenure.
func NewComparisonService(runner Runner, validator *validation.RequestValidator, dashboard config.DashboardConfig, logger *slog.Logger) *ComparisonService {
	if logger == nil {
		logger = slog.Default()
	}
	if validator == nil {
		validator = validation.NewRequestValidator(logger)
	}
	return &ComparisonService{
		runner:        runner,
		validator:     validator,
		defaultTenure: dashboard.DefaultTenure,
		now:           time.Now,
		logger:        logger.With(slog.String("service", "comparison")),
	}
}

// SetClock replaces the clock used to default the end date.
func (s *ComparisonService) SetClock(now func() time.Time) {
	s.now = now
}

// Compare validates req, resolves its date window and runs the pipeline. The
// error is non-nil only for rejected input; pipeline outcomes, failed ones
// included, are reported through the Result.
func (s *ComparisonService) Compare(ctx context.Context, req api.ComparisonRequest) (*operations.Result, error) {
	resolved, err := s.Resolve(ctx, req)
	if err != nil {
		return nil, err
	}

	result := s.runner.Run(ctx, resolved)

	s.logger.InfoContext(ctx, "comparison completed",
		slog.String("run_id", result.RunID),
		slog.String("status", string(result.Status)),
		slog.Int("tickers", len(result.Tickers)),
		slog.Int("excluded", len(result.Excluded)))
	return result, nil
}

// Resolve validates req and converts it into a pipeline request. A tenure
// takes precedence over an explicit start date; a missing end date means
// today.
func (s *ComparisonService) Resolve(ctx context.Context, req api.ComparisonRequest) (operations.Request, error) {
	req.Tickers = dataprocessing.UniqueTickers(req.Tickers)
	req.Tenure = strings.TrimSpace(req.Tenure)
	if err := s.validator.Validate(ctx, req); err != nil {
		return operations.Request{}, err
	}

	end := domain.TruncateDay(s.now())
	if req.EndDate != "" {
		d, err := domain.ParseDay(req.EndDate)
		if err != nil {
			return operations.Request{}, apierrors.ErrValidation("end_date", "end_date must be a date in YYYY-MM-DD format").
				WithCause(fmt.Errorf("%w: %s", ErrInvalidDate, req.EndDate))
		}
		end = d
	}

	tenureLabel := req.Tenure
	if tenureLabel == "" && req.StartDate == "" {
		tenureLabel = s.defaultTenure
	}

	var start time.Time
	switch {
	case tenureLabel != "":
		tenure, err := dataprocessing.ParseTenure(tenureLabel)
		if err != nil {
			return operations.Request{}, apierrors.UnknownTenure(tenureLabel, dataprocessing.TenureLabels()).
				WithCause(fmt.Errorf("%w: %s", ErrUnknownTenure, tenureLabel))
		}
		tenureLabel = tenure.Label
		start = tenure.Start(end)
	default:
		d, err := domain.ParseDay(req.StartDate)
		if err != nil {
			return operations.Request{}, apierrors.ErrValidation("start_date", "start_date must be a date in YYYY-MM-DD format").
				WithCause(fmt.Errorf("%w: %s", ErrInvalidDate, req.StartDate))
		}
		start = d
	}

	if start.After(end) {
		return operations.Request{}, apierrors.InvalidRange(domain.FormatDay(start), domain.FormatDay(end)).
			WithCause(ErrInvalidRange)
	}

	return operations.Request{
		Tickers:   req.Tickers,
		Start:     start,
		End:       end,
		Tenure:    tenureLabel,
		Normalize: req.Normalize,
	}, nil
}

// ResultError converts a failed run into the APIError reported to clients,
// or nil for a successful run.
func ResultError(result *operations.Result) error {
	if result == nil || result.Succeeded() {
		return nil
	}
	switch result.Status {
	case operations.RunStatusNoValidData:
		return apierrors.NoValidData(result.Message, result.Excluded).WithCause(runError(result))
	case operations.RunStatusJoinFailure:
		return apierrors.JoinFailed(result.Message).WithCause(runError(result))
	case operations.RunStatusCancelled:
		if result.Err != nil && result.Err.Cause != nil {
			return result.Err.Cause
		}
		return context.Canceled
	default:
		if result.Err != nil {
			return result.Err
		}
		return fmt.Errorf("comparison %s ended with status %s", result.RunID, result.Status)
	}
}

// runError avoids wrapping a nil *OperationError in a non-nil error.
func runError(result *operations.Result) error {
	if result.Err == nil {
		return nil
	}
	return result.Err
}
