package operations

import (
	"time"

	"github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/pkg/contracts/domain"
)

// RunStatus tags the outcome of a run.
type RunStatus string

const (
	RunStatusRunning     RunStatus = "running"
	RunStatusSuccess     RunStatus = "success"
	RunStatusNoValidData RunStatus = "no_valid_data"
	RunStatusJoinFailure RunStatus = "join_failure"
	RunStatusCancelled   RunStatus = "cancelled"
	RunStatusFailed      RunStatus = "failed"
)

// User-facing messages of the terminal outcomes.
const (
	MessageNoValidData = "No valid data found for the selected tickers."
	MessageJoinFailure = "Unable to combine the selected data series. Check that each data file has a single row per date."
	MessageCancelled   = "The comparison was cancelled."
)

// Request is a resolved comparison request. Start and End are inclusive
// calendar days; a zero Start leaves the window open on the left.
type Request struct {
	RunID     string
	Tickers   []string
	Start     time.Time
	End       time.Time
	Tenure    string
	Normalize bool
}

// Result is the tagged outcome of a run.
type Result struct {
	RunID   string
	Status  RunStatus
	Message string
	Err     *OperationError
	Request Request

	// Tickers are the columns of the joined table; Excluded lists requested
	// tickers without a usable series and Rejected gives each one's reason.
	Tickers  []string
	Excluded []string
	Rejected map[string]string

	// Chart is the filtered, possibly normalized table that is plotted.
	Chart    *domain.Table
	Returns  *domain.Table
	Heatmap  *domain.Heatmap
	Summary  []domain.ReturnSummary
	Warnings []string

	Steps     []*StepState
	StartTime time.Time
	Duration  time.Duration
}

// Succeeded reports whether every step completed.
func (r *Result) Succeeded() bool {
	return r != nil && r.Status == RunStatusSuccess
}
