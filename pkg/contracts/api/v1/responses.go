package api

import (
	"github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/pkg/contracts/domain"
)

// Run status values carried by ComparisonResponse.Status.
const (
	StatusSuccess     = "success"
	StatusNoValidData = "no_valid_data"
	StatusJoinFailure = "join_failure"
	StatusCancelled   = "cancelled"
)

// ComparisonResponse is the outcome of one pipeline run. On success Chart
// and Returns are set; on failure Message explains what went wrong and no
// table is present.
type ComparisonResponse struct {
	RunID      string                 `json:"run_id"`
	Status     string                 `json:"status"`
	Message    string                 `json:"message,omitempty"`
	Tickers    []string               `json:"tickers"`
	Excluded   []string               `json:"excluded,omitempty"`
	StartDate  string                 `json:"start_date"`
	EndDate    string                 `json:"end_date"`
	Tenure     string                 `json:"tenure,omitempty"`
	Normalized bool                   `json:"normalized"`
	Chart      *domain.Table          `json:"chart,omitempty"`
	Returns    *domain.Table          `json:"returns,omitempty"`
	Heatmap    *domain.Heatmap        `json:"heatmap,omitempty"`
	Summary    []domain.ReturnSummary `json:"summary,omitempty"`
	Warnings   []string               `json:"warnings,omitempty"`
	Steps      []StepReport           `json:"steps,omitempty"`
	DurationMS int64                  `json:"duration_ms"`
}

// Succeeded reports whether the run produced tables.
func (r *ComparisonResponse) Succeeded() bool {
	return r != nil && r.Status == StatusSuccess
}

// StepReport describes how one pipeline stage went.
type StepReport struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Status     string `json:"status"`
	Message    string `json:"message,omitempty"`
	DurationMS int64  `json:"duration_ms"`
}

// TickerInfo is one entry of the selectable ticker catalog.
type TickerInfo struct {
	Symbol     string `json:"symbol"`
	Available  bool   `json:"available"`
	Configured bool   `json:"configured"`
	Source     string `json:"source,omitempty"`
}

// TenureInfo describes one preset window.
type TenureInfo struct {
	Label  string `json:"label"`
	Months int    `json:"months"`
}

// HealthResponse is returned by the health endpoints.
type HealthResponse struct {
	Status    string            `json:"status"`
	Version   string            `json:"version"`
	Uptime    string            `json:"uptime"`
	Checks    map[string]string `json:"checks,omitempty"`
	DataFiles int               `json:"data_files"`
}
