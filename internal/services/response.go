package services

import (
	"github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/internal/operations"
	api "github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/pkg/contracts/api/v1"
	"github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/pkg/contracts/domain"
)

// ToResponse converts a run result into its API representation.
func ToResponse(result *operations.Result) *api.ComparisonResponse {
	if result == nil {
		return nil
	}

	resp := &api.ComparisonResponse{
		RunID:      result.RunID,
		Status:     string(result.Status),
		Message:    result.Message,
		Tickers:    result.Tickers,
		Excluded:   result.Excluded,
		Tenure:     result.Request.Tenure,
		Normalized: result.Request.Normalize,
		Warnings:   result.Warnings,
		DurationMS: result.Duration.Milliseconds(),
	}
	if resp.Tickers == nil {
		resp.Tickers = []string{}
	}
	if !result.Request.Start.IsZero() {
		resp.StartDate = domain.FormatDay(result.Request.Start)
	}
	if !result.Request.End.IsZero() {
		resp.EndDate = domain.FormatDay(result.Request.End)
	}

	if result.Succeeded() {
		resp.Chart = result.Chart
		resp.Returns = result.Returns
		if !result.Heatmap.Empty() {
			resp.Heatmap = result.Heatmap
		}
		resp.Summary = result.Summary
	}

	resp.Steps = make([]api.StepReport, 0, len(result.Steps))
	for _, st := range result.Steps {
		status, message := st.Snapshot()
		resp.Steps = append(resp.Steps, api.StepReport{
			ID:         st.ID,
			Name:       st.Name,
			Status:     string(status),
			Message:    message,
			DurationMS: st.Duration().Milliseconds(),
		})
	}
	return resp
}
