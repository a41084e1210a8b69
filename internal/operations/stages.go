package operations

import (
	"context"
	"fmt"
	"strings"

	"github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/internal/dataprocessing"
)

// Step IDs in execution order
const (
	StepIDLoad      = "load"
	StepIDAggregate = "aggregate"
	StepIDWindow    = "window"
	StepIDReturns   = "returns"
)

// SeriesSource loads ticker series for a run.
type SeriesSource interface {
	LoadAll(ctx context.Context, tickers []string) (*dataprocessing.LoadResult, error)
}

// LoadStep reads the spreadsheet of every requested ticker
type LoadStep struct {
	BaseStep
	source SeriesSource
}

// NewLoadStep creates the load step
func NewLoadStep(source SeriesSource) *LoadStep {
	return &LoadStep{
		BaseStep: NewBaseStep(StepIDLoad, "Load Series"),
		source:   source,
	}
}

// Execute loads the requested tickers. Missing or malformed sources are
// excluded with a warning; only cancellation fails the step.
func (s *LoadStep) Execute(ctx context.Context, state *RunState) error {
	loaded, err := s.source.LoadAll(ctx, state.Request.Tickers)
	if err != nil {
		return err
	}
	state.Loaded = loaded

	if excluded := loaded.Excluded(); len(excluded) > 0 {
		parts := make([]string, 0, len(excluded))
		for _, t := range excluded {
			parts = append(parts, fmt.Sprintf("%s (%s)", t, loaded.Rejected[t]))
		}
		state.AddWarning("Excluded tickers without usable data: " + strings.Join(parts, ", "))
	}
	return nil
}

// AggregateStep joins the loaded series on date
type AggregateStep struct {
	BaseStep
}

// NewAggregateStep creates the aggregate step
func NewAggregateStep() *AggregateStep {
	return &AggregateStep{BaseStep: NewBaseStep(StepIDAggregate, "Aggregate Series")}
}

// Execute outer-joins the valid series
func (s *AggregateStep) Execute(ctx context.Context, state *RunState) error {
	if state.Loaded == nil {
		return dataprocessing.ErrNoValidData
	}
	joined, err := dataprocessing.Aggregate(state.Loaded.Order, state.Loaded.Series)
	if err != nil {
		return err
	}
	state.Joined = joined
	return nil
}

// WindowStep applies the date range and optional normalization
type WindowStep struct {
	BaseStep
}

// NewWindowStep creates the window step
func NewWindowStep() *WindowStep {
	return &WindowStep{BaseStep: NewBaseStep(StepIDWindow, "Filter And Normalize")}
}

// Execute filters the joined table to the requested range and, when asked,
// rebases every column to 100
func (s *WindowStep) Execute(ctx context.Context, state *RunState) error {
	req := state.Request
	state.Window = dataprocessing.FilterRange(state.Joined, req.Start, req.End)
	state.Chart = state.Window

	if state.Window.IsEmpty() {
		state.AddWarning("No data available in the selected date range.")
		return nil
	}

	if req.Normalize {
		normalized, unbased := dataprocessing.Normalize(state.Window)
		state.Chart = normalized
		if len(unbased) > 0 {
			state.AddWarning("Cannot normalize tickers without a value on the first date: " + strings.Join(unbased, ", "))
		}
	}
	return nil
}

// ReturnsStep derives period returns, the heatmap and summary statistics
type ReturnsStep struct {
	BaseStep
}

// NewReturnsStep creates the returns step
func NewReturnsStep() *ReturnsStep {
	return &ReturnsStep{BaseStep: NewBaseStep(StepIDReturns, "Compute Returns")}
}

// Execute computes returns of the charted table
func (s *ReturnsStep) Execute(ctx context.Context, state *RunState) error {
	req := state.Request
	state.Returns = dataprocessing.Returns(state.Chart, req.Start, req.End)
	state.Heatmap = dataprocessing.BuildHeatmap(state.Returns)
	state.Summary = dataprocessing.SummarizeReturns(state.Returns)
	return nil
}

// DefaultSteps returns the comparison steps in execution order
func DefaultSteps(source SeriesSource) []Step {
	return []Step{
		NewLoadStep(source),
		NewAggregateStep(),
		NewWindowStep(),
		NewReturnsStep(),
	}
}
