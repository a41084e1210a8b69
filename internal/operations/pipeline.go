package operations

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Pipeline executes the registered steps of a comparison in order.
type Pipeline struct {
	registry *Registry
	tracer   *PipelineTracer
	logger   *slog.Logger
}

// NewPipeline creates a pipeline running DefaultSteps over source.
func NewPipeline(source SeriesSource, tracer *PipelineTracer, logger *slog.Logger) *Pipeline {
	registry := NewRegistry()
	for _, step := range DefaultSteps(source) {
		// IDs are distinct constants
		_ = registry.Register(step)
	}
	return NewPipelineWithRegistry(registry, tracer, logger)
}

// NewPipelineWithRegistry creates a pipeline over custom steps.
func NewPipelineWithRegistry(registry *Registry, tracer *PipelineTracer, logger *slog.Logger) *Pipeline {
	if tracer == nil {
		tracer = NewPipelineTracer(nil, nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		registry: registry,
		tracer:   tracer,
		logger:   logger.With(slog.String("component", "pipeline")),
	}
}

// Steps returns the IDs of the steps in execution order.
func (p *Pipeline) Steps() []string {
	return p.registry.ListIDs()
}

// Run executes one comparison from scratch. The first failing step ends the
// run and the remaining steps are skipped.
func (p *Pipeline) Run(ctx context.Context, req Request) *Result {
	if req.RunID == "" {
		req.RunID = uuid.NewString()
	}

	state := NewRunState(req)
	steps := p.registry.List()
	for _, step := range steps {
		state.SetStep(step.ID(), NewStepState(step.ID(), step.Name()))
	}

	ctx, span := p.tracer.TraceRun(ctx, req)
	logger := p.logger.With(slog.String("run_id", req.RunID))
	logger.InfoContext(ctx, "pipeline_started",
		slog.Any("tickers", req.Tickers),
		slog.Bool("normalize", req.Normalize),
		slog.Int("total_steps", len(steps)))

	var failure *OperationError
	for i, step := range steps {
		stepState := state.GetStep(step.ID())

		if failure != nil {
			stepState.Skip(fmt.Sprintf("previous step %s did not complete", failure.Step))
			continue
		}

		if err := ctx.Err(); err != nil {
			failure = NewCancellationError(step.ID(), err)
			stepState.Skip(failure.Message)
			continue
		}

		logger.DebugContext(ctx, "executing_step",
			slog.String("step", step.ID()),
			slog.Int("step_number", i+1))

		if err := p.executeStep(ctx, state, step, stepState); err != nil {
			failure = WrapError(err, step.ID())
			logger.WarnContext(ctx, "step_failed",
				slog.String("step", step.ID()),
				slog.String("error_type", string(failure.Type)),
				slog.String("error", err.Error()))
		}
	}

	result := p.buildResult(state, failure)
	p.tracer.EndRun(ctx, span, result)

	logger.InfoContext(ctx, "pipeline_finished",
		slog.String("status", string(result.Status)),
		slog.Int("columns", len(result.Tickers)),
		slog.Int("excluded", len(result.Excluded)),
		slog.Duration("duration", result.Duration))
	return result
}

func (p *Pipeline) executeStep(ctx context.Context, state *RunState, step Step, stepState *StepState) (err error) {
	stepCtx, span := p.tracer.TraceStep(ctx, state.ID, step)
	stepState.Start()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("step %s panicked: %v", step.ID(), r)
		}
		if err != nil {
			stepState.Fail(err)
		} else {
			stepState.Complete("")
		}
		status, _ := stepState.Snapshot()
		p.tracer.EndStep(stepCtx, span, step.ID(), status, stepState.Duration(), err)
	}()

	return step.Execute(stepCtx, state)
}

func (p *Pipeline) buildResult(state *RunState, failure *OperationError) *Result {
	result := &Result{
		RunID:     state.ID,
		Status:    RunStatusSuccess,
		Request:   state.Request,
		Steps:     state.Steps(),
		StartTime: state.StartTime,
		Warnings:  state.Warnings,
	}

	if state.Loaded != nil {
		result.Excluded = state.Loaded.Excluded()
		result.Rejected = state.Loaded.Rejected
	}

	if failure != nil {
		result.Status = failure.Type.Status()
		result.Err = failure
		result.Message = failure.Message
		result.Duration = time.Since(state.StartTime)
		return result
	}

	if state.Joined != nil {
		result.Tickers = state.Joined.Columns
	}
	result.Chart = state.Chart
	result.Returns = state.Returns
	result.Heatmap = state.Heatmap
	result.Summary = state.Summary
	result.Duration = time.Since(state.StartTime)
	return result
}
