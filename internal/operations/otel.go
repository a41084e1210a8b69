package operations

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/internal/infrastructure"
)

const (
	TracerName = "predictram.pipeline"
)

// PipelineTracer provides OpenTelemetry instrumentation for pipeline runs
type PipelineTracer struct {
	tracer  trace.Tracer
	metrics *infrastructure.BusinessMetrics
}

// NewPipelineTracer creates a pipeline tracer. A nil tracer records no spans
// and nil metrics record nothing.
func NewPipelineTracer(tracer trace.Tracer, metrics *infrastructure.BusinessMetrics) *PipelineTracer {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer(TracerName)
	}
	return &PipelineTracer{tracer: tracer, metrics: metrics}
}

// TraceRun creates the span of a whole run
func (pt *PipelineTracer) TraceRun(ctx context.Context, req Request) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("pipeline.run_id", req.RunID),
		attribute.StringSlice("pipeline.tickers", req.Tickers),
		attribute.Bool("pipeline.normalize", req.Normalize),
	}
	if !req.Start.IsZero() {
		attrs = append(attrs, attribute.String("pipeline.start", req.Start.Format("2006-01-02")))
	}
	if !req.End.IsZero() {
		attrs = append(attrs, attribute.String("pipeline.end", req.End.Format("2006-01-02")))
	}
	if req.Tenure != "" {
		attrs = append(attrs, attribute.String("pipeline.tenure", req.Tenure))
	}

	return pt.tracer.Start(ctx, "pipeline.run",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

// TraceStep creates a child span for one step
func (pt *PipelineTracer) TraceStep(ctx context.Context, runID string, step Step) (context.Context, trace.Span) {
	return pt.tracer.Start(ctx, fmt.Sprintf("pipeline.step.%s", step.ID()),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("pipeline.run_id", runID),
			attribute.String("step.id", step.ID()),
			attribute.String("step.name", step.Name()),
		),
	)
}

// EndStep finishes a step span and records its duration
func (pt *PipelineTracer) EndStep(ctx context.Context, span trace.Span, stepID string, status StepStatus, duration time.Duration, err error) {
	span.SetAttributes(
		attribute.String("step.status", string(status)),
		attribute.Float64("step.duration_seconds", duration.Seconds()),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()

	infrastructure.RecordPipelineStep(ctx, pt.metrics, stepID, string(status), duration)
}

// EndRun finishes the run span and records the run metrics
func (pt *PipelineTracer) EndRun(ctx context.Context, span trace.Span, result *Result) {
	span.SetAttributes(
		attribute.String("pipeline.status", string(result.Status)),
		attribute.Int("pipeline.columns", len(result.Tickers)),
		attribute.Int("pipeline.excluded", len(result.Excluded)),
		attribute.Int("pipeline.rows", result.Chart.Len()),
	)
	if result.Err != nil {
		span.RecordError(result.Err)
		span.SetStatus(codes.Error, result.Err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()

	infrastructure.RecordPipelineRun(ctx, pt.metrics, string(result.Status), result.Duration)
}
