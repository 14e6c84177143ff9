package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/shaiso/sdr/internal/domain"
	"github.com/shaiso/sdr/internal/engine"
	"github.com/shaiso/sdr/internal/steps"
	"github.com/shaiso/sdr/internal/telemetry"
)

// Runner выполняет шаги pipeline по очереди.
type Runner struct {
	registry *steps.Registry
	metrics  *telemetry.Metrics
	tracer   trace.Tracer
	logger   *slog.Logger
}

// Config — конфигурация Runner.
type Config struct {
	// Registry — реестр шагов (обязателен).
	Registry *steps.Registry

	// Metrics — метрики; nil отключает запись.
	Metrics *telemetry.Metrics

	// Tracer — tracer для спанов; по умолчанию telemetry.Tracer().
	Tracer trace.Tracer

	// Logger
	Logger *slog.Logger
}

// New создаёт новый Runner.
func New(cfg Config) *Runner {
	tracer := cfg.Tracer
	if tracer == nil {
		tracer = telemetry.Tracer()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Runner{
		registry: cfg.Registry,
		metrics:  cfg.Metrics,
		tracer:   tracer,
		logger:   logger,
	}
}

// Run выполняет pipeline один раз.
//
// Возвращает run (всегда, даже при ошибке) и контекст с outputs
// выполненных шагов. Ошибка шага возвращается как есть.
func (r *Runner) Run(ctx context.Context, spec *domain.PipelineSpec) (*domain.Run, *engine.Context, error) {
	name := ""
	if spec != nil {
		name = spec.Name
	}
	run := domain.NewRun(name)
	tmplCtx := engine.NewContext(nil)
	logger := telemetry.WithRunID(r.logger, run.ID.String())

	if err := engine.Validate(spec); err != nil {
		r.finish(run, logger, err)
		return run, tmplCtx, err
	}
	if err := r.checkRegistered(spec); err != nil {
		r.finish(run, logger, err)
		return run, tmplCtx, err
	}

	ctx, span := r.tracer.Start(ctx, "pipeline.run", trace.WithAttributes(
		attribute.String("run.id", run.ID.String()),
		attribute.String("pipeline.name", spec.Name),
		attribute.Int("pipeline.steps", len(spec.Steps)),
	))
	defer span.End()

	run.MarkRunning()
	logger.Info("run started", "pipeline", spec.Name, "steps", len(spec.Steps))

	for i := range spec.Steps {
		if err := r.runStep(ctx, logger, run, tmplCtx, &spec.Steps[i]); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			r.finish(run, logger, err)
			return run, tmplCtx, err
		}
	}

	r.finish(run, logger, nil)
	return run, tmplCtx, nil
}

// runStep выполняет один шаг и записывает результат в run и контекст.
func (r *Runner) runStep(ctx context.Context, logger *slog.Logger, run *domain.Run, tmplCtx *engine.Context, def *domain.StepDef) error {
	logger = telemetry.WithStep(logger, def.ID, def.Type)

	ctx, span := r.tracer.Start(ctx, "pipeline.step."+def.Type, trace.WithAttributes(
		attribute.String("step.id", def.ID),
		attribute.String("step.type", def.Type),
	))
	defer span.End()

	// Шаги пишут логи через telemetry.FromContext
	ctx = telemetry.WithLogger(ctx, logger)

	start := time.Now()
	outputs, err := r.execute(ctx, tmplCtx, def)
	elapsed := time.Since(start)

	status := domain.StageStatusSucceeded
	if err != nil {
		status = domain.StageStatusFailed
	}

	stage := domain.StageResult{
		StepID:   def.ID,
		Type:     def.Type,
		Status:   status,
		Duration: elapsed,
	}
	if err != nil {
		stage.Error = err.Error()
	}
	run.AddStage(stage)
	tmplCtx.AddStepResult(def.ID, outputs, string(status))

	if r.metrics != nil {
		r.metrics.ObserveStage(def.Type, string(status), elapsed.Seconds())
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Error("step failed", "error", err, "duration", elapsed)
		return err
	}

	r.observeOutputs(span, outputs)
	logger.Info("step finished", "duration", elapsed)
	return nil
}

// checkRegistered проверяет, что у каждого шага есть исполнитель,
// до того как выполнится первый шаг.
func (r *Runner) checkRegistered(spec *domain.PipelineSpec) error {
	for _, def := range spec.Steps {
		if !r.registry.Has(def.Type) {
			_, err := r.registry.Get(def.Type)
			return fmt.Errorf("step %s: %w", def.ID, err)
		}
	}
	return nil
}

func (r *Runner) execute(ctx context.Context, tmplCtx *engine.Context, def *domain.StepDef) (map[string]any, error) {
	step, err := r.registry.Get(def.Type)
	if err != nil {
		return nil, err
	}

	config, err := engine.RenderConfig(def.Config, tmplCtx)
	if err != nil {
		return nil, fmt.Errorf("step %s: %w", def.ID, err)
	}

	resp, err := step.Execute(ctx, steps.NewRequest(def.ID, config, tmplCtx))
	if err != nil {
		return nil, err
	}
	return resp.Outputs, nil
}

// observeOutputs переносит известные outputs в атрибуты спана и gauges.
func (r *Runner) observeOutputs(span trace.Span, outputs map[string]any) {
	if rows, ok := outputs["rows"].(int); ok {
		span.SetAttributes(attribute.Int("data.rows", rows))
	}
	if method, ok := outputs["method"].(string); ok {
		span.SetAttributes(attribute.String("estimator.method", method))
	}

	if r.metrics == nil {
		return
	}
	if ds, ok := outputs["dataset"].(*domain.Dataset); ok {
		r.metrics.Samples.Set(float64(ds.Rows()))
	}
	if ev, ok := outputs["eigenvalues"].([]float64); ok && len(ev) > 0 {
		r.metrics.TopEigenvalue.Set(ev[0])
	}
}

func (r *Runner) finish(run *domain.Run, logger *slog.Logger, err error) {
	if err != nil {
		run.MarkFailed(err.Error())
		logger.Error("run failed", "error", err)
	} else {
		run.MarkSucceeded()
		logger.Info("run succeeded", "duration", run.Duration())
	}

	if r.metrics != nil {
		r.metrics.RunsTotal.WithLabelValues(string(run.Status)).Inc()
	}
}
