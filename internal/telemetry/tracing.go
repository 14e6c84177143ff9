package telemetry

import (
	"context"
	"fmt"

	"github.com/caarlos0/env/v11"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// TracerName — имя tracer для спанов pipeline.
const TracerName = "github.com/shaiso/sdr/internal/pipeline"

// tracingEnv — настройки трейсинга из окружения (префикс SAVE_).
type tracingEnv struct {
	Enabled  bool   `env:"OTEL_ENABLED" envDefault:"true"`
	Endpoint string `env:"OTEL_ENDPOINT"`
}

// SetupTracing инициализирует OpenTelemetry трейсинг.
//
// Трейсинг opt-in: если SAVE_OTEL_ENDPOINT пуст или SAVE_OTEL_ENABLED
// равен "false", возвращается no-op shutdown и глобальный провайдер
// не регистрируется.
//
// Возвращаемый shutdown сбрасывает накопленные спаны; вызывающий
// должен вызвать его перед выходом.
func SetupTracing(ctx context.Context, serviceName string) (shutdown func(context.Context) error, err error) {
	noop := func(context.Context) error { return nil }

	var cfg tracingEnv
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "SAVE_"}); err != nil {
		return noop, fmt.Errorf("parse tracing env: %w", err)
	}
	if !cfg.Enabled || cfg.Endpoint == "" {
		return noop, nil
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(cfg.Endpoint),
	)
	if err != nil {
		return noop, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return noop, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}

// Tracer возвращает tracer pipeline из глобального провайдера.
func Tracer() trace.Tracer {
	return otel.Tracer(TracerName)
}
