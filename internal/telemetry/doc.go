// Package telemetry обеспечивает наблюдаемость pipeline.
//
// Включает:
//   - logging.go — structured logging через slog
//   - metrics.go — Prometheus метрики (экспорт в textfile)
//   - tracing.go — OpenTelemetry трейсы (opt-in, OTLP/HTTP)
//
// Процесс однократный, поэтому метрики не отдаются по /metrics,
// а пишутся в файл формата node_exporter textfile collector.
package telemetry
