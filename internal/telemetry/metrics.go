package telemetry

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics — метрики выполнения pipeline.
//
// Используется собственный Registry, а не глобальный:
// в файл попадают только метрики pipeline.
type Metrics struct {
	registry *prometheus.Registry

	StageDuration *prometheus.HistogramVec
	RunsTotal     *prometheus.CounterVec
	Samples       prometheus.Gauge
	TopEigenvalue prometheus.Gauge
}

// NewMetrics создаёт и регистрирует метрики.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "save_stage_duration_seconds",
			Help:    "Duration of pipeline stages",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
		}, []string{"stage", "status"}),
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "save_runs_total",
			Help: "Pipeline runs by final status",
		}, []string{"status"}),
		Samples: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "save_samples",
			Help: "Number of samples in the generated dataset",
		}),
		TopEigenvalue: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "save_top_eigenvalue",
			Help: "Largest eigenvalue of the estimator kernel",
		}),
	}

	m.registry.MustRegister(m.StageDuration, m.RunsTotal, m.Samples, m.TopEigenvalue)
	return m
}

// ObserveStage записывает длительность шага.
func (m *Metrics) ObserveStage(stage, status string, seconds float64) {
	m.StageDuration.WithLabelValues(stage, status).Observe(seconds)
}

// WriteTextfile сохраняет метрики в формате textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
