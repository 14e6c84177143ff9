package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestLogLevel(t *testing.T) {
	tests := []struct {
		env      string
		expected slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Setenv("LOG_LEVEL", tt.env)
			if got := LogLevel(); got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := WithStep(WithRunID(NewLogger(&buf, "json", slog.LevelInfo), "run-1"), "estimate", "estimate")
	logger.Info("step finished", "rows", 500)

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("log line is not JSON: %v (%s)", err, buf.String())
	}
	if record["run_id"] != "run-1" || record["step_id"] != "estimate" || record["step_type"] != "estimate" {
		t.Errorf("missing context attributes: %v", record)
	}
	if record["rows"] != float64(500) {
		t.Errorf("expected rows=500, got %v", record["rows"])
	}
}

func TestNewLogger_TextAndLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "text", slog.LevelWarn)

	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info record should be filtered at WARN level")
	}
	if !strings.Contains(out, "msg=shown") {
		t.Errorf("expected text record, got %q", out)
	}
}

func TestFromContext(t *testing.T) {
	if FromContext(context.Background()) != slog.Default() {
		t.Error("expected default logger for empty context")
	}

	logger := NewLogger(&bytes.Buffer{}, "json", slog.LevelInfo)
	ctx := WithLogger(context.Background(), logger)
	if FromContext(ctx) != logger {
		t.Error("expected logger from context")
	}
}

func TestMetrics(t *testing.T) {
	m := NewMetrics()

	m.ObserveStage("dataset", "SUCCEEDED", 0.01)
	m.ObserveStage("estimate", "SUCCEEDED", 0.2)
	m.RunsTotal.WithLabelValues("SUCCEEDED").Inc()
	m.Samples.Set(500)

	if got := testutil.CollectAndCount(m.StageDuration); got != 2 {
		t.Errorf("expected 2 stage series, got %d", got)
	}
	if got := testutil.ToFloat64(m.RunsTotal.WithLabelValues("SUCCEEDED")); got != 1 {
		t.Errorf("expected 1 run, got %v", got)
	}
	if got := testutil.ToFloat64(m.Samples); got != 500 {
		t.Errorf("expected 500 samples, got %v", got)
	}

	path := filepath.Join(t.TempDir(), "save.prom")
	if err := m.WriteTextfile(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	for _, name := range []string{"save_stage_duration_seconds_bucket", "save_runs_total", "save_samples 500"} {
		if !strings.Contains(string(data), name) {
			t.Errorf("textfile should contain %q", name)
		}
	}
}

func TestMetrics_WriteTextfileError(t *testing.T) {
	m := NewMetrics()
	path := filepath.Join(t.TempDir(), "missing", "dir", "save.prom")
	if err := m.WriteTextfile(path); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestSetupTracing_NoopWhenEndpointEmpty(t *testing.T) {
	t.Setenv("SAVE_OTEL_ENDPOINT", "")
	t.Setenv("SAVE_OTEL_ENABLED", "")

	shutdown, err := SetupTracing(context.Background(), "test-service")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestSetupTracing_NoopWhenExplicitlyDisabled(t *testing.T) {
	t.Setenv("SAVE_OTEL_ENDPOINT", "http://localhost:4318")
	t.Setenv("SAVE_OTEL_ENABLED", "false")

	shutdown, err := SetupTracing(context.Background(), "test-service")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestSetupTracing_InvalidEnabled(t *testing.T) {
	t.Setenv("SAVE_OTEL_ENDPOINT", "http://localhost:4318")
	t.Setenv("SAVE_OTEL_ENABLED", "maybe")

	shutdown, err := SetupTracing(context.Background(), "test-service")
	if err == nil {
		t.Fatal("expected error for non-bool SAVE_OTEL_ENABLED")
	}
	// Даже при ошибке shutdown можно вызвать
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}
