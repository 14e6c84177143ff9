package engine

import (
	"errors"
	"math"
	"testing"
)

func TestNewContext(t *testing.T) {
	// С nil inputs
	ctx := NewContext(nil)
	if ctx.Inputs == nil {
		t.Error("Inputs should not be nil")
	}
	if ctx.Steps == nil {
		t.Error("Steps should not be nil")
	}

	// С inputs
	inputs := map[string]any{"key": "value"}
	ctx = NewContext(inputs)
	if ctx.Inputs["key"] != "value" {
		t.Error("Inputs should contain provided values")
	}
}

func TestContext_AddStepResult(t *testing.T) {
	ctx := NewContext(nil)

	outputs := map[string]any{"rows": 500}
	ctx.AddStepResult("dataset", outputs, "SUCCEEDED")

	if ctx.Steps["dataset"] == nil {
		t.Fatal("dataset should be in Steps")
	}
	if ctx.Steps["dataset"].Status != "SUCCEEDED" {
		t.Error("status should be SUCCEEDED")
	}
	if ctx.Output("dataset", "rows") != 500 {
		t.Error("outputs should contain rows")
	}
	if ctx.Output("dataset", "missing") != nil || ctx.Output("nope", "rows") != nil {
		t.Error("missing outputs should be nil")
	}

	// С nil outputs
	ctx.AddStepResult("estimate", nil, "FAILED")
	if ctx.Steps["estimate"].Outputs == nil {
		t.Error("Outputs should not be nil even when passed nil")
	}
}

func TestFormatVector(t *testing.T) {
	tests := []struct {
		name     string
		v        []float64
		n        int
		expected string
	}{
		{"true direction", []float64{1 / math.Sqrt2, 1 / math.Sqrt2, 0}, 2, "[0.707, 0.707]"},
		{"trailing zero trimmed", []float64{0.71002, 0.7041}, 2, "[0.71, 0.704]"},
		{"whole numbers", []float64{1, -2}, 0, "[1.0, -2.0]"},
		{"negative zero", []float64{-0.0001}, 1, "[0.0]"},
		{"n larger than len", []float64{0.5}, 5, "[0.5]"},
		{"empty", nil, 2, "[]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatVector(tt.v, tt.n, VectorDecimals)
			if got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestRender_StepOutput(t *testing.T) {
	ctx := NewContext(map[string]any{"seed": 123})
	ctx.AddStepResult("dataset", map[string]any{
		"beta": []float64{0.70710678, 0.70710678, 0, 0},
	}, "SUCCEEDED")
	ctx.AddStepResult("estimate", map[string]any{
		"beta1_hat": []any{0.7101, -0.7039, 0.01},
		"method":    "save",
	}, "SUCCEEDED")

	tests := []struct {
		name     string
		template string
		expected string
	}{
		{
			name:     "status",
			template: "{{ .Steps.dataset.Status }}",
			expected: "SUCCEEDED",
		},
		{
			name:     "input",
			template: "seed={{ .Inputs.seed }}",
			expected: "seed=123",
		},
		{
			name:     "vec of float64 slice",
			template: "β₁ = {{ vec .Steps.dataset.Outputs.beta 2 }}",
			expected: "β₁ = [0.707, 0.707]",
		},
		{
			name:     "vec of decoded JSON slice",
			template: "{{ vec .Steps.estimate.Outputs.beta1_hat 2 }}",
			expected: "[0.71, -0.704]",
		},
		{
			name:     "no template",
			template: "y",
			expected: "y",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Render(tt.template, ctx)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestRender_Errors(t *testing.T) {
	ctx := NewContext(nil)
	ctx.AddStepResult("estimate", map[string]any{"method": "save"}, "SUCCEEDED")

	// Некорректный синтаксис
	if _, err := Render("{{ .Invalid syntax", ctx); !errors.Is(err, ErrTemplateParse) {
		t.Errorf("expected ErrTemplateParse, got %v", err)
	}

	// Несуществующий шаг
	if _, err := Render("{{ .Steps.missing.Status }}", ctx); !errors.Is(err, ErrTemplateRender) {
		t.Errorf("expected ErrTemplateRender, got %v", err)
	}

	// vec по строке
	if _, err := Render("{{ vec .Steps.estimate.Outputs.method 2 }}", ctx); !errors.Is(err, ErrTemplateRender) {
		t.Errorf("expected ErrTemplateRender, got %v", err)
	}
}

func TestRenderConfig(t *testing.T) {
	ctx := NewContext(nil)
	ctx.AddStepResult("dataset", map[string]any{"beta": []float64{1, 0}}, "SUCCEEDED")

	config := map[string]any{
		"output": "plot.png",
		"show":   false,
		"annotations": []any{
			map[string]any{"text": "β₁ = {{ vec .Steps.dataset.Outputs.beta 2 }}", "x": -1.0, "y": 2.0},
		},
	}

	result, err := RenderConfig(config, ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result["output"] != "plot.png" || result["show"] != false {
		t.Errorf("plain values should pass through: %v", result)
	}

	ann := result["annotations"].([]any)[0].(map[string]any)
	if ann["text"] != "β₁ = [1.0, 0.0]" {
		t.Errorf("unexpected annotation text: %v", ann["text"])
	}
	if ann["x"] != -1.0 {
		t.Errorf("x should pass through, got %v", ann["x"])
	}

	// Исходный config не изменён
	orig := config["annotations"].([]any)[0].(map[string]any)
	if orig["text"] == ann["text"] {
		t.Error("RenderConfig should not modify input")
	}
}

func TestRenderConfig_Nil(t *testing.T) {
	result, err := RenderConfig(nil, NewContext(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result == nil {
		t.Error("result should not be nil")
	}
}
