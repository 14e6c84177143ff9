package steps

import (
	"context"
	"fmt"

	"github.com/shaiso/sdr/internal/domain"
	"github.com/shaiso/sdr/internal/plotting"
	"github.com/shaiso/sdr/internal/telemetry"
)

// Ключи конфигурации render.
const (
	configProjectionRef = "projection"
	configOutput        = "output"
	configShow          = "show"
	configTitle         = "title"
	configXLabel        = "x_label"
	configYLabel        = "y_label"
	configAnnotations   = "annotations"

	// DefaultOutput — файл графика по умолчанию.
	DefaultOutput = "save_quadratic.png"
)

// RenderStep — шаг построения графика X_save[:, 0] против y.
//
// Конфигурация (тексты аннотаций уже отрендерены как шаблоны):
//
//	{
//	    "dataset": "dataset",
//	    "projection": "estimate",
//	    "output": "save_quadratic.png",
//	    "show": false,
//	    "x_label": "Xβ̂₁",
//	    "y_label": "y",
//	    "annotations": [
//	        {"text": "β₁ = [0.707, 0.707]", "x": -1, "y": 2}
//	    ]
//	}
//
// Outputs:
//
//	{
//	    "figure": *plotting.Figure,
//	    "path": "save_quadratic.png",
//	    "annotations": 2,
//	    "shown": false
//	}
type RenderStep struct {
	renderer *plotting.Renderer
}

// NewRenderStep создаёт RenderStep. При nil используется plotting.NewRenderer().
func NewRenderStep(renderer *plotting.Renderer) *RenderStep {
	if renderer == nil {
		renderer = plotting.NewRenderer()
	}
	return &RenderStep{renderer: renderer}
}

// Type возвращает тип шага.
func (s *RenderStep) Type() string {
	return domain.StepTypeRender
}

// Execute строит, сохраняет и (опционально) показывает график.
func (s *RenderStep) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	ds, err := input[*domain.Dataset](req, configDatasetRef, domain.StepTypeDataset, "dataset")
	if err != nil {
		return nil, err
	}
	proj, err := input[*domain.Projection](req, configProjectionRef, domain.StepTypeEstimate, "projection")
	if err != nil {
		return nil, err
	}
	if err := proj.CheckRows(ds); err != nil {
		return nil, fmt.Errorf("%s: %w", domain.StepTypeRender, err)
	}

	fig := plotting.NewFigure()
	fig.Title = GetConfigString(req.Config, configTitle)
	if err := fig.Scatter(proj.Scores(0), ds.Y, ds.Y); err != nil {
		return nil, err
	}
	fig.SetXLabel(GetConfigString(req.Config, configXLabel))
	fig.SetYLabel(GetConfigString(req.Config, configYLabel))

	annotations, err := parseAnnotations(GetConfigSlice(req.Config, configAnnotations))
	if err != nil {
		return nil, err
	}
	for _, a := range annotations {
		fig.Annotate(a.Text, a.X, a.Y)
	}

	path := GetConfigString(req.Config, configOutput)
	if path == "" {
		path = DefaultOutput
	}
	if err := s.renderer.Save(ctx, fig, path); err != nil {
		return nil, err
	}

	show, err := GetConfigBool(req.Config, configShow, false)
	if err != nil {
		return nil, err
	}
	telemetry.FromContext(ctx).Debug("figure saved", "path", path, "annotations", len(annotations))

	if show {
		if err := s.renderer.Show(ctx, path); err != nil {
			return nil, err
		}
	}

	return NewResponse(map[string]any{
		"figure":      fig,
		"path":        path,
		"annotations": len(annotations),
		"shown":       show,
	}), nil
}

// parseAnnotations разбирает список {"text", "x", "y"}.
func parseAnnotations(raw []any) ([]plotting.Annotation, error) {
	out := make([]plotting.Annotation, 0, len(raw))
	for i, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %s: annotation %d is %T", ErrInvalidConfig, domain.StepTypeRender, i, item)
		}
		text := GetConfigString(m, "text")
		if text == "" || !HasConfig(m, "x") || !HasConfig(m, "y") {
			return nil, fmt.Errorf("%w: %s: annotation %d needs text, x and y", ErrInvalidConfig, domain.StepTypeRender, i)
		}
		x, err := GetConfigFloat(m, "x", 0)
		if err != nil {
			return nil, fmt.Errorf("%s: annotation %d: %w", domain.StepTypeRender, i, err)
		}
		y, err := GetConfigFloat(m, "y", 0)
		if err != nil {
			return nil, fmt.Errorf("%s: annotation %d: %w", domain.StepTypeRender, i, err)
		}
		out = append(out, plotting.Annotation{Text: text, X: x, Y: y})
	}
	return out, nil
}
