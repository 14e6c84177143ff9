package domain

// Типы шагов pipeline.
const (
	// StepTypeDataset — генерация синтетического датасета.
	StepTypeDataset = "dataset"

	// StepTypeEstimate — обучение оценщика и проекция X.
	StepTypeEstimate = "estimate"

	// StepTypeRender — построение и вывод графика.
	StepTypeRender = "render"
)

// PipelineSpec — спецификация pipeline.
//
// Шаги выполняются строго последовательно, в порядке объявления.
// Ветвлений, retry и параллельного выполнения нет.
type PipelineSpec struct {
	// Name — имя pipeline (для логов и метрик).
	Name string `json:"name,omitempty"`

	// Steps — список шагов для выполнения.
	Steps []StepDef `json:"steps"`
}

// StepDef — определение шага pipeline.
type StepDef struct {
	// ID — уникальный идентификатор шага внутри pipeline.
	// Используется в шаблонах: {{ .Steps.<id>.Outputs.<key> }}
	ID string `json:"id"`

	// Type — тип шага: "dataset", "estimate", "render".
	Type string `json:"type"`

	// Config — конфигурация шага (зависит от типа).
	Config map[string]any `json:"config,omitempty"`
}

// PipelineParams — параметры стандартного pipeline.
type PipelineParams struct {
	Seed     int64
	Samples  int
	Features int
	Noise    float64

	Method     string
	Slices     int
	Directions int

	Output string
	Show   bool
}

// Тексты аннотаций по умолчанию.
//
// Истинное направление берётся из генератора датасета,
// оценённое — из первой колонки матрицы направлений.
const (
	DefaultBetaAnnotation    = `β₁ = {{ vec .Steps.dataset.Outputs.beta 2 }}`
	DefaultBetaHatAnnotation = `β̂₁ = {{ vec .Steps.estimate.Outputs.beta1_hat 2 }}`
)

// DefaultPipeline собирает pipeline dataset → estimate → render.
func DefaultPipeline(p PipelineParams) *PipelineSpec {
	return &PipelineSpec{
		Name: "save-quadratic",
		Steps: []StepDef{
			{
				ID:   StepTypeDataset,
				Type: StepTypeDataset,
				Config: map[string]any{
					"seed":     p.Seed,
					"samples":  p.Samples,
					"features": p.Features,
					"noise":    p.Noise,
				},
			},
			{
				ID:   StepTypeEstimate,
				Type: StepTypeEstimate,
				Config: map[string]any{
					"dataset":    StepTypeDataset,
					"method":     p.Method,
					"slices":     p.Slices,
					"directions": p.Directions,
				},
			},
			{
				ID:   StepTypeRender,
				Type: StepTypeRender,
				Config: map[string]any{
					"dataset":    StepTypeDataset,
					"projection": StepTypeEstimate,
					"output":     p.Output,
					"show":       p.Show,
					"x_label":    "Xβ̂₁",
					"y_label":    "y",
					"annotations": []any{
						map[string]any{"text": DefaultBetaAnnotation, "x": -1.0, "y": 2.0},
						map[string]any{"text": DefaultBetaHatAnnotation, "x": -1.0, "y": 1.75},
					},
				},
			},
		},
	}
}
