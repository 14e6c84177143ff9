package engine

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
	"text/template"
)

// Context — контекст выполнения pipeline.
//
// Хранит outputs выполненных шагов и используется в Go templates:
//   - {{ .Inputs.param_name }}
//   - {{ .Steps.step_id.Outputs.field }}
type Context struct {
	// Inputs — входные параметры run.
	Inputs map[string]any `json:"inputs"`

	// Steps — результаты выполненных шагов.
	Steps map[string]*StepContext `json:"steps"`
}

// StepContext — результат выполнения шага.
type StepContext struct {
	// Outputs — выходные данные шага.
	Outputs map[string]any `json:"outputs"`

	// Status — статус выполнения: "SUCCEEDED", "FAILED".
	Status string `json:"status"`
}

// NewContext создаёт новый контекст с входными параметрами.
func NewContext(inputs map[string]any) *Context {
	if inputs == nil {
		inputs = make(map[string]any)
	}
	return &Context{
		Inputs: inputs,
		Steps:  make(map[string]*StepContext),
	}
}

// AddStepResult добавляет результат выполнения шага в контекст.
func (c *Context) AddStepResult(stepID string, outputs map[string]any, status string) {
	if outputs == nil {
		outputs = make(map[string]any)
	}
	c.Steps[stepID] = &StepContext{
		Outputs: outputs,
		Status:  status,
	}
}

// Output возвращает output шага или nil, если шага/ключа нет.
func (c *Context) Output(stepID, key string) any {
	sc, ok := c.Steps[stepID]
	if !ok {
		return nil
	}
	return sc.Outputs[key]
}

// VectorDecimals — точность округления векторов в подписях.
const VectorDecimals = 3

// FormatVector печатает первые n элементов v, округлённые до decimals знаков:
// [0.707, 0.707]. При n <= 0 печатается весь вектор.
func FormatVector(v []float64, n, decimals int) string {
	if n <= 0 || n > len(v) {
		n = len(v)
	}
	pow := math.Pow(10, float64(decimals))

	parts := make([]string, n)
	for i := 0; i < n; i++ {
		x := math.Round(v[i]*pow) / pow
		if x == 0 {
			x = 0 // без "-0"
		}
		s := strconv.FormatFloat(x, 'f', -1, 64)
		if !strings.ContainsAny(s, ".eEIN") {
			s += ".0"
		}
		parts[i] = s
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// templateFuncs — дополнительные функции для шаблонов.
var templateFuncs = template.FuncMap{
	// vec — первые n элементов вектора, округлённые до 3 знаков
	"vec": func(v any, n int) (string, error) {
		switch x := v.(type) {
		case []float64:
			return FormatVector(x, n, VectorDecimals), nil
		case []any:
			f := make([]float64, len(x))
			for i, item := range x {
				num, ok := item.(float64)
				if !ok {
					return "", fmt.Errorf("vec: element %d is %T", i, item)
				}
				f[i] = num
			}
			return FormatVector(f, n, VectorDecimals), nil
		default:
			return "", fmt.Errorf("vec: unsupported type %T", v)
		}
	},
}

// Render рендерит строковый шаблон с контекстом.
//
// Шаблон может содержать Go template выражения:
//
//	{{ .Inputs.param }}
//	{{ vec .Steps.estimate.Outputs.beta1_hat 2 }}
func Render(tmpl string, ctx *Context) (string, error) {
	if !strings.Contains(tmpl, "{{") {
		return tmpl, nil
	}

	t, err := template.New("").Funcs(templateFuncs).Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTemplateParse, err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, ctx); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTemplateRender, err)
	}

	return buf.String(), nil
}

// RenderValue рендерит произвольное значение.
// Рекурсивно обрабатывает map и slice.
func RenderValue(value any, ctx *Context) (any, error) {
	if value == nil {
		return nil, nil
	}

	switch v := value.(type) {
	case string:
		return Render(v, ctx)

	case map[string]any:
		result := make(map[string]any, len(v))
		for key, val := range v {
			rendered, err := RenderValue(val, ctx)
			if err != nil {
				return nil, err
			}
			result[key] = rendered
		}
		return result, nil

	case []any:
		result := make([]any, len(v))
		for i, val := range v {
			rendered, err := RenderValue(val, ctx)
			if err != nil {
				return nil, err
			}
			result[i] = rendered
		}
		return result, nil

	default:
		// Для остальных типов (int, float, bool) возвращаем как есть
		return value, nil
	}
}

// RenderConfig рендерит конфигурацию шага.
// Это обёртка над RenderValue для map[string]any.
func RenderConfig(config map[string]any, ctx *Context) (map[string]any, error) {
	if config == nil {
		return make(map[string]any), nil
	}

	rendered, err := RenderValue(config, ctx)
	if err != nil {
		return nil, err
	}

	result, ok := rendered.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected map, got %T", ErrTemplateRender, rendered)
	}

	return result, nil
}
