package steps

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/shaiso/sdr/internal/engine"
)

// Ошибки шагов.
var (
	// ErrStepNotFound — тип шага не найден в реестре.
	ErrStepNotFound = errors.New("step type not found")

	// ErrInvalidConfig — невалидная конфигурация шага.
	ErrInvalidConfig = errors.New("invalid step config")

	// ErrMissingInput — нет output предыдущего шага.
	ErrMissingInput = errors.New("missing step input")

	// ErrStepCancelled — выполнение шага отменено.
	ErrStepCancelled = errors.New("step execution cancelled")
)

// Step — интерфейс для типов шагов.
//
// Каждый тип шага (dataset, estimate, render) реализует этот интерфейс.
type Step interface {
	// Type возвращает тип шага.
	Type() string

	// Execute выполняет шаг и возвращает результат.
	Execute(ctx context.Context, req *Request) (*Response, error)
}

// Request — входные данные для выполнения шага.
type Request struct {
	// StepID — идентификатор шага.
	StepID string

	// Config — конфигурация шага (уже отрендеренная через engine.RenderConfig).
	Config map[string]any

	// TemplateContext — контекст с outputs предыдущих шагов.
	TemplateContext *engine.Context
}

// Response — результат выполнения шага.
type Response struct {
	// Outputs — выходные данные шага.
	// Доступны в следующих шагах через {{ .Steps.stepID.Outputs.field }}
	Outputs map[string]any
}

// NewRequest создаёт новый Request.
func NewRequest(stepID string, config map[string]any, tmplCtx *engine.Context) *Request {
	if config == nil {
		config = make(map[string]any)
	}
	if tmplCtx == nil {
		tmplCtx = engine.NewContext(nil)
	}
	return &Request{
		StepID:          stepID,
		Config:          config,
		TemplateContext: tmplCtx,
	}
}

// NewResponse создаёт новый Response с outputs.
func NewResponse(outputs map[string]any) *Response {
	if outputs == nil {
		outputs = make(map[string]any)
	}
	return &Response{
		Outputs: outputs,
	}
}

// checkContext возвращает ErrStepCancelled, если ctx уже отменён.
func checkContext(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrStepCancelled, ctx.Err())
	default:
		return nil
	}
}

// input достаёт output предыдущего шага нужного типа.
// ID шага-источника берётся из config[ref], по умолчанию — def.
func input[T any](req *Request, ref, def, key string) (T, error) {
	var zero T

	src := GetConfigString(req.Config, ref)
	if src == "" {
		src = def
	}
	if req.TemplateContext == nil {
		return zero, fmt.Errorf("%w: %s.%s", ErrMissingInput, src, key)
	}

	raw := req.TemplateContext.Output(src, key)
	if raw == nil {
		return zero, fmt.Errorf("%w: %s.%s", ErrMissingInput, src, key)
	}
	v, ok := raw.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s.%s has type %T", ErrMissingInput, src, key, raw)
	}
	return v, nil
}

// HasConfig проверяет наличие ключа в конфиге.
func HasConfig(config map[string]any, key string) bool {
	_, ok := config[key]
	return ok
}

// GetConfigString извлекает строковое значение из конфига.
func GetConfigString(config map[string]any, key string) string {
	if v, ok := config[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// GetConfigInt извлекает целое значение из конфига.
// Отсутствующий ключ даёт 0 без ошибки.
func GetConfigInt(config map[string]any, key string) (int, error) {
	n, err := GetConfigInt64(config, key)
	if err != nil {
		return 0, err
	}
	if n < math.MinInt || n > math.MaxInt {
		return 0, fmt.Errorf("%w: %s: %d overflows int", ErrInvalidConfig, key, n)
	}
	return int(n), nil
}

// GetConfigInt64 извлекает целое значение из конфига.
//
// JSON числа приходят как float64: они принимаются только если целые
// и помещаются в int64. Значение другого типа — ErrInvalidConfig.
func GetConfigInt64(config map[string]any, key string) (int64, error) {
	v, ok := config[key]
	if !ok {
		return 0, nil
	}
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case float64:
		// 2^63 точно представимо во float64, поэтому граница строгая
		if math.Trunc(n) != n || n < math.MinInt64 || n >= math.MaxInt64 {
			return 0, fmt.Errorf("%w: %s: %v is not an integer", ErrInvalidConfig, key, n)
		}
		return int64(n), nil
	default:
		return 0, fmt.Errorf("%w: %s: expected integer, got %T", ErrInvalidConfig, key, v)
	}
}

// GetConfigFloat извлекает число с плавающей точкой из конфига.
// Отсутствующий ключ даёт defaultVal.
func GetConfigFloat(config map[string]any, key string, defaultVal float64) (float64, error) {
	v, ok := config[key]
	if !ok {
		return defaultVal, nil
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("%w: %s: expected number, got %T", ErrInvalidConfig, key, v)
	}
}

// GetConfigBool извлекает булево значение из конфига.
// Отсутствующий ключ даёт defaultVal.
func GetConfigBool(config map[string]any, key string, defaultVal bool) (bool, error) {
	v, ok := config[key]
	if !ok {
		return defaultVal, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("%w: %s: expected bool, got %T", ErrInvalidConfig, key, v)
	}
	return b, nil
}

// GetConfigSlice извлекает []any из конфига.
func GetConfigSlice(config map[string]any, key string) []any {
	if v, ok := config[key]; ok {
		if s, ok := v.([]any); ok {
			return s
		}
	}
	return nil
}
