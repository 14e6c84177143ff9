package engine

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/shaiso/sdr/internal/domain"
)

// Допустимые типы шагов.
var validStepTypes = map[string]bool{
	domain.StepTypeDataset:  true,
	domain.StepTypeEstimate: true,
	domain.StepTypeRender:   true,
}

// Parse разбирает PipelineSpec из JSON и валидирует его.
func Parse(data []byte) (*domain.PipelineSpec, error) {
	var spec domain.PipelineSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSpec, err)
	}
	if err := Validate(&spec); err != nil {
		return nil, err
	}
	return &spec, nil
}

// Validate выполняет полную валидацию PipelineSpec.
//
// Проверяет:
// - Наличие шагов
// - Уникальность ID шагов
// - Корректность типов шагов
func Validate(spec *domain.PipelineSpec) error {
	if spec == nil || len(spec.Steps) == 0 {
		return ErrEmptySteps
	}

	stepIDs := make(map[string]bool)
	for i := range spec.Steps {
		if err := ValidateStep(&spec.Steps[i], stepIDs); err != nil {
			return err
		}
	}

	return nil
}

// ValidateStep валидирует один шаг.
// stepIDs — уже встреченные ID шагов (для проверки уникальности).
func ValidateStep(step *domain.StepDef, stepIDs map[string]bool) error {
	if step.ID == "" {
		return NewValidationError("", "id", "step has empty ID", ErrEmptyStepID)
	}

	if stepIDs[step.ID] {
		return NewValidationError(step.ID, "id",
			fmt.Sprintf("duplicate step ID: %s", step.ID), ErrDuplicateStepID)
	}
	stepIDs[step.ID] = true

	return validateStepType(step.ID, step.Type)
}

// validateStepType проверяет, что тип шага известен.
func validateStepType(stepID, stepType string) error {
	if stepType == "" {
		return NewValidationError(stepID, "type",
			"step has empty type", ErrUnknownStepType)
	}

	if !IsValidStepType(stepType) {
		return NewValidationError(stepID, "type",
			fmt.Sprintf("unknown step type: %s (valid: %s)", stepType, strings.Join(GetValidStepTypes(), ", ")),
			ErrUnknownStepType)
	}

	return nil
}

// IsValidStepType проверяет, является ли тип шага допустимым.
func IsValidStepType(stepType string) bool {
	return validStepTypes[stepType]
}

// GetValidStepTypes возвращает отсортированный список допустимых типов шагов.
func GetValidStepTypes() []string {
	types := make([]string, 0, len(validStepTypes))
	for t := range validStepTypes {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
