package steps

import (
	"context"
	"fmt"

	"github.com/shaiso/sdr/internal/datasets"
	"github.com/shaiso/sdr/internal/domain"
	"github.com/shaiso/sdr/internal/telemetry"
)

// Ключи конфигурации dataset.
const (
	configSeed     = "seed"
	configSamples  = "samples"
	configFeatures = "features"
	configNoise    = "noise"
)

// DatasetStep — шаг генерации квадратичного датасета.
//
// Конфигурация:
//
//	{
//	    "seed": 123,        // обязательный
//	    "samples": 500,
//	    "features": 10,
//	    "noise": 0.1
//	}
//
// Outputs:
//
//	{
//	    "dataset": *domain.Dataset,
//	    "beta": []float64,   // истинное направление
//	    "rows": 500,
//	    "features": 10
//	}
type DatasetStep struct{}

// NewDatasetStep создаёт новый DatasetStep.
func NewDatasetStep() *DatasetStep {
	return &DatasetStep{}
}

// Type возвращает тип шага.
func (s *DatasetStep) Type() string {
	return domain.StepTypeDataset
}

// Execute генерирует датасет.
func (s *DatasetStep) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	if !HasConfig(req.Config, configSeed) {
		return nil, fmt.Errorf("%w: %s: seed required", ErrInvalidConfig, domain.StepTypeDataset)
	}
	seed, err := GetConfigInt64(req.Config, configSeed)
	if err != nil {
		return nil, err
	}

	// Явно заданные значения передаются как есть, диапазоны проверяет генератор
	var opts []datasets.Option
	if HasConfig(req.Config, configSamples) {
		n, err := GetConfigInt(req.Config, configSamples)
		if err != nil {
			return nil, err
		}
		opts = append(opts, datasets.WithSamples(n))
	}
	if HasConfig(req.Config, configFeatures) {
		p, err := GetConfigInt(req.Config, configFeatures)
		if err != nil {
			return nil, err
		}
		opts = append(opts, datasets.WithFeatures(p))
	}
	if HasConfig(req.Config, configNoise) {
		noise, err := GetConfigFloat(req.Config, configNoise, datasets.DefaultNoise)
		if err != nil {
			return nil, err
		}
		opts = append(opts, datasets.WithNoise(noise))
	}

	ds, err := datasets.MakeQuadratic(seed, opts...)
	if err != nil {
		return nil, err
	}
	telemetry.FromContext(ctx).Debug("dataset generated",
		"seed", seed, "rows", ds.Rows(), "features", ds.Cols())

	return NewResponse(map[string]any{
		"dataset":  ds,
		"beta":     ds.Beta,
		"rows":     ds.Rows(),
		"features": ds.Cols(),
	}), nil
}
