package steps

import (
	"context"
	"fmt"

	"github.com/shaiso/sdr/internal/domain"
	"github.com/shaiso/sdr/internal/sdr"
	"github.com/shaiso/sdr/internal/telemetry"
)

// Ключи конфигурации estimate.
const (
	configDatasetRef = "dataset"
	configMethod     = "method"
	configSlices     = "slices"
	configDirections = "directions"
)

// EstimateStep — шаг обучения оценщика и проекции X.
//
// Конфигурация:
//
//	{
//	    "dataset": "dataset",   // ID шага с датасетом
//	    "method": "save",       // "save" или "sir"
//	    "slices": 10,
//	    "directions": 2
//	}
//
// Outputs:
//
//	{
//	    "projection": *domain.Projection,
//	    "beta1_hat": []float64,   // первая колонка компонент
//	    "eigenvalues": []float64,
//	    "method": "save",
//	    "rows": 500
//	}
type EstimateStep struct{}

// NewEstimateStep создаёт новый EstimateStep.
func NewEstimateStep() *EstimateStep {
	return &EstimateStep{}
}

// Type возвращает тип шага.
func (s *EstimateStep) Type() string {
	return domain.StepTypeEstimate
}

// Execute обучает оценщик на датасете предыдущего шага.
func (s *EstimateStep) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	ds, err := input[*domain.Dataset](req, configDatasetRef, domain.StepTypeDataset, "dataset")
	if err != nil {
		return nil, err
	}

	method := GetConfigString(req.Config, configMethod)
	if method == "" {
		method = sdr.MethodSAVE
	}

	var opts []sdr.Option
	if HasConfig(req.Config, configSlices) {
		n, err := GetConfigInt(req.Config, configSlices)
		if err != nil {
			return nil, err
		}
		opts = append(opts, sdr.WithSlices(n))
	}
	if HasConfig(req.Config, configDirections) {
		d, err := GetConfigInt(req.Config, configDirections)
		if err != nil {
			return nil, err
		}
		opts = append(opts, sdr.WithDirections(d))
	}

	reducer, err := sdr.New(method, opts...)
	if err != nil {
		return nil, err
	}

	XSave, err := reducer.FitTransform(ds.X, ds.Y)
	if err != nil {
		return nil, err
	}

	proj := &domain.Projection{
		Method:      reducer.Name(),
		XSave:       XSave,
		Components:  reducer.Components(),
		Eigenvalues: reducer.Eigenvalues(),
	}
	if err := proj.CheckRows(ds); err != nil {
		return nil, fmt.Errorf("%s: %w", domain.StepTypeEstimate, err)
	}

	rows, _ := XSave.Dims()
	telemetry.FromContext(ctx).Debug("estimator fitted",
		"method", proj.Method, "eigenvalues", proj.Eigenvalues)
	return NewResponse(map[string]any{
		"projection":  proj,
		"beta1_hat":   proj.Direction(0),
		"eigenvalues": proj.Eigenvalues,
		"method":      proj.Method,
		"rows":        rows,
	}), nil
}
