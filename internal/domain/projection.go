package domain

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Projection — результат обучения оценщика.
type Projection struct {
	// Method — метод оценки ("save", "sir").
	Method string

	// XSave — проекция X на найденные направления, n_samples × n_directions.
	XSave *mat.Dense

	// Components — матрица направлений n_features × n_directions.
	// Первая колонка — самое информативное направление.
	Components *mat.Dense

	// Eigenvalues — собственные значения в порядке убывания.
	Eigenvalues []float64
}

// Direction возвращает копию i-й колонки Components.
func (p *Projection) Direction(i int) []float64 {
	return mat.Col(nil, i, p.Components)
}

// Scores возвращает копию i-й колонки XSave.
func (p *Projection) Scores(i int) []float64 {
	return mat.Col(nil, i, p.XSave)
}

// CheckRows проверяет инвариант: строк в XSave столько же, сколько в датасете.
func (p *Projection) CheckRows(ds *Dataset) error {
	r, _ := p.XSave.Dims()
	if r != ds.Rows() {
		return fmt.Errorf("%w: X has %d rows, X_save has %d", ErrRowMismatch, ds.Rows(), r)
	}
	return nil
}
