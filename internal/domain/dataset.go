package domain

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ErrRowMismatch — число строк X и длина y (или X_save) не совпадают.
var ErrRowMismatch = errors.New("row count mismatch")

// Dataset — синтетическая выборка (X, y).
//
// Создаётся один раз генератором и дальше не изменяется.
type Dataset struct {
	// X — матрица признаков n_samples × n_features.
	X *mat.Dense

	// Y — отклик, len(Y) == n_samples.
	Y []float64

	// Beta — истинное направление, использованное при генерации.
	// Nil для данных неизвестного происхождения.
	Beta []float64

	// Seed — seed генератора.
	Seed int64
}

// Rows возвращает число наблюдений.
func (d *Dataset) Rows() int {
	if d.X == nil {
		return 0
	}
	r, _ := d.X.Dims()
	return r
}

// Cols возвращает число признаков.
func (d *Dataset) Cols() int {
	if d.X == nil {
		return 0
	}
	_, c := d.X.Dims()
	return c
}

// Validate проверяет, что число строк X совпадает с длиной y.
func (d *Dataset) Validate() error {
	if d.X == nil {
		return fmt.Errorf("%w: dataset has no feature matrix", ErrRowMismatch)
	}
	if d.Rows() != len(d.Y) {
		return fmt.Errorf("%w: X has %d rows, y has %d values", ErrRowMismatch, d.Rows(), len(d.Y))
	}
	return nil
}
