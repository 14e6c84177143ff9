package sdr

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/shaiso/sdr/internal/datasets"
)

func quadratic(t *testing.T) (*mat.Dense, []float64, []float64) {
	t.Helper()
	ds, err := datasets.MakeQuadratic(123)
	if err != nil {
		t.Fatalf("make dataset: %v", err)
	}
	return ds.X, ds.Y, ds.Beta
}

func TestSAVE_FitTransform_Shapes(t *testing.T) {
	X, y, _ := quadratic(t)
	n, p := X.Dims()

	save := NewSAVE()
	XSave, err := save.FitTransform(X, y)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r, c := XSave.Dims()
	if r != n {
		t.Errorf("X_save should keep %d rows, got %d", n, r)
	}
	if c != DefaultDirections {
		t.Errorf("expected %d directions, got %d", DefaultDirections, c)
	}

	comp := save.Components()
	cr, cc := comp.Dims()
	if cr != p || cc != DefaultDirections {
		t.Errorf("components should be %dx%d, got %dx%d", p, DefaultDirections, cr, cc)
	}

	if got := len(save.Eigenvalues()); got != p {
		t.Errorf("expected %d eigenvalues, got %d", p, got)
	}
	if save.Slices() < 2 {
		t.Errorf("expected at least 2 slices, got %d", save.Slices())
	}
}

func TestSAVE_RecoversQuadraticDirection(t *testing.T) {
	X, y, beta := quadratic(t)

	save := NewSAVE()
	if err := save.Fit(X, y); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	beta1 := mat.Col(nil, 0, save.Components())
	cos := math.Abs(floats.Dot(beta1, beta))
	if cos < 0.9 {
		t.Errorf("first SAVE direction should align with beta, |cos| = %.3f, beta1_hat = %v", cos, beta1)
	}

	// Каноничный знак: наибольшая по модулю компонента положительна
	k := floats.MaxIdx(beta1)
	if math.Abs(beta1[k]) < math.Abs(beta1[floats.MinIdx(beta1)]) {
		t.Errorf("largest-magnitude entry should be positive: %v", beta1)
	}
}

func TestSliced_ComponentsUnitNorm(t *testing.T) {
	X, y, _ := quadratic(t)

	for _, method := range Methods() {
		t.Run(method, func(t *testing.T) {
			r, err := New(method, WithDirections(3))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if err := r.Fit(X, y); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			comp := r.Components()
			_, d := comp.Dims()
			if d != 3 {
				t.Fatalf("expected 3 directions, got %d", d)
			}
			for j := 0; j < d; j++ {
				norm := floats.Norm(mat.Col(nil, j, comp), 2)
				if math.Abs(norm-1) > 1e-9 {
					t.Errorf("direction %d has norm %v", j, norm)
				}
			}

			ev := r.Eigenvalues()
			for i := 1; i < len(ev); i++ {
				if ev[i] > ev[i-1]+1e-12 {
					t.Errorf("eigenvalues should be descending: %v", ev)
					break
				}
			}
		})
	}
}

func TestSliced_ComponentsIsCopy(t *testing.T) {
	X, y, _ := quadratic(t)

	save := NewSAVE()
	if err := save.Fit(X, y); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	comp := save.Components()
	before := comp.At(0, 0)
	comp.Set(0, 0, 42)

	if save.Components().At(0, 0) != before {
		t.Error("Components should return a copy")
	}
}

func TestSAVE_Fit_Errors(t *testing.T) {
	X, y, _ := quadratic(t)

	narrow := mat.NewDense(20, 1, nil)
	for i := 0; i < 20; i++ {
		narrow.Set(i, 0, float64(i))
	}
	narrowY := make([]float64, 20)
	for i := range narrowY {
		narrowY[i] = float64(i)
	}

	wide := mat.NewDense(5, 10, nil)
	wideY := []float64{1, 2, 3, 4, 5}

	withNaN := mat.DenseCopyOf(X)
	withNaN.Set(3, 3, math.NaN())

	constant := make([]float64, len(y))

	tests := []struct {
		name string
		opts []Option
		X    mat.Matrix
		y    []float64
		err  error
	}{
		{"y shorter than X", nil, X, y[:len(y)-1], ErrShapeMismatch},
		{"y longer than X", nil, X, append(append([]float64{}, y...), 1), ErrShapeMismatch},
		{"nil X", nil, nil, y, ErrShapeMismatch},
		{"single feature", nil, narrow, narrowY, ErrInsufficientDimensions},
		{"fewer samples than features", nil, wide, wideY, ErrTooFewSamples},
		{"too many directions", []Option{WithDirections(11)}, X, y, ErrInvalidDirections},
		{"zero directions", []Option{WithDirections(0)}, X, y, ErrInvalidDirections},
		{"one slice", []Option{WithSlices(1)}, X, y, ErrInvalidSlices},
		{"nan in X", nil, withNaN, y, ErrNonFinite},
		{"constant y", nil, X, constant, ErrConstantResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			save := NewSAVE(tt.opts...)
			_, err := save.FitTransform(tt.X, tt.y)
			if !errors.Is(err, tt.err) {
				t.Fatalf("expected %v, got %v", tt.err, err)
			}

			var ee *EstimationError
			if !errors.As(err, &ee) {
				t.Errorf("expected *EstimationError, got %T", err)
			}
			if save.Components() != nil {
				t.Error("failed fit should not leave components")
			}
		})
	}
}

func TestSAVE_SingularFeatures(t *testing.T) {
	X, y, _ := quadratic(t)

	// Колонка 2 дублирует колонку 1
	dup := mat.DenseCopyOf(X)
	dup.SetCol(2, mat.Col(nil, 1, X))

	_, err := NewSAVE().FitTransform(dup, y)
	if !errors.Is(err, ErrSingular) {
		t.Errorf("expected ErrSingular, got %v", err)
	}
}

func TestSliced_Transform(t *testing.T) {
	X, y, _ := quadratic(t)

	save := NewSAVE()
	if _, err := save.Transform(X); !errors.Is(err, ErrNotFitted) {
		t.Errorf("expected ErrNotFitted, got %v", err)
	}

	if err := save.Fit(X, y); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := save.Transform(mat.NewDense(3, 4, nil)); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("expected ErrShapeMismatch, got %v", err)
	}

	// Transform: X · components
	out, err := save.Transform(X)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	row := X.RawRowView(0)
	want := floats.Dot(row, mat.Col(nil, 0, save.Components()))
	if math.Abs(out.At(0, 0)-want) > 1e-12 {
		t.Errorf("transform mismatch: %v vs %v", out.At(0, 0), want)
	}
}

func TestNew(t *testing.T) {
	r, err := New("SAVE")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Name() != MethodSAVE {
		t.Errorf("expected %s, got %s", MethodSAVE, r.Name())
	}

	r, err = New(" sir ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Name() != MethodSIR {
		t.Errorf("expected %s, got %s", MethodSIR, r.Name())
	}

	if _, err := New("phd"); !errors.Is(err, ErrUnknownMethod) {
		t.Errorf("expected ErrUnknownMethod, got %v", err)
	}

	methods := Methods()
	if len(methods) != 2 || methods[0] != MethodSAVE || methods[1] != MethodSIR {
		t.Errorf("unexpected methods: %v", methods)
	}
}

func TestFit_TiesCollapseToOneSlice(t *testing.T) {
	X, y, _ := quadratic(t)

	// Все y, кроме одного, совпадают: хвост сливается, остаётся один срез
	tied := make([]float64, len(y))
	tied[len(tied)-1] = 1

	for _, method := range Methods() {
		t.Run(method, func(t *testing.T) {
			r, err := New(method)
			if err != nil {
				t.Fatalf("new %s: %v", method, err)
			}
			err = r.Fit(X, tied)
			var ee *EstimationError
			if !errors.As(err, &ee) || !errors.Is(err, ErrInvalidSlices) {
				t.Fatalf("expected ErrInvalidSlices, got %v", err)
			}
			if r.Components() != nil {
				t.Error("components should stay nil after a failed fit")
			}
		})
	}
}
