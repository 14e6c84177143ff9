package datasets

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestMakeQuadratic_Shape(t *testing.T) {
	ds, err := MakeQuadratic(123)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ds.Rows() != DefaultSamples {
		t.Errorf("expected %d rows, got %d", DefaultSamples, ds.Rows())
	}
	if ds.Cols() != DefaultFeatures {
		t.Errorf("expected %d cols, got %d", DefaultFeatures, ds.Cols())
	}
	if len(ds.Y) != ds.Rows() {
		t.Errorf("y has %d values, X has %d rows", len(ds.Y), ds.Rows())
	}
	if err := ds.Validate(); err != nil {
		t.Errorf("dataset should be valid: %v", err)
	}
	if ds.Seed != 123 {
		t.Errorf("expected seed 123, got %d", ds.Seed)
	}
}

func TestMakeQuadratic_Deterministic(t *testing.T) {
	a, err := MakeQuadratic(123)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := MakeQuadratic(123)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Побитовое совпадение
	if !mat.Equal(a.X, b.X) {
		t.Error("X differs between runs with the same seed")
	}
	for i := range a.Y {
		if math.Float64bits(a.Y[i]) != math.Float64bits(b.Y[i]) {
			t.Fatalf("y[%d] differs: %v vs %v", i, a.Y[i], b.Y[i])
		}
	}

	// Другой seed — другие данные
	c, err := MakeQuadratic(124)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mat.Equal(a.X, c.X) {
		t.Error("different seeds should give different X")
	}
}

func TestMakeQuadratic_Options(t *testing.T) {
	ds, err := MakeQuadratic(7, WithSamples(40), WithFeatures(3), WithNoise(0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ds.Rows() != 40 || ds.Cols() != 3 {
		t.Fatalf("expected 40x3, got %dx%d", ds.Rows(), ds.Cols())
	}

	// Без шума y = 0.125 * (Xβ)^2 точно
	for i := 0; i < ds.Rows(); i++ {
		proj := (ds.X.At(i, 0) + ds.X.At(i, 1)) / math.Sqrt2
		want := 0.125 * proj * proj
		if math.Abs(ds.Y[i]-want) > 1e-12 {
			t.Fatalf("y[%d] = %v, want %v", i, ds.Y[i], want)
		}
	}
}

func TestMakeQuadratic_InvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		seed  int64
		opts  []Option
		field string
		err   error
	}{
		{"negative seed", -1, nil, "seed", ErrInvalidSeed},
		{"seed too large", MaxSeed, nil, "seed", ErrInvalidSeed},
		{"one sample", 1, []Option{WithSamples(1)}, "samples", ErrInvalidSamples},
		{"one feature", 1, []Option{WithFeatures(1)}, "features", ErrInvalidFeatures},
		{"negative noise", 1, []Option{WithNoise(-0.5)}, "noise", ErrInvalidNoise},
		{"nan noise", 1, []Option{WithNoise(math.NaN())}, "noise", ErrInvalidNoise},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := MakeQuadratic(tt.seed, tt.opts...)
			if !errors.Is(err, tt.err) {
				t.Fatalf("expected %v, got %v", tt.err, err)
			}

			var ive *InputValidationError
			if !errors.As(err, &ive) {
				t.Fatalf("expected *InputValidationError, got %T", err)
			}
			if ive.Field != tt.field {
				t.Errorf("expected field %s, got %s", tt.field, ive.Field)
			}
		})
	}
}

func TestTrueDirection(t *testing.T) {
	beta := TrueDirection(10)
	if len(beta) != 10 {
		t.Fatalf("expected length 10, got %d", len(beta))
	}

	var norm float64
	for _, b := range beta {
		norm += b * b
	}
	if math.Abs(norm-1) > 1e-12 {
		t.Errorf("beta should have unit norm, got %v", norm)
	}
	if math.Abs(beta[0]-0.70710678) > 1e-6 || beta[0] != beta[1] {
		t.Errorf("unexpected leading entries: %v", beta[:2])
	}
	for i := 2; i < len(beta); i++ {
		if beta[i] != 0 {
			t.Errorf("beta[%d] should be zero", i)
		}
	}
}
