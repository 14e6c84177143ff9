package sdr

import (
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Методы оценки.
const (
	MethodSAVE = "save"
	MethodSIR  = "sir"
)

// Значения по умолчанию.
const (
	DefaultSlices     = 10
	DefaultDirections = 2
)

// Reducer — оценщик подпространства снижения размерности.
type Reducer interface {
	// Name возвращает имя метода.
	Name() string

	// Fit находит направления по (X, y).
	Fit(X mat.Matrix, y []float64) error

	// Transform проецирует X на найденные направления.
	Transform(X mat.Matrix) (*mat.Dense, error)

	// FitTransform выполняет Fit и Transform на одних данных.
	FitTransform(X mat.Matrix, y []float64) (*mat.Dense, error)

	// Components возвращает копию матрицы направлений n_features × n_directions.
	// Nil до вызова Fit.
	Components() *mat.Dense

	// Eigenvalues возвращает собственные значения ядра в порядке убывания.
	Eigenvalues() []float64
}

// Option настраивает оценщик.
type Option func(*config)

type config struct {
	slices     int
	directions int
}

// WithSlices задаёт число срезов по y.
func WithSlices(n int) Option {
	return func(c *config) { c.slices = n }
}

// WithDirections задаёт число сохраняемых направлений.
func WithDirections(n int) Option {
	return func(c *config) { c.directions = n }
}

func newConfig(opts []Option) config {
	c := config{
		slices:     DefaultSlices,
		directions: DefaultDirections,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

var constructors = map[string]func(...Option) Reducer{
	MethodSAVE: func(opts ...Option) Reducer { return NewSAVE(opts...) },
	MethodSIR:  func(opts ...Option) Reducer { return NewSIR(opts...) },
}

// New создаёт оценщик по имени метода (регистр не важен).
func New(method string, opts ...Option) (Reducer, error) {
	ctor, ok := constructors[strings.ToLower(strings.TrimSpace(method))]
	if !ok {
		return nil, newEstimationError("new",
			fmt.Sprintf("unknown method %q (available: %s)", method, strings.Join(Methods(), ", ")),
			ErrUnknownMethod)
	}
	return ctor(opts...), nil
}

// Methods возвращает список доступных методов.
func Methods() []string {
	methods := make([]string, 0, len(constructors))
	for m := range constructors {
		methods = append(methods, m)
	}
	sort.Strings(methods)
	return methods
}
