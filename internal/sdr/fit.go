package sdr

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// rankTol — относительный порог для диагонали R.
const rankTol = 1e-10

// kernelFunc строит ядро M (p × p) по отбеленным данным и срезам.
type kernelFunc func(Z *mat.Dense, s *Slices) *mat.SymDense

// sliced — общая часть SAVE и SIR: отбеливание, срезы, собственное разложение.
type sliced struct {
	name   string
	cfg    config
	kernel kernelFunc

	components  *mat.Dense
	eigenvalues []float64
	nSlices     int
}

func (e *sliced) Name() string {
	return e.name
}

// Slices возвращает фактическое число срезов после Fit.
func (e *sliced) Slices() int {
	return e.nSlices
}

func (e *sliced) Components() *mat.Dense {
	if e.components == nil {
		return nil
	}
	return mat.DenseCopyOf(e.components)
}

func (e *sliced) Eigenvalues() []float64 {
	if e.eigenvalues == nil {
		return nil
	}
	out := make([]float64, len(e.eigenvalues))
	copy(out, e.eigenvalues)
	return out
}

func (e *sliced) FitTransform(X mat.Matrix, y []float64) (*mat.Dense, error) {
	if err := e.Fit(X, y); err != nil {
		return nil, err
	}
	return e.Transform(X)
}

func (e *sliced) Transform(X mat.Matrix) (*mat.Dense, error) {
	if e.components == nil {
		return nil, newEstimationError("transform", "call Fit first", ErrNotFitted)
	}
	if X == nil {
		return nil, newEstimationError("transform", "X is nil", ErrShapeMismatch)
	}

	_, c := X.Dims()
	p, _ := e.components.Dims()
	if c != p {
		return nil, newEstimationError("transform",
			fmt.Sprintf("X has %d features, estimator was fitted on %d", c, p), ErrShapeMismatch)
	}

	var out mat.Dense
	out.Mul(X, e.components)
	return &out, nil
}

func (e *sliced) Fit(X mat.Matrix, y []float64) error {
	if err := e.checkInput(X, y); err != nil {
		return err
	}
	n, p := X.Dims()

	s, err := Slice(y, e.cfg.slices)
	if err != nil {
		return err
	}
	// Из-за совпадающих y все наблюдения могли попасть в один срез
	if s.Len() < 2 {
		return newEstimationError("fit",
			fmt.Sprintf("tied responses leave %d slice", s.Len()), ErrInvalidSlices)
	}

	Z, R, err := whiten(X)
	if err != nil {
		return err
	}

	M := e.kernel(Z, s)

	var es mat.EigenSym
	if ok := es.Factorize(M, true); !ok {
		return newEstimationError("fit", "eigen decomposition did not converge", ErrSingular)
	}
	vals := es.Values(nil)
	var vecs mat.Dense
	es.VectorsTo(&vecs)

	// gonum возвращает значения по возрастанию, разворачиваем
	order := make([]int, p)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return vals[order[a]] > vals[order[b]] })

	desc := mat.NewDense(p, p, nil)
	eigenvalues := make([]float64, p)
	for j, k := range order {
		eigenvalues[j] = vals[k]
		desc.SetCol(j, mat.Col(nil, k, &vecs))
	}

	// β = (√n·R)⁻¹ · v
	var scaledR mat.TriDense
	scaledR.ScaleTri(math.Sqrt(float64(n)), R)

	var dirs mat.Dense
	if err := dirs.Solve(&scaledR, desc); err != nil {
		// mat.Condition: плохая обусловленность, решение посчитано
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return newEstimationError("fit", err.Error(), ErrSingular)
		}
	}

	d := e.cfg.directions
	components := mat.NewDense(p, d, nil)
	for j := 0; j < d; j++ {
		col := mat.Col(nil, j, &dirs)
		norm := floats.Norm(col, 2)
		if norm == 0 || math.IsNaN(norm) || math.IsInf(norm, 0) {
			return newEstimationError("fit",
				fmt.Sprintf("direction %d is degenerate", j), ErrSingular)
		}
		floats.Scale(1/norm, col)
		canonicalSign(col)
		components.SetCol(j, col)
	}

	e.components = components
	e.eigenvalues = eigenvalues
	e.nSlices = s.Len()
	return nil
}

func (e *sliced) checkInput(X mat.Matrix, y []float64) error {
	if X == nil {
		return newEstimationError("fit", "X is nil", ErrShapeMismatch)
	}
	n, p := X.Dims()

	if n != len(y) {
		return newEstimationError("fit",
			fmt.Sprintf("X has %d rows, y has %d values", n, len(y)), ErrShapeMismatch)
	}
	if p < 2 {
		return newEstimationError("fit",
			fmt.Sprintf("X has %d features", p), ErrInsufficientDimensions)
	}
	if n <= p {
		return newEstimationError("fit",
			fmt.Sprintf("need more samples than features, got %d samples and %d features", n, p),
			ErrTooFewSamples)
	}
	if e.cfg.directions < 1 || e.cfg.directions > p {
		return newEstimationError("fit",
			fmt.Sprintf("directions must be in [1, %d], got %d", p, e.cfg.directions),
			ErrInvalidDirections)
	}
	if e.cfg.slices < 2 {
		return newEstimationError("fit",
			fmt.Sprintf("need at least 2 slices, got %d", e.cfg.slices), ErrInvalidSlices)
	}

	for i := 0; i < n; i++ {
		if !isFinite(y[i]) {
			return newEstimationError("fit", fmt.Sprintf("y[%d] = %v", i, y[i]), ErrNonFinite)
		}
		for j := 0; j < p; j++ {
			if v := X.At(i, j); !isFinite(v) {
				return newEstimationError("fit", fmt.Sprintf("X[%d, %d] = %v", i, j, v), ErrNonFinite)
			}
		}
	}
	return nil
}

// whiten центрирует X и возвращает Z = √n·Q и верхнетреугольную R
// тонкого QR-разложения X_c = Q·R.
func whiten(X mat.Matrix) (*mat.Dense, *mat.TriDense, error) {
	n, p := X.Dims()

	Xc := mat.DenseCopyOf(X)
	for j := 0; j < p; j++ {
		col := mat.Col(nil, j, Xc)
		floats.AddConst(-stat.Mean(col, nil), col)
		Xc.SetCol(j, col)
	}

	var qr mat.QR
	qr.Factorize(Xc)

	var q, r mat.Dense
	qr.QTo(&q)
	qr.RTo(&r)

	scale := 0.0
	for i := 0; i < p; i++ {
		scale = math.Max(scale, math.Abs(r.At(i, i)))
	}

	R := mat.NewTriDense(p, mat.Upper, nil)
	for i := 0; i < p; i++ {
		if math.Abs(r.At(i, i)) <= rankTol*scale {
			return nil, nil, newEstimationError("fit",
				fmt.Sprintf("feature %d is constant or collinear", i), ErrSingular)
		}
		for j := i; j < p; j++ {
			R.SetTri(i, j, r.At(i, j))
		}
	}

	Z := mat.DenseCopyOf(q.Slice(0, n, 0, p))
	Z.Scale(math.Sqrt(float64(n)), Z)
	return Z, R, nil
}

// sliceRows копирует строки Z, попавшие в срез.
func sliceRows(Z *mat.Dense, idx []int) *mat.Dense {
	_, p := Z.Dims()
	out := mat.NewDense(len(idx), p, nil)
	for i, k := range idx {
		out.SetRow(i, Z.RawRowView(k))
	}
	return out
}

// symmetrize возвращает (A + Aᵀ)/2.
func symmetrize(A mat.Matrix) *mat.SymDense {
	p, _ := A.Dims()
	S := mat.NewSymDense(p, nil)
	for i := 0; i < p; i++ {
		for j := i; j < p; j++ {
			S.SetSym(i, j, (A.At(i, j)+A.At(j, i))/2)
		}
	}
	return S
}

// canonicalSign делает положительной компоненту с наибольшим модулем.
func canonicalSign(v []float64) {
	if len(v) == 0 {
		return
	}
	k := 0
	for i := range v {
		if math.Abs(v[i]) > math.Abs(v[k]) {
			k = i
		}
	}
	if v[k] < 0 {
		floats.Scale(-1, v)
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
