package sdr

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// SAVE — Sliced Average Variance Estimation.
//
// Ядро: M = Σ_h (n_h/n) · (I − V_h)², где V_h — ковариация
// отбеленных данных внутри среза h.
type SAVE struct {
	sliced
}

// NewSAVE создаёт оценщик SAVE.
func NewSAVE(opts ...Option) *SAVE {
	return &SAVE{
		sliced: sliced{
			name:   MethodSAVE,
			cfg:    newConfig(opts),
			kernel: saveKernel,
		},
	}
}

func saveKernel(Z *mat.Dense, s *Slices) *mat.SymDense {
	n, p := Z.Dims()

	M := mat.NewDense(p, p, nil)
	for h := 0; h < s.Len(); h++ {
		nh := s.Counts[h]

		// V_h с делителем n_h (а не n_h − 1)
		V := mat.NewSymDense(p, nil)
		if nh > 1 {
			stat.CovarianceMatrix(V, sliceRows(Z, s.Members(h)), nil)
			V.ScaleSym(float64(nh-1)/float64(nh), V)
		}

		var D mat.Dense
		D.Sub(eye(p), V)

		var D2 mat.Dense
		D2.Mul(&D, &D)
		D2.Scale(float64(nh)/float64(n), &D2)

		M.Add(M, &D2)
	}

	return symmetrize(M)
}

func eye(p int) *mat.DiagDense {
	d := make([]float64, p)
	for i := range d {
		d[i] = 1
	}
	return mat.NewDiagDense(p, d)
}
