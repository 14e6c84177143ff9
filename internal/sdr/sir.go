package sdr

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// SIR — Sliced Inverse Regression.
//
// Ядро: M = Σ_h (n_h/n) · m_h m_hᵀ, где m_h — среднее
// отбеленных данных внутри среза h.
type SIR struct {
	sliced
}

// NewSIR создаёт оценщик SIR.
func NewSIR(opts ...Option) *SIR {
	return &SIR{
		sliced: sliced{
			name:   MethodSIR,
			cfg:    newConfig(opts),
			kernel: sirKernel,
		},
	}
}

func sirKernel(Z *mat.Dense, s *Slices) *mat.SymDense {
	n, p := Z.Dims()

	M := mat.NewSymDense(p, nil)
	for h := 0; h < s.Len(); h++ {
		rows := sliceRows(Z, s.Members(h))

		mean := make([]float64, p)
		for j := range mean {
			mean[j] = stat.Mean(mat.Col(nil, j, rows), nil)
		}
		if floats.Norm(mean, 2) == 0 {
			continue
		}

		M.SymRankOne(M, float64(s.Counts[h])/float64(n), mat.NewVecDense(p, mean))
	}

	return M
}
