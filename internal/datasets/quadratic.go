package datasets

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/shaiso/sdr/internal/domain"
)

// Значения по умолчанию для MakeQuadratic.
const (
	DefaultSamples  = 500
	DefaultFeatures = 10
	DefaultNoise    = 0.1

	// MaxSeed — верхняя (исключённая) граница seed.
	MaxSeed int64 = 1 << 32

	// quadraticScale — множитель при (Xβ)².
	quadraticScale = 0.125
)

// Option настраивает генератор.
type Option func(*options)

type options struct {
	samples  int
	features int
	noise    float64
}

// WithSamples задаёт число наблюдений.
func WithSamples(n int) Option {
	return func(o *options) { o.samples = n }
}

// WithFeatures задаёт число признаков.
func WithFeatures(p int) Option {
	return func(o *options) { o.features = p }
}

// WithNoise задаёт стандартное отклонение шума.
func WithNoise(sigma float64) Option {
	return func(o *options) { o.noise = sigma }
}

// MakeQuadratic генерирует выборку с квадратичной зависимостью:
//
//	X ~ N(0, I_p),  β = (1, 1, 0, ..., 0) / √2
//	y = 0.125 · (Xβ)² + σ·ε,  ε ~ N(0, 1)
//
// Зависимость симметрична по Xβ, поэтому SIR её не видит,
// а SAVE восстанавливает β.
func MakeQuadratic(seed int64, opts ...Option) (*domain.Dataset, error) {
	o := options{
		samples:  DefaultSamples,
		features: DefaultFeatures,
		noise:    DefaultNoise,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if err := validate(seed, o); err != nil {
		return nil, err
	}

	src := rand.NewSource(uint64(seed))
	normal := distuv.Normal{Mu: 0, Sigma: 1, Src: src}

	data := make([]float64, o.samples*o.features)
	for i := range data {
		data[i] = normal.Rand()
	}
	X := mat.NewDense(o.samples, o.features, data)

	beta := TrueDirection(o.features)

	y := make([]float64, o.samples)
	for i := range y {
		proj := floats.Dot(X.RawRowView(i), beta)
		y[i] = quadraticScale*proj*proj + o.noise*normal.Rand()
	}

	return &domain.Dataset{
		X:    X,
		Y:    y,
		Beta: beta,
		Seed: seed,
	}, nil
}

// TrueDirection возвращает направление β = (1, 1, 0, ..., 0) / √2
// длины p, по которому генерируется отклик.
func TrueDirection(p int) []float64 {
	beta := make([]float64, p)
	if p < 2 {
		return beta
	}
	beta[0] = 1 / math.Sqrt2
	beta[1] = 1 / math.Sqrt2
	return beta
}

func validate(seed int64, o options) error {
	if seed < 0 || seed >= MaxSeed {
		return newInputError("seed",
			fmt.Sprintf("must be in [0, %d), got %d", MaxSeed, seed), ErrInvalidSeed)
	}
	if o.samples < 2 {
		return newInputError("samples",
			fmt.Sprintf("need at least 2, got %d", o.samples), ErrInvalidSamples)
	}
	if o.features < 2 {
		return newInputError("features",
			fmt.Sprintf("need at least 2, got %d", o.features), ErrInvalidFeatures)
	}
	if o.noise < 0 || math.IsNaN(o.noise) || math.IsInf(o.noise, 0) {
		return newInputError("noise",
			fmt.Sprintf("must be a finite non-negative number, got %v", o.noise), ErrInvalidNoise)
	}
	return nil
}
