package sdr

import "errors"

// Ошибки оценки.
var (
	// ErrShapeMismatch — размеры X и y (или X и компонент) не согласованы.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrInsufficientDimensions — у X меньше двух признаков.
	ErrInsufficientDimensions = errors.New("need at least 2 features")

	// ErrTooFewSamples — наблюдений не больше, чем признаков.
	ErrTooFewSamples = errors.New("too few samples")

	// ErrConstantResponse — y принимает одно значение, срезы построить нельзя.
	ErrConstantResponse = errors.New("response is constant")

	// ErrInvalidSlices — число срезов меньше двух.
	ErrInvalidSlices = errors.New("invalid number of slices")

	// ErrInvalidDirections — число направлений вне [1, n_features].
	ErrInvalidDirections = errors.New("invalid number of directions")

	// ErrNonFinite — во входных данных есть NaN или Inf.
	ErrNonFinite = errors.New("input contains NaN or Inf")

	// ErrSingular — ковариационная матрица X вырождена.
	ErrSingular = errors.New("feature matrix is singular")

	// ErrNotFitted — Transform вызван до Fit.
	ErrNotFitted = errors.New("estimator is not fitted")

	// ErrUnknownMethod — неизвестный метод оценки.
	ErrUnknownMethod = errors.New("unknown method")
)

// EstimationError — ошибка оценки с контекстом операции.
type EstimationError struct {
	Op      string // операция: "fit", "transform", "slice", "new"
	Message string // описание ошибки
	Err     error  // базовая ошибка
}

// Error реализует интерфейс error.
func (e *EstimationError) Error() string {
	return e.Op + ": " + e.Message
}

// Unwrap возвращает базовую ошибку.
func (e *EstimationError) Unwrap() error {
	return e.Err
}

func newEstimationError(op, message string, err error) *EstimationError {
	return &EstimationError{Op: op, Message: message, Err: err}
}
