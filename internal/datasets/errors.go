package datasets

import "errors"

// Ошибки валидации параметров генератора.
var (
	// ErrInvalidSeed — seed вне диапазона [0, 2^32).
	ErrInvalidSeed = errors.New("seed out of range")

	// ErrInvalidSamples — слишком мало наблюдений.
	ErrInvalidSamples = errors.New("invalid number of samples")

	// ErrInvalidFeatures — слишком мало признаков.
	ErrInvalidFeatures = errors.New("invalid number of features")

	// ErrInvalidNoise — отрицательный или нечисловой уровень шума.
	ErrInvalidNoise = errors.New("invalid noise level")
)

// InputValidationError — ошибка валидации входных параметров генератора.
type InputValidationError struct {
	Field   string // параметр, вызвавший ошибку
	Message string // описание ошибки
	Err     error  // базовая ошибка
}

// Error реализует интерфейс error.
func (e *InputValidationError) Error() string {
	return "invalid " + e.Field + ": " + e.Message
}

// Unwrap возвращает базовую ошибку.
func (e *InputValidationError) Unwrap() error {
	return e.Err
}

func newInputError(field, message string, err error) *InputValidationError {
	return &InputValidationError{Field: field, Message: message, Err: err}
}
