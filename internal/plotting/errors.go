package plotting

import "errors"

// Ошибки рендеринга.
var (
	// ErrNoDisplay — нет графического окружения для показа графика.
	ErrNoDisplay = errors.New("no display available")

	// ErrViewerFailed — просмотрщик не запустился.
	ErrViewerFailed = errors.New("viewer failed")

	// ErrEmptyFigure — на графике нет точек.
	ErrEmptyFigure = errors.New("figure has no data")

	// ErrLengthMismatch — длины координат и цветов не совпадают.
	ErrLengthMismatch = errors.New("series length mismatch")

	// ErrUnsupportedFormat — неизвестное расширение выходного файла.
	ErrUnsupportedFormat = errors.New("unsupported output format")

	// ErrCancelled — рендеринг отменён через context.
	ErrCancelled = errors.New("rendering cancelled")
)

// RenderingError — ошибка бэкенда рендеринга.
type RenderingError struct {
	Op   string // операция: "scatter", "build", "save", "show"
	Path string // выходной файл, если есть
	Err  error  // базовая ошибка
}

// Error реализует интерфейс error.
func (e *RenderingError) Error() string {
	if e.Path != "" {
		return "render " + e.Op + " " + e.Path + ": " + e.Err.Error()
	}
	return "render " + e.Op + ": " + e.Err.Error()
}

// Unwrap возвращает базовую ошибку.
func (e *RenderingError) Unwrap() error {
	return e.Err
}
