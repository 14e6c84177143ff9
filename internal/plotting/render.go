package plotting

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot/vg"
)

// Размер графика по умолчанию.
const (
	DefaultWidth  = 6 * vg.Inch
	DefaultHeight = 4.5 * vg.Inch
)

// Форматы, которые умеет gonum/plot.
var supportedFormats = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".svg":  true,
	".pdf":  true,
	".eps":  true,
	".tif":  true,
	".tiff": true,
}

// Renderer сохраняет Figure в файл и показывает его.
type Renderer struct {
	width  vg.Length
	height vg.Length
	viewer Viewer
}

// Option настраивает Renderer.
type Option func(*Renderer)

// WithSize задаёт размер графика.
func WithSize(w, h vg.Length) Option {
	return func(r *Renderer) {
		r.width = w
		r.height = h
	}
}

// WithViewer подменяет просмотрщик (используется в тестах).
func WithViewer(v Viewer) Option {
	return func(r *Renderer) { r.viewer = v }
}

// NewRenderer создаёт Renderer с системным просмотрщиком.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		width:  DefaultWidth,
		height: DefaultHeight,
		viewer: NewSystemViewer(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Save рендерит график в файл. Формат определяется по расширению.
func (r *Renderer) Save(ctx context.Context, fig *Figure, path string) error {
	select {
	case <-ctx.Done():
		return &RenderingError{Op: "save", Path: path, Err: fmt.Errorf("%w: %v", ErrCancelled, ctx.Err())}
	default:
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !supportedFormats[ext] {
		return &RenderingError{Op: "save", Path: path, Err: fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)}
	}

	p, err := fig.Build()
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &RenderingError{Op: "save", Path: path, Err: err}
		}
	}

	if err := p.Save(r.width, r.height, path); err != nil {
		return &RenderingError{Op: "save", Path: path, Err: err}
	}
	return nil
}

// Show открывает сохранённый файл в просмотрщике.
func (r *Renderer) Show(ctx context.Context, path string) error {
	if err := r.viewer.Open(ctx, path); err != nil {
		return &RenderingError{Op: "show", Path: path, Err: err}
	}
	return nil
}
