package plotting

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Annotation — текстовая подпись в координатах данных.
type Annotation struct {
	Text string
	X, Y float64
}

// Figure — описание графика: scatter, подписи осей и аннотации.
//
// Figure не зависит от бэкенда; в gonum/plot он превращается в Plot.
type Figure struct {
	Title  string
	XLabel string
	YLabel string

	x, y, c     []float64
	annotations []Annotation
}

// NewFigure создаёт пустой график.
func NewFigure() *Figure {
	return &Figure{}
}

// Scatter задаёт точки (x[i], y[i]) с цветом по значению c[i].
func (f *Figure) Scatter(x, y, c []float64) error {
	if len(x) != len(y) || len(x) != len(c) {
		return &RenderingError{
			Op:  "scatter",
			Err: fmt.Errorf("%w: x=%d y=%d c=%d", ErrLengthMismatch, len(x), len(y), len(c)),
		}
	}
	f.x = append([]float64(nil), x...)
	f.y = append([]float64(nil), y...)
	f.c = append([]float64(nil), c...)
	return nil
}

// SetXLabel задаёт подпись оси X.
func (f *Figure) SetXLabel(s string) { f.XLabel = s }

// SetYLabel задаёт подпись оси Y.
func (f *Figure) SetYLabel(s string) { f.YLabel = s }

// Annotate размещает текст в точке (x, y).
func (f *Figure) Annotate(text string, x, y float64) {
	f.annotations = append(f.annotations, Annotation{Text: text, X: x, Y: y})
}

// Annotations возвращает копию списка аннотаций.
func (f *Figure) Annotations() []Annotation {
	return append([]Annotation(nil), f.annotations...)
}

// Len возвращает число точек.
func (f *Figure) Len() int {
	return len(f.x)
}

// Build собирает gonum/plot график.
func (f *Figure) Build() (*plot.Plot, error) {
	if f.Len() == 0 {
		return nil, &RenderingError{Op: "build", Err: ErrEmptyFigure}
	}

	p := plot.New()
	p.Title.Text = f.Title
	p.X.Label.Text = f.XLabel
	p.Y.Label.Text = f.YLabel

	xys := make(plotter.XYs, f.Len())
	for i := range xys {
		xys[i].X = f.x[i]
		xys[i].Y = f.y[i]
	}

	sc, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, &RenderingError{Op: "build", Err: err}
	}

	cm := colorMap(f.c)
	sc.GlyphStyleFunc = func(i int) draw.GlyphStyle {
		style := draw.GlyphStyle{Radius: vg.Points(2.5), Shape: draw.CircleGlyph{}}
		col, err := cm.At(f.c[i])
		if err != nil {
			col = color.Black
		}
		style.Color = col
		return style
	}
	p.Add(sc)

	if len(f.annotations) > 0 {
		labels := plotter.XYLabels{
			XYs:    make(plotter.XYs, len(f.annotations)),
			Labels: make([]string, len(f.annotations)),
		}
		for i, a := range f.annotations {
			labels.XYs[i].X = a.X
			labels.XYs[i].Y = a.Y
			labels.Labels[i] = a.Text
		}
		l, err := plotter.NewLabels(labels)
		if err != nil {
			return nil, &RenderingError{Op: "build", Err: err}
		}
		p.Add(l)
	}

	return p, nil
}

// colorMap возвращает Kindlmann (перцептивно равномерная, аналог viridis),
// растянутую на диапазон values.
func colorMap(values []float64) palette.ColorMap {
	cm := moreland.Kindlmann()

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	if lo == hi {
		hi = lo + 1
	}
	cm.SetMin(lo)
	cm.SetMax(hi)
	return cm
}
