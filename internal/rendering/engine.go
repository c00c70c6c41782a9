package rendering

import (
	"context"
	"io"
	"math/rand/v2"

	"github.com/MichealWhitney/AI-Resume-Enhancer/internal/types"
)

// ColorFunc picks the header bar color for one document.
type ColorFunc func() Color

// RandomColor draws uniformly from the 24-bit color space.
func RandomColor() Color {
	v := rand.Uint32N(1 << 24)
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}
}

// Engine renders structured résumés to PDF.
type Engine struct {
	color     ColorFunc
	newCanvas func() Canvas
}

// Option configures an Engine.
type Option func(*Engine)

// WithColorFunc replaces the random header color.
func WithColorFunc(fn ColorFunc) Option {
	return func(e *Engine) { e.color = fn }
}

// WithCanvas replaces the fpdf canvas, one canvas per Render call.
func WithCanvas(fn func() Canvas) Option {
	return func(e *Engine) { e.newCanvas = fn }
}

// NewEngine returns an Engine that draws with fpdf and a random header color.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		color:     RandomColor,
		newCanvas: func() Canvas { return NewPDFCanvas() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Render lays out resume and writes the finished PDF to w. It returns only after
// the whole document has been written; failures are *RenderError.
func (e *Engine) Render(ctx context.Context, resume *types.StructuredResume, w io.Writer) error {
	if resume == nil {
		return &RenderError{Message: "resume is nil"}
	}

	canvas := e.newCanvas()
	layout := LayoutResume(resume, canvas, e.color())

	if err := paint(ctx, canvas, layout); err != nil {
		return &RenderError{Message: "rendering interrupted", Cause: err}
	}
	if err := canvas.Output(w); err != nil {
		return &RenderError{Message: "failed to write PDF", Cause: err}
	}
	return nil
}

// paint replays the layout onto canvas one page at a time.
func paint(ctx context.Context, canvas Canvas, layout *Layout) error {
	byPage := make([][]Op, layout.Pages+1)
	for _, op := range layout.Ops {
		byPage[op.Page] = append(byPage[op.Page], op)
	}

	for page := 1; page <= layout.Pages; page++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		canvas.AddPage()
		for _, op := range byPage[page] {
			switch op.Kind {
			case OpRect:
				canvas.FillRect(op.X, op.Y, op.W, op.H, op.Color)
			case OpLine:
				canvas.Line(op.X, op.Y, op.X+op.W, op.Y, op.H, op.Color)
			case OpText:
				canvas.Text(op.X, op.Y, op.H, op.Text, op.Font, op.Color)
			}
		}
	}
	return nil
}
