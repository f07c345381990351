package export

import (
	"image"
	"image/color"
	"io"

	"github.com/gogpu/gg"
)

// RasterSurface draws onto an in-memory image. Lines use round caps and
// joins on a white background.
type RasterSurface struct {
	ctx   *gg.Context
	color color.Color
	err   error
}

// NewRasterSurface creates a width x height white image.
func NewRasterSurface(width, height int) *RasterSurface {
	ctx := gg.NewContext(width, height)
	ctx.ClearWithColor(gg.White)
	ctx.SetLineCap(gg.LineCapRound)
	ctx.SetLineJoin(gg.LineJoinRound)
	s := &RasterSurface{ctx: ctx, color: color.Black}
	ctx.SetColor(s.color)
	return s
}

func (s *RasterSurface) BeginPath() { s.ctx.ClearPath() }

func (s *RasterSurface) MoveTo(x, y float64) { s.ctx.MoveTo(x, y) }

func (s *RasterSurface) LineTo(x, y float64) { s.ctx.LineTo(x, y) }

func (s *RasterSurface) Stroke() { s.keep(s.ctx.Stroke()) }

// ClearRect paints the area white, leaving the current path and stroke
// colour untouched.
func (s *RasterSurface) ClearRect(x, y, w, h float64) {
	s.ctx.ClearPath()
	s.ctx.SetColor(color.White)
	s.ctx.DrawRectangle(x, y, w, h)
	s.keep(s.ctx.Fill())
	s.ctx.SetColor(s.color)
}

// SetStrokeStyle sets the stroke colour. Unknown colours are reported by Err
// and leave the previous colour in place.
func (s *RasterSurface) SetStrokeStyle(c string) {
	col, err := ParseColor(c)
	if err != nil {
		s.keep(err)
		return
	}
	s.color = col
	s.ctx.SetColor(col)
}

func (s *RasterSurface) SetLineWidth(width float64) { s.ctx.SetLineWidth(width) }

func (s *RasterSurface) Save() { s.ctx.Push() }

func (s *RasterSurface) Restore() { s.ctx.Pop() }

func (s *RasterSurface) Translate(x, y float64) { s.ctx.Translate(x, y) }

// Err returns the first drawing error.
func (s *RasterSurface) Err() error { return s.err }

// Image returns the drawing.
func (s *RasterSurface) Image() image.Image { return s.ctx.Image() }

// EncodePNG writes the drawing as PNG.
func (s *RasterSurface) EncodePNG(w io.Writer) error { return s.ctx.EncodePNG(w) }

// Close releases the drawing context.
func (s *RasterSurface) Close() error { return s.ctx.Close() }

func (s *RasterSurface) keep(err error) {
	if err != nil && s.err == nil {
		s.err = err
	}
}
