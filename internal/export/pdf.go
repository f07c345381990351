package export

import (
	"image/color"
	"io"

	"github.com/jung-kurt/gofpdf"
)

type pdfPoint struct {
	x, y float64
	move bool
}

// PDFSurface draws onto a single-page PDF sized to the drawing, one point
// per pixel. The current path is kept here and only written out on Stroke.
type PDFSurface struct {
	pdf   *gofpdf.Fpdf
	path  []pdfPoint
	color color.Color
	width float64
	err   error
}

// NewPDFSurface creates a width x height page.
func NewPDFSurface(width, height int) *PDFSurface {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: float64(width), Ht: float64(height)},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	pdf.SetLineCapStyle("round")
	pdf.SetLineJoinStyle("round")
	s := &PDFSurface{pdf: pdf, color: color.Black, width: 1}
	s.applyStyle()
	return s
}

func (s *PDFSurface) BeginPath() { s.path = s.path[:0] }

func (s *PDFSurface) MoveTo(x, y float64) {
	s.path = append(s.path, pdfPoint{x: x, y: y, move: true})
}

func (s *PDFSurface) LineTo(x, y float64) {
	if len(s.path) == 0 {
		s.MoveTo(x, y)
		return
	}
	s.path = append(s.path, pdfPoint{x: x, y: y})
}

// Stroke draws the current path and clears it.
func (s *PDFSurface) Stroke() {
	if len(s.path) < 2 {
		s.path = s.path[:0]
		return
	}
	for _, p := range s.path {
		if p.move {
			s.pdf.MoveTo(p.x, p.y)
		} else {
			s.pdf.LineTo(p.x, p.y)
		}
	}
	s.pdf.DrawPath("D")
	s.path = s.path[:0]
}

func (s *PDFSurface) ClearRect(x, y, w, h float64) {
	s.pdf.SetFillColor(255, 255, 255)
	s.pdf.Rect(x, y, w, h, "F")
}

// SetStrokeStyle sets the stroke colour. Unknown colours are reported by Err
// and leave the previous colour in place.
func (s *PDFSurface) SetStrokeStyle(c string) {
	col, err := ParseColor(c)
	if err != nil {
		if s.err == nil {
			s.err = err
		}
		return
	}
	s.color = col
	s.applyStyle()
}

func (s *PDFSurface) SetLineWidth(width float64) {
	s.width = width
	s.pdf.SetLineWidth(width)
}

func (s *PDFSurface) Save() { s.pdf.TransformBegin() }

// Restore ends the innermost Save. PDF graphics state restores colour and
// width along with the transform, so the current style is reapplied.
func (s *PDFSurface) Restore() {
	s.pdf.TransformEnd()
	s.applyStyle()
}

func (s *PDFSurface) Translate(x, y float64) { s.pdf.TransformTranslate(x, y) }

// Err returns the first drawing error.
func (s *PDFSurface) Err() error {
	if s.err != nil {
		return s.err
	}
	return s.pdf.Error()
}

// Output writes the document to w. The surface cannot be drawn on afterwards.
func (s *PDFSurface) Output(w io.Writer) error {
	return s.pdf.Output(w)
}

func (s *PDFSurface) applyStyle() {
	r, g, b, _ := s.color.RGBA()
	s.pdf.SetDrawColor(int(r>>8), int(g>>8), int(b>>8))
	s.pdf.SetLineWidth(s.width)
}
