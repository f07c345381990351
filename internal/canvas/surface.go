package canvas

// Surface is the drawable target a Canvas renders onto. Implementations keep
// their own current stroke style; a Canvas only ever sets it.
type Surface interface {
	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	Stroke()
	ClearRect(x, y, w, h float64)
	SetStrokeStyle(color string)
	SetLineWidth(width float64)
	// Save and Restore scope Translate calls.
	Save()
	Restore()
	Translate(x, y float64)
}

// drawLine strokes a single segment as its own path.
func drawLine(s Surface, x1, y1, x2, y2 float64) {
	s.BeginPath()
	s.MoveTo(x1, y1)
	s.LineTo(x2, y2)
	s.Stroke()
}
