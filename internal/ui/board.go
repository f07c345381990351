package ui

import (
	"errors"
	"image/color"
	"sync"

	doodle "Doodler/internal/canvas"
	"Doodler/internal/export"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

type pathPoint struct {
	pos  fyne.Position
	move bool
}

// BoardWidget is the on-screen drawing surface. It implements canvas.Surface
// by keeping one fyne line per stroked segment, and forwards pointer input to
// the attached Canvas.
type BoardWidget struct {
	widget.BaseWidget
	size fyne.Size

	mu      sync.RWMutex
	objects []fyne.CanvasObject
	path    []pathPoint
	color   color.Color
	width   float32
	offset  fyne.Position
	saved   []fyne.Position
	canvas  *doodle.Canvas

	// OnError receives drawing and input errors. Read-only rejections are
	// not reported.
	OnError func(error)
}

var _ fyne.Widget = (*BoardWidget)(nil)
var _ fyne.Draggable = (*BoardWidget)(nil)
var _ desktop.Mouseable = (*BoardWidget)(nil)
var _ desktop.Hoverable = (*BoardWidget)(nil)
var _ doodle.Surface = (*BoardWidget)(nil)

// NewBoardWidget creates a width x height board.
func NewBoardWidget(width, height int) *BoardWidget {
	b := &BoardWidget{
		size:  fyne.NewSize(float32(width), float32(height)),
		color: color.Black,
		width: 1,
	}
	b.ExtendBaseWidget(b)
	return b
}

// Attach routes pointer input to c. c must draw onto this board.
func (b *BoardWidget) Attach(c *doodle.Canvas) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.canvas = c
}

// Objects returns the drawn shapes, oldest first.
func (b *BoardWidget) Objects() []fyne.CanvasObject {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]fyne.CanvasObject, len(b.objects))
	copy(out, b.objects)
	return out
}

func (b *BoardWidget) BeginPath() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.path = b.path[:0]
}

func (b *BoardWidget) MoveTo(x, y float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.path = append(b.path, pathPoint{pos: b.at(x, y), move: true})
}

func (b *BoardWidget) LineTo(x, y float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.path = append(b.path, pathPoint{pos: b.at(x, y), move: len(b.path) == 0})
}

// Stroke turns the current path into shapes. A zero-length segment becomes a
// dot the size of the line width.
func (b *BoardWidget) Stroke() {
	b.mu.Lock()
	for i := 1; i < len(b.path); i++ {
		p := b.path[i]
		if p.move {
			continue
		}
		from := b.path[i-1].pos
		if from == p.pos {
			b.objects = append(b.objects, b.dot(p.pos))
			continue
		}
		line := canvas.NewLine(b.color)
		line.StrokeWidth = b.width
		line.Position1 = from
		line.Position2 = p.pos
		b.objects = append(b.objects, line)
	}
	b.path = b.path[:0]
	b.mu.Unlock()
	b.refresh()
}

// ClearRect removes the shapes lying entirely inside the rectangle.
func (b *BoardWidget) ClearRect(x, y, w, h float64) {
	b.mu.Lock()
	lo := b.at(x, y)
	hi := lo.Add(fyne.NewPos(float32(w), float32(h)))
	inside := func(p fyne.Position) bool {
		return p.X >= lo.X && p.Y >= lo.Y && p.X <= hi.X && p.Y <= hi.Y
	}
	kept := b.objects[:0]
	for _, o := range b.objects {
		var p1, p2 fyne.Position
		switch s := o.(type) {
		case *canvas.Line:
			p1, p2 = s.Position1, s.Position2
		case *canvas.Circle:
			p1, p2 = s.Position1, s.Position2
		}
		if !inside(p1) || !inside(p2) {
			kept = append(kept, o)
		}
	}
	for i := len(kept); i < len(b.objects); i++ {
		b.objects[i] = nil
	}
	b.objects = kept
	b.mu.Unlock()
	b.refresh()
}

// SetStrokeStyle sets the colour of later strokes. Unknown colours are
// reported to OnError and ignored.
func (b *BoardWidget) SetStrokeStyle(c string) {
	col, err := export.ParseColor(c)
	if err != nil {
		b.report(err)
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.color = col
}

func (b *BoardWidget) SetLineWidth(width float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.width = float32(width)
}

func (b *BoardWidget) Save() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.saved = append(b.saved, b.offset)
}

func (b *BoardWidget) Restore() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if n := len(b.saved); n > 0 {
		b.offset = b.saved[n-1]
		b.saved = b.saved[:n-1]
	}
}

func (b *BoardWidget) Translate(x, y float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.offset = b.offset.Add(fyne.NewPos(float32(x), float32(y)))
}

// at applies the current translation. It must be called with mu held.
func (b *BoardWidget) at(x, y float64) fyne.Position {
	return fyne.NewPos(float32(x), float32(y)).Add(b.offset)
}

func (b *BoardWidget) dot(p fyne.Position) *canvas.Circle {
	r := b.width / 2
	if r < 0.5 {
		r = 0.5
	}
	c := canvas.NewCircle(b.color)
	c.Position1 = p.Subtract(fyne.NewPos(r, r))
	c.Position2 = p.Add(fyne.NewPos(r, r))
	return c
}

// refresh redraws from any goroutine; ticks and replay steps arrive off the
// main thread.
func (b *BoardWidget) refresh() {
	fyne.Do(b.Refresh)
}

func (b *BoardWidget) attached() *doodle.Canvas {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.canvas
}

func (b *BoardWidget) report(err error) {
	if err == nil || errors.Is(err, doodle.ErrReadOnly) {
		return
	}
	if b.OnError != nil {
		b.OnError(err)
	}
}

func (b *BoardWidget) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	if c := b.attached(); c != nil {
		b.report(c.PointerDown(float64(e.Position.X), float64(e.Position.Y)))
	}
}

func (b *BoardWidget) MouseUp(e *desktop.MouseEvent) {
	if c := b.attached(); c != nil {
		c.PointerUp()
	}
}

func (b *BoardWidget) MouseMoved(e *desktop.MouseEvent) {
	if c := b.attached(); c != nil {
		c.PointerMove(float64(e.Position.X), float64(e.Position.Y))
	}
}

func (b *BoardWidget) Dragged(e *fyne.DragEvent) {
	if c := b.attached(); c != nil {
		c.PointerMove(float64(e.Position.X), float64(e.Position.Y))
	}
}

func (b *BoardWidget) DragEnd() {
	if c := b.attached(); c != nil {
		c.PointerUp()
	}
}

func (b *BoardWidget) MouseIn(*desktop.MouseEvent) {}
func (b *BoardWidget) MouseOut()                   {}

func (b *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	r := &boardWidgetRenderer{board: b}
	r.background = canvas.NewRectangle(color.White)
	return r
}

type boardWidgetRenderer struct {
	board      *BoardWidget
	background *canvas.Rectangle
}

func (r *boardWidgetRenderer) Objects() []fyne.CanvasObject {
	return append([]fyne.CanvasObject{r.background}, r.board.Objects()...)
}

func (r *boardWidgetRenderer) Refresh() {
	canvas.Refresh(r.board)
}

func (r *boardWidgetRenderer) Layout(size fyne.Size) {
	r.background.Resize(size)
}

func (r *boardWidgetRenderer) MinSize() fyne.Size {
	return r.board.size
}

func (r *boardWidgetRenderer) Destroy() {}
