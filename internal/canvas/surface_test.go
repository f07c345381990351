package canvas

import (
	"fmt"
	"sync"
	"time"

	"Doodler/internal/state"
)

// call is one primitive invocation seen by fakeSurface.
type call struct {
	Op   string
	Args string
	At   time.Duration
}

// fakeSurface records every primitive call, stamped with virtual time.
type fakeSurface struct {
	mu    sync.Mutex
	clock *state.Manual
	calls []call
}

func newFakeSurface(clock *state.Manual) *fakeSurface {
	return &fakeSurface{clock: clock}
}

func (s *fakeSurface) record(op string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var at time.Duration
	if s.clock != nil {
		at = s.clock.Now()
	}
	s.calls = append(s.calls, call{Op: op, Args: fmt.Sprint(args...), At: at})
}

func (s *fakeSurface) BeginPath()                   { s.record("beginPath") }
func (s *fakeSurface) MoveTo(x, y float64)          { s.record("moveTo", x, ",", y) }
func (s *fakeSurface) LineTo(x, y float64)          { s.record("lineTo", x, ",", y) }
func (s *fakeSurface) Stroke()                      { s.record("stroke") }
func (s *fakeSurface) ClearRect(x, y, w, h float64) { s.record("clearRect", x, ",", y, ",", w, ",", h) }
func (s *fakeSurface) SetStrokeStyle(color string)  { s.record("strokeStyle", color) }
func (s *fakeSurface) SetLineWidth(width float64)   { s.record("lineWidth", width) }
func (s *fakeSurface) Save()                        { s.record("save") }
func (s *fakeSurface) Restore()                     { s.record("restore") }
func (s *fakeSurface) Translate(x, y float64)       { s.record("translate", x, ",", y) }

// reset forgets the calls made so far.
func (s *fakeSurface) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = nil
}

// ops returns the calls whose Op is one of the given names.
func (s *fakeSurface) ops(names ...string) []call {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []call
	for _, c := range s.calls {
		for _, n := range names {
			if c.Op == n {
				out = append(out, c)
				break
			}
		}
	}
	return out
}
