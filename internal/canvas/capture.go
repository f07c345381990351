package canvas

import "Doodler/internal/state"

// PointerDown starts a stroke at the given page position. The pointer is
// sampled every interval until PointerUp; each sample becomes a line event
// from the previous sample.
func (c *Canvas) PointerDown(pageX, pageY float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.readOnly {
		return ErrReadOnly
	}
	if c.closed {
		return ErrClosed
	}
	if c.owner == ownerReplay {
		return ErrSurfaceBusy
	}
	if c.mode == Drawing {
		return nil
	}

	p := c.viewport.Map(pageX, pageY, c.scrollX, c.scrollY)
	c.latest = p
	c.prev, c.cur = nil, nil
	c.mode = Drawing
	c.owner = ownerCapture

	c.sampleGen++
	gen := c.sampleGen
	c.stopSampling = c.sched.Every(c.interval, func() { c.tick(gen) })

	c.surface.BeginPath()
	c.surface.MoveTo(p.X, p.Y)
	c.log.Debug("stroke started", "x", p.X, "y", p.Y)
	return nil
}

// PointerMove records the latest pointer position. It never emits events on
// its own; only the sampling tick does.
func (c *Canvas) PointerMove(pageX, pageY float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.latest = c.viewport.Map(pageX, pageY, c.scrollX, c.scrollY)
}

// PointerUp ends the current stroke.
func (c *Canvas) PointerUp() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode != Drawing {
		return
	}
	c.stopCapture()
	c.surface.BeginPath()
	c.log.Debug("stroke finished", "events", c.doc.Recording.Len())
}

// SetScroll sets the page scroll offset used when mapping pointer positions.
func (c *Canvas) SetScroll(x, y float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scrollX, c.scrollY = x, y
}

// SetViewport changes how page positions map onto the surface, for example
// after the surface is moved or resized on screen.
func (c *Canvas) SetViewport(v state.Viewport) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.viewport = v
}

func (c *Canvas) stopCapture() {
	if c.stopSampling != nil {
		c.stopSampling()
		c.stopSampling = nil
	}
	c.sampleGen++
	c.mode = Idle
	c.owner = ownerNone
	c.prev, c.cur = nil, nil
}

// tick shifts current to previous, takes the latest sample as current and
// draws between them. The first tick of a stroke draws a dot.
func (c *Canvas) tick(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode != Drawing || gen != c.sampleGen {
		return
	}
	latest := c.latest
	c.prev = c.cur
	c.cur = &latest

	from := latest
	if c.prev != nil {
		from = *c.prev
	}
	c.line(from.X, from.Y, latest.X, latest.Y)
}
