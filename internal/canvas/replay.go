package canvas

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"Doodler/internal/state"
)

// ErrReplayCancelled is reported by a Playback stopped before its last event.
var ErrReplayCancelled = errors.New("replay cancelled")

// Playback is a running replay. It holds the surface until it finishes, fails
// or is cancelled.
type Playback struct {
	canvas *Canvas
	events []state.Event
	next   int
	cancel state.Cancel
	done   chan struct{}

	mu  sync.Mutex
	err error
}

// Done is closed when the replay ends.
func (p *Playback) Done() <-chan struct{} { return p.done }

// Err returns why the replay ended: nil after the last event,
// ErrReplayCancelled, or the error that halted it.
func (p *Playback) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// Wait blocks until the replay ends or ctx is done.
func (p *Playback) Wait(ctx context.Context) error {
	select {
	case <-p.done:
		return p.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Cancel stops the replay and releases the surface. Events already drawn
// stay drawn.
func (p *Playback) Cancel() {
	c := p.canvas
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.playback != p {
		return
	}
	c.finish(p, ErrReplayCancelled)
}

// Len returns the number of events being replayed.
func (p *Playback) Len() int { return len(p.events) }

func (p *Playback) stop() {
	if p.cancel != nil {
		p.cancel()
	}
}

// Replay plays the recording back onto the surface. Event k is applied k
// intervals after the start, reproducing the capture cadence. Slow steps do
// not push later events back: the ticks are anchored to the start.
func (c *Canvas) Replay() (*Playback, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ErrClosed
	}
	if c.owner != ownerNone {
		return nil, ErrSurfaceBusy
	}
	p := &Playback{
		canvas: c,
		events: c.doc.Recording.Events(),
		done:   make(chan struct{}),
	}
	c.owner = ownerReplay
	c.playback = p
	c.log.Info("replay started", "events", len(p.events), "interval", c.interval)
	first := c.sched.After(0, func() { c.step(p) })
	if len(p.events) < 2 {
		p.cancel = first
		return p, nil
	}
	ticks := c.sched.Every(c.interval, func() { c.step(p) })
	p.cancel = func() {
		first()
		ticks()
	}
	return p, nil
}

func (c *Canvas) step(p *Playback) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.playback != p {
		return
	}
	if p.next >= len(p.events) {
		c.finish(p, nil)
		return
	}
	if err := c.render(p.events[p.next]); err != nil {
		c.finish(p, fmt.Errorf("replay event %d: %w", p.next, err))
		return
	}
	p.next++
	if p.next == len(p.events) {
		c.finish(p, nil)
	}
}

func (c *Canvas) finish(p *Playback, err error) {
	p.stop()
	c.playback = nil
	c.owner = ownerNone
	p.mu.Lock()
	p.err = err
	p.mu.Unlock()
	close(p.done)
	switch {
	case err == nil:
		c.log.Info("replay finished", "events", p.next)
	case errors.Is(err, ErrReplayCancelled):
		c.log.Info("replay cancelled", "events", p.next)
	default:
		c.log.Error("replay halted", "events", p.next, "error", err)
	}
}

// Redraw applies the whole recording at once, without timing.
func (c *Canvas) Redraw() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.owner != ownerNone {
		return ErrSurfaceBusy
	}
	for i := 0; i < c.doc.Recording.Len(); i++ {
		if err := c.render(c.doc.Recording.At(i)); err != nil {
			return fmt.Errorf("redraw event %d: %w", i, err)
		}
	}
	return nil
}
