package state

import (
	"container/heap"
	"sync"
	"time"
)

// Cancel stops a scheduled callback. Calling it more than once is harmless.
type Cancel func()

// Scheduler is the tick source shared by capture sampling and replay.
// Implementations run callbacks one at a time, in due order, and never from
// inside After or Every.
type Scheduler interface {
	// After runs fn once, d after now.
	After(d time.Duration, fn func()) Cancel
	// Every runs fn every d, starting d after now. It panics if d <= 0.
	Every(d time.Duration, fn func()) Cancel
}

type timer struct {
	when   time.Duration
	period time.Duration
	seq    uint64
	fn     func()
	index  int
}

// timerQueue orders timers by due time, then by scheduling order.
type timerQueue []*timer

func (q timerQueue) Len() int { return len(q) }

func (q timerQueue) Less(i, j int) bool {
	if q[i].when != q[j].when {
		return q[i].when < q[j].when
	}
	return q[i].seq < q[j].seq
}

func (q timerQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *timerQueue) Push(x any) {
	t := x.(*timer)
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *timerQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*q = old[:n-1]
	return t
}

// clock is the queue bookkeeping shared by Loop and Manual.
type clock struct {
	mu    sync.Mutex
	queue timerQueue
	seq   uint64
}

func (c *clock) add(when, period time.Duration, fn func()) *timer {
	t := &timer{when: when, period: period, seq: c.seq, fn: fn}
	c.seq++
	heap.Push(&c.queue, t)
	return t
}

func (c *clock) cancel(t *timer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t.index >= 0 {
		heap.Remove(&c.queue, t.index)
	}
}

// popDue removes the next timer due at or before limit, re-queueing it when
// periodic. It must be called with mu held.
func (c *clock) popDue(limit time.Duration) (*timer, bool) {
	if len(c.queue) == 0 || c.queue[0].when > limit {
		return nil, false
	}
	t := heap.Pop(&c.queue).(*timer)
	due := *t
	if t.period > 0 {
		t.when += t.period
		t.seq = c.seq
		c.seq++
		heap.Push(&c.queue, t)
	}
	return &due, true
}

// Loop is a real-time Scheduler. All callbacks run on a single goroutine.
type Loop struct {
	clock
	start time.Time
	wake  chan struct{}
	done  chan struct{}
	once  sync.Once
}

// NewLoop starts a scheduler goroutine. Call Close to stop it.
func NewLoop() *Loop {
	l := &Loop{
		start: time.Now(),
		wake:  make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
	go l.run()
	return l
}

// After implements Scheduler.
func (l *Loop) After(d time.Duration, fn func()) Cancel {
	return l.schedule(d, 0, fn)
}

// Every implements Scheduler.
func (l *Loop) Every(d time.Duration, fn func()) Cancel {
	if d <= 0 {
		panic("state: non-positive interval for Every")
	}
	return l.schedule(d, d, fn)
}

// Close stops the loop. Pending callbacks are dropped.
func (l *Loop) Close() {
	l.once.Do(func() { close(l.done) })
}

func (l *Loop) schedule(d, period time.Duration, fn func()) Cancel {
	l.mu.Lock()
	t := l.add(l.now()+d, period, fn)
	l.mu.Unlock()
	l.signal()
	return func() { l.cancel(t) }
}

func (l *Loop) now() time.Duration {
	return time.Since(l.start)
}

func (l *Loop) signal() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func (l *Loop) run() {
	for {
		l.mu.Lock()
		if t, ok := l.popDue(l.now()); ok {
			l.mu.Unlock()
			t.fn()
			continue
		}
		var tm *time.Timer
		var wait <-chan time.Time
		if len(l.queue) > 0 {
			tm = time.NewTimer(l.queue[0].when - l.now())
			wait = tm.C
		}
		l.mu.Unlock()

		select {
		case <-l.done:
			if tm != nil {
				tm.Stop()
			}
			return
		case <-l.wake:
		case <-wait:
		}
		if tm != nil {
			tm.Stop()
		}
	}
}

// Manual is a Scheduler driven by virtual time. Nothing runs until Advance is
// called; callbacks then run on the calling goroutine.
type Manual struct {
	clock
	now time.Duration
}

// NewManual creates a scheduler at virtual time zero.
func NewManual() *Manual {
	return &Manual{}
}

// After implements Scheduler.
func (m *Manual) After(d time.Duration, fn func()) Cancel {
	return m.schedule(d, 0, fn)
}

// Every implements Scheduler.
func (m *Manual) Every(d time.Duration, fn func()) Cancel {
	if d <= 0 {
		panic("state: non-positive interval for Every")
	}
	return m.schedule(d, d, fn)
}

func (m *Manual) schedule(d, period time.Duration, fn func()) Cancel {
	m.mu.Lock()
	t := m.add(m.now+d, period, fn)
	m.mu.Unlock()
	return func() { m.cancel(t) }
}

// Now returns the current virtual time.
func (m *Manual) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Pending returns the number of scheduled callbacks.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

// Advance moves virtual time forward by d, running every callback that falls
// due on the way, including ones scheduled by earlier callbacks.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now + d
	m.mu.Unlock()
	for {
		m.mu.Lock()
		t, ok := m.popDue(target)
		if !ok {
			m.now = target
			m.mu.Unlock()
			return
		}
		m.now = t.when
		m.mu.Unlock()
		t.fn()
	}
}
