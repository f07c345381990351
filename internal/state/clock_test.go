package state

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManual_AfterRunsWhenDue(t *testing.T) {
	m := NewManual()
	var fired []time.Duration
	m.After(20*time.Millisecond, func() { fired = append(fired, m.Now()) })

	m.Advance(10 * time.Millisecond)
	assert.Empty(t, fired)

	m.Advance(10 * time.Millisecond)
	assert.Equal(t, []time.Duration{20 * time.Millisecond}, fired)
	assert.Equal(t, 0, m.Pending())
}

func TestManual_EveryKeepsCadence(t *testing.T) {
	m := NewManual()
	var fired []time.Duration
	cancel := m.Every(10*time.Millisecond, func() { fired = append(fired, m.Now()) })

	m.Advance(35 * time.Millisecond)
	assert.Equal(t, []time.Duration{10 * time.Millisecond, 20 * time.Millisecond, 30 * time.Millisecond}, fired)

	cancel()
	cancel()
	m.Advance(50 * time.Millisecond)
	assert.Len(t, fired, 3)
	assert.Equal(t, 85*time.Millisecond, m.Now())
}

func TestManual_OrderIsStable(t *testing.T) {
	m := NewManual()
	var order []string
	m.After(5*time.Millisecond, func() { order = append(order, "a") })
	m.After(5*time.Millisecond, func() { order = append(order, "b") })
	m.After(1*time.Millisecond, func() { order = append(order, "c") })

	m.Advance(5 * time.Millisecond)
	assert.Equal(t, []string{"c", "a", "b"}, order)
}

func TestManual_CallbacksCanReschedule(t *testing.T) {
	m := NewManual()
	count := 0
	var step func()
	step = func() {
		count++
		if count < 4 {
			m.After(10*time.Millisecond, step)
		}
	}
	m.After(0, step)

	m.Advance(30 * time.Millisecond)
	assert.Equal(t, 4, count)
}

func TestManual_CancelledNeverRuns(t *testing.T) {
	m := NewManual()
	ran := false
	cancel := m.After(time.Millisecond, func() { ran = true })
	cancel()

	m.Advance(time.Second)
	assert.False(t, ran)
}

func TestManual_EveryPanicsOnZero(t *testing.T) {
	assert.Panics(t, func() { NewManual().Every(0, func() {}) })
}

func TestLoop_RunsCallbacksInOrder(t *testing.T) {
	l := NewLoop()
	defer l.Close()

	var mu sync.Mutex
	var order []int
	done := make(chan struct{})
	for i := 0; i < 3; i++ {
		i := i
		l.After(time.Duration(3-i)*time.Millisecond, func() {
			mu.Lock()
			order = append(order, i)
			n := len(order)
			mu.Unlock()
			if n == 3 {
				close(done)
			}
		})
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("callbacks did not run")
	}
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{2, 1, 0}, order)
}

func TestLoop_EveryUntilCancelled(t *testing.T) {
	l := NewLoop()
	defer l.Close()

	ticks := make(chan struct{}, 16)
	cancel := l.Every(time.Millisecond, func() {
		select {
		case ticks <- struct{}{}:
		default:
		}
	})

	for i := 0; i < 3; i++ {
		select {
		case <-ticks:
		case <-time.After(2 * time.Second):
			t.Fatal("tick did not arrive")
		}
	}
	cancel()
	require.Eventually(t, func() bool {
		l.mu.Lock()
		defer l.mu.Unlock()
		return len(l.queue) == 0
	}, time.Second, time.Millisecond)
}
