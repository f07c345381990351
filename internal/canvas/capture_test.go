package canvas

import (
	"testing"

	"Doodler/internal/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lineEvent(x1, y1, x2, y2 int) state.Event {
	return state.Event{Type: state.EventLine, Line: state.Line{X1: x1, Y1: y1, X2: x2, Y2: y2}}
}

func TestPointerDown_StationaryPointerDrawsDots(t *testing.T) {
	c, _, clock := newTestCanvas(t)

	require.NoError(t, c.PointerDown(10, 10))
	assert.Equal(t, Drawing, c.Mode())
	clock.Advance(3 * tick)
	c.PointerUp()

	dot := lineEvent(10, 10, 10, 10)
	assert.Equal(t, []state.Event{dot, dot, dot}, c.Events())
	assert.Equal(t, Idle, c.Mode())
}

func TestCapture_FollowsPointer(t *testing.T) {
	c, surface, clock := newTestCanvas(t)

	require.NoError(t, c.PointerDown(0, 0))
	c.PointerMove(5, 5)
	clock.Advance(tick)
	c.PointerMove(8, 9)
	clock.Advance(tick)
	c.PointerMove(12.7, 9.2)
	clock.Advance(tick)
	c.PointerUp()

	assert.Equal(t, []state.Event{
		lineEvent(5, 5, 5, 5),
		lineEvent(5, 5, 8, 9),
		lineEvent(8, 9, 12, 9),
	}, c.Events())
	assert.Len(t, surface.ops("stroke"), 3)
}

func TestCapture_MovesBetweenTicksAreNotEvents(t *testing.T) {
	c, _, clock := newTestCanvas(t)

	require.NoError(t, c.PointerDown(0, 0))
	for i := 0; i < 20; i++ {
		c.PointerMove(float64(i), float64(i))
	}
	assert.Empty(t, c.Events())

	clock.Advance(tick)
	assert.Equal(t, []state.Event{lineEvent(19, 19, 19, 19)}, c.Events())
}

func TestPointerUp_StopsSampling(t *testing.T) {
	c, surface, clock := newTestCanvas(t)

	require.NoError(t, c.PointerDown(1, 1))
	clock.Advance(tick)
	surface.reset()
	c.PointerUp()
	clock.Advance(10 * tick)

	assert.Len(t, c.Events(), 1)
	assert.Equal(t, 0, clock.Pending())
	assert.Equal(t, []string{"beginPath"}, opNames(surface.ops("beginPath", "stroke")))
}

func TestPointerUp_WhenIdleIsNoop(t *testing.T) {
	c, surface, _ := newTestCanvas(t)
	surface.reset()

	c.PointerUp()

	assert.Empty(t, surface.ops("beginPath"))
}

func TestPointerDown_WhileDrawingIsIgnored(t *testing.T) {
	c, _, clock := newTestCanvas(t)

	require.NoError(t, c.PointerDown(1, 1))
	require.NoError(t, c.PointerDown(50, 50))
	clock.Advance(tick)

	assert.Equal(t, []state.Event{lineEvent(1, 1, 1, 1)}, c.Events())
	assert.Equal(t, 1, clock.Pending())
}

func TestPointerDown_StartsPath(t *testing.T) {
	c, surface, _ := newTestCanvas(t)
	surface.reset()

	require.NoError(t, c.PointerDown(3, 4))

	assert.Equal(t, []call{
		{Op: "beginPath"},
		{Op: "moveTo", Args: "3,4"},
	}, surface.ops("beginPath", "moveTo"))
}

func TestPointerDown_MapsThroughViewport(t *testing.T) {
	c, surface, clock := newTestCanvas(t, WithViewport(state.Viewport{
		Left: 5, Top: 10,
		DisplayWidth: 100, DisplayHeight: 50,
		BackingWidth: 200, BackingHeight: 100,
	}))
	c.SetScroll(1, 2)
	surface.reset()

	require.NoError(t, c.PointerDown(56, 37))
	clock.Advance(tick)

	assert.Equal(t, []call{{Op: "moveTo", Args: "100,50"}}, surface.ops("moveTo")[:1])
	assert.Equal(t, []state.Event{lineEvent(100, 50, 100, 50)}, c.Events())
}

func TestSetViewport(t *testing.T) {
	c, _, clock := newTestCanvas(t)
	c.SetViewport(state.Viewport{Left: 10, Top: 10})

	require.NoError(t, c.PointerDown(15, 20))
	clock.Advance(tick)

	assert.Equal(t, []state.Event{lineEvent(5, 10, 5, 10)}, c.Events())
}

func TestPointerDown_ReadOnly(t *testing.T) {
	c, surface, clock := newTestCanvas(t, ReadOnly())
	surface.reset()

	assert.ErrorIs(t, c.PointerDown(1, 1), ErrReadOnly)
	assert.ErrorIs(t, c.PointerDown(1, 1), state.ErrUsage)
	clock.Advance(5 * tick)

	assert.True(t, c.ReadOnly())
	assert.Equal(t, Idle, c.Mode())
	assert.Empty(t, c.Events())
	assert.Empty(t, surface.ops("beginPath", "moveTo"))
}

func TestCapture_StyleChangesInterleave(t *testing.T) {
	c, _, clock := newTestCanvas(t)

	require.NoError(t, c.PointerDown(2, 2))
	clock.Advance(tick)
	require.NoError(t, c.SetStrokeColor("red"))
	clock.Advance(tick)
	c.PointerUp()

	assert.Equal(t, "sred;l2,2,2,2;c0;l2,2,2,2", c.String())
}

func TestCapture_EmitsTokensLive(t *testing.T) {
	c, _, clock := newTestCanvas(t)
	var tokens []string
	c.OnEvent = func(tok string) { tokens = append(tokens, tok) }

	require.NoError(t, c.PointerDown(4, 4))
	c.PointerMove(6, 4)
	clock.Advance(2 * tick)
	c.PointerUp()

	assert.Equal(t, []string{"l6,4,6,4", "l6,4,6,4"}, tokens)
}

func opNames(calls []call) []string {
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.Op
	}
	return out
}
