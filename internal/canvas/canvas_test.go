package canvas

import (
	"testing"
	"time"

	"Doodler/internal/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tick = DefaultInterval

func newTestCanvas(t *testing.T, opts ...Option) (*Canvas, *fakeSurface, *state.Manual) {
	t.Helper()
	clock := state.NewManual()
	surface := newFakeSurface(clock)
	opts = append([]Option{WithScheduler(clock), WithSize(200, 100), WithID("test")}, opts...)
	c := New(surface, opts...)
	t.Cleanup(c.Close)
	return c, surface, clock
}

func TestNew_InitializesSurface(t *testing.T) {
	c, surface, _ := newTestCanvas(t)

	assert.Equal(t, "test", c.ID())
	assert.Equal(t, Idle, c.Mode())
	assert.Equal(t, []call{
		{Op: "strokeStyle", Args: "black"},
		{Op: "lineWidth", Args: "1"},
	}, surface.ops("strokeStyle", "lineWidth"))
}

func TestNew_GeneratesID(t *testing.T) {
	a := New(newFakeSurface(nil), WithScheduler(state.NewManual()))
	b := New(newFakeSurface(nil), WithScheduler(state.NewManual()))

	assert.NotEmpty(t, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestLine_FloorsRecordedCoordinates(t *testing.T) {
	c, surface, _ := newTestCanvas(t)
	_, err := c.RegisterStrokeColor("black")
	require.NoError(t, err)
	require.NoError(t, c.SetStrokeColor("black"))

	require.NoError(t, c.Line(1.4, 2.9, 5.1, 5.9))

	assert.Equal(t, "sblack;c0;l1,2,5,5", c.String())
	// drawing uses the unrounded coordinates
	assert.Equal(t, []call{{Op: "lineTo", Args: "5.1,5.9"}}, surface.ops("lineTo"))
}

func TestSetStrokeColor_AutoRegisters(t *testing.T) {
	c, surface, _ := newTestCanvas(t)
	surface.reset()

	require.NoError(t, c.SetStrokeColor("red"))
	require.NoError(t, c.SetStrokeWidth(4))
	require.NoError(t, c.SetStrokeColor("red"))

	assert.Equal(t, []state.Command{
		{Kind: state.KindStrokeColor, Value: "red"},
		{Kind: state.KindStrokeWidth, Value: "4"},
	}, c.Commands())
	assert.Equal(t, []state.Event{state.CommandEvent(0), state.CommandEvent(1), state.CommandEvent(0)}, c.Events())
	assert.Equal(t, []call{
		{Op: "strokeStyle", Args: "red"},
		{Op: "lineWidth", Args: "4"},
		{Op: "strokeStyle", Args: "red"},
	}, surface.ops("strokeStyle", "lineWidth"))
}

func TestSetStrokeWidth_RejectsInvalid(t *testing.T) {
	c, _, _ := newTestCanvas(t)

	assert.ErrorIs(t, c.SetStrokeWidth(0), state.ErrUsage)
	assert.ErrorIs(t, c.SetStrokeColor(""), state.ErrUsage)
	assert.Empty(t, c.Events())
}

func TestRegister_DoesNotRecord(t *testing.T) {
	c, _, _ := newTestCanvas(t)

	i, err := c.RegisterStrokeColor("blue")
	require.NoError(t, err)
	j, err := c.RegisterStrokeWidth(2)
	require.NoError(t, err)

	assert.Equal(t, 0, i)
	assert.Equal(t, 1, j)
	assert.Empty(t, c.Events())
	assert.Equal(t, "sblue;w2", c.String())
}

func TestOnEvent_ReceivesDefinitionsAndEvents(t *testing.T) {
	c, _, _ := newTestCanvas(t)
	var tokens []string
	c.OnEvent = func(tok string) { tokens = append(tokens, tok) }

	require.NoError(t, c.SetStrokeColor("green"))
	require.NoError(t, c.Line(0, 0, 3, 4))
	require.NoError(t, c.SetStrokeColor("green"))

	assert.Equal(t, []string{"sgreen", "c0", "l0,0,3,4", "c0"}, tokens)
}

func TestNewRecording_KeepsTable(t *testing.T) {
	c, _, _ := newTestCanvas(t)
	var resets []string
	c.OnReset = func(doc string) { resets = append(resets, doc) }

	require.NoError(t, c.SetStrokeColor("red"))
	require.NoError(t, c.Line(0, 0, 1, 1))
	c.NewRecording()

	assert.Empty(t, c.Events())
	assert.Len(t, c.Commands(), 1)
	assert.Equal(t, []string{"sred"}, resets)
}

func TestLoadRecording(t *testing.T) {
	c, _, _ := newTestCanvas(t)
	require.NoError(t, c.SetStrokeColor("red"))

	require.NoError(t, c.LoadRecording("sblue;w3;c1;l1,1,2,2"))
	assert.Equal(t, "sblue;w3;c1;l1,1,2,2", c.String())

	// event-only strings keep the current table
	require.NoError(t, c.LoadRecording("c0;l5,5,6,6"))
	assert.Equal(t, "sblue;w3;c0;l5,5,6,6", c.String())
}

func TestLoadRecording_IsAtomic(t *testing.T) {
	c, _, _ := newTestCanvas(t)
	require.NoError(t, c.LoadRecording("sred;c0;l1,1,2,2"))

	assert.ErrorIs(t, c.LoadRecording("sblue;c0;l1,1"), state.ErrFormat)
	assert.ErrorIs(t, c.LoadRecording("sblue;c4"), state.ErrLookup)
	assert.Equal(t, "sred;c0;l1,1,2,2", c.String())
}

func TestErase_KeepsRecording(t *testing.T) {
	c, surface, _ := newTestCanvas(t)
	erased := false
	c.OnErase = func() { erased = true }
	require.NoError(t, c.Line(0, 0, 10, 10))

	require.NoError(t, c.Erase())

	assert.True(t, erased)
	assert.Equal(t, []call{{Op: "clearRect", Args: "0,0,200,100"}}, surface.ops("clearRect"))
	assert.Len(t, c.Events(), 1)
}

func TestTranslate(t *testing.T) {
	c, surface, _ := newTestCanvas(t)
	surface.reset()

	require.NoError(t, c.Translate(5, 7))
	require.NoError(t, c.UndoTranslate())

	assert.Equal(t, []call{
		{Op: "save"},
		{Op: "translate", Args: "5,7"},
		{Op: "restore"},
	}, surface.ops("save", "translate", "restore"))
	assert.Empty(t, c.Events())
}

func TestApply_MirrorsAnotherCanvas(t *testing.T) {
	host, _, _ := newTestCanvas(t)
	viewer, viewerSurface, _ := newTestCanvas(t, ReadOnly())
	viewerSurface.reset()

	var applyErr error
	host.OnEvent = func(tok string) {
		if err := viewer.Apply(tok); err != nil && applyErr == nil {
			applyErr = err
		}
	}

	require.NoError(t, host.SetStrokeColor("red"))
	require.NoError(t, host.SetStrokeWidth(3))
	require.NoError(t, host.Line(1, 1, 9, 9))
	require.NoError(t, host.SetStrokeColor("red"))

	require.NoError(t, applyErr)
	assert.Equal(t, host.String(), viewer.String())
	assert.Len(t, viewerSurface.ops("stroke"), 1)
	assert.Len(t, viewerSurface.ops("strokeStyle"), 2)
}

func TestApply_Errors(t *testing.T) {
	c, _, _ := newTestCanvas(t)

	assert.ErrorIs(t, c.Apply("c0"), state.ErrLookup)
	assert.ErrorIs(t, c.Apply("q"), state.ErrFormat)

	require.NoError(t, c.SetStrokeColor("red"))
	assert.ErrorIs(t, c.Apply("sred"), state.ErrFormat)
	assert.Len(t, c.Events(), 1)
}

func TestRedraw(t *testing.T) {
	c, surface, _ := newTestCanvas(t)
	require.NoError(t, c.LoadRecording("sred;c0;l1,2,3,4;l3,4,5,6"))
	surface.reset()

	require.NoError(t, c.Redraw())

	assert.Len(t, surface.ops("stroke"), 2)
	assert.Equal(t, []call{{Op: "strokeStyle", Args: "red"}}, surface.ops("strokeStyle"))
}

func TestRedraw_ReportsLookupError(t *testing.T) {
	c, _, _ := newTestCanvas(t)
	require.NoError(t, c.LoadRecording("l1,2,3,4;c7"))

	err := c.Redraw()
	assert.ErrorIs(t, err, state.ErrLookup)
	assert.Contains(t, err.Error(), "event 1")
}

func TestClose_RefusesNewActivity(t *testing.T) {
	c := New(newFakeSurface(nil), WithInterval(time.Millisecond))
	require.NoError(t, c.LoadRecording("l1,1,2,2"))
	c.Close()

	_, err := c.Replay()
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, c.PointerDown(1, 1), ErrClosed)
	assert.Equal(t, Idle, c.Mode())
	assert.NoError(t, c.Redraw())
}

func TestClose_IsSafeWithOwnLoop(t *testing.T) {
	c := New(newFakeSurface(nil), WithInterval(time.Millisecond))
	require.NoError(t, c.PointerDown(1, 1))
	c.Close()
	assert.Equal(t, Idle, c.Mode())
}
