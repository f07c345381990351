// Package canvas records free-hand drawing as a compact event log and plays
// it back onto a Surface.
//
// A Canvas owns one state.Document (command table plus recording). Pointer
// input is sampled at a fixed interval while the pointer is down, each sample
// becoming a line event; style changes become references into the command
// table. Replay walks the log at the same interval, so playback runs at the
// speed the drawing was captured.
//
// The surface has a single owner at a time: capture (while drawing) or
// replay. Starting one while the other holds the surface fails with
// ErrSurfaceBusy.
package canvas

import (
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"Doodler/internal/logging"
	"Doodler/internal/state"

	"github.com/google/uuid"
)

const (
	// DefaultInterval is the capture sampling and replay period.
	DefaultInterval = 10 * time.Millisecond
	// DefaultColor and DefaultWidth are applied to the surface on creation.
	DefaultColor = "black"
	DefaultWidth = 1.0
)

var (
	// ErrReadOnly is returned when pointer input reaches a read-only canvas.
	ErrReadOnly = fmt.Errorf("%w: canvas is read-only", state.ErrUsage)
	// ErrSurfaceBusy is returned when capture and replay would share the surface.
	ErrSurfaceBusy = fmt.Errorf("%w: surface is owned by another activity", state.ErrUsage)
	// ErrClosed is returned when capture or replay is started after Close.
	ErrClosed = fmt.Errorf("%w: canvas is closed", state.ErrUsage)
)

// Mode is the capture state.
type Mode int

const (
	Idle Mode = iota
	Drawing
)

func (m Mode) String() string {
	if m == Drawing {
		return "drawing"
	}
	return "idle"
}

type owner int

const (
	ownerNone owner = iota
	ownerCapture
	ownerReplay
)

// Option configures a Canvas.
type Option func(*options)

type options struct {
	id          string
	width       float64
	height      float64
	readOnly    bool
	interval    time.Duration
	scheduler   state.Scheduler
	logger      *slog.Logger
	viewport    state.Viewport
	hasViewport bool
}

// WithID sets the canvas identifier. A random UUID is used otherwise.
func WithID(id string) Option {
	return func(o *options) { o.id = id }
}

// WithSize sets the surface's backing size, used by Erase and as the default
// viewport.
func WithSize(width, height int) Option {
	return func(o *options) {
		o.width = float64(width)
		o.height = float64(height)
	}
}

// ReadOnly makes the canvas reject pointer input.
func ReadOnly() Option {
	return func(o *options) { o.readOnly = true }
}

// WithInterval sets the sampling and replay period. Non-positive values are
// ignored.
func WithInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.interval = d
		}
	}
}

// WithScheduler sets the tick source. Without it the canvas runs its own
// state.Loop, stopped by Close.
func WithScheduler(s state.Scheduler) Option {
	return func(o *options) { o.scheduler = s }
}

// WithLogger sets the logger. Logging is disabled by default.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithViewport sets how page coordinates map onto the surface.
func WithViewport(v state.Viewport) Option {
	return func(o *options) {
		o.viewport = v
		o.hasViewport = true
	}
}

// Canvas is the drawing state machine and replay engine for one surface.
// It is safe for concurrent use.
type Canvas struct {
	mu       sync.Mutex
	id       string
	surface  Surface
	width    float64
	height   float64
	readOnly bool
	interval time.Duration
	sched    state.Scheduler
	ownLoop  *state.Loop
	log      *slog.Logger
	doc      *state.Document
	mode     Mode
	owner    owner
	closed   bool

	viewport         state.Viewport
	scrollX, scrollY float64
	latest           state.Point
	prev, cur        *state.Point
	stopSampling     state.Cancel
	sampleGen        uint64
	playback         *Playback

	// OnEvent receives the token of every appended event and of every new
	// command table entry, in order. Hooks run with the canvas locked and
	// must not call back into it.
	OnEvent func(token string)
	// OnReset receives the full document after NewRecording or LoadRecording.
	OnReset func(doc string)
	// OnErase is called after Erase.
	OnErase func()
}

// New initializes a canvas over surface.
func New(surface Surface, opts ...Option) *Canvas {
	o := options{interval: DefaultInterval}
	for _, opt := range opts {
		opt(&o)
	}
	if o.id == "" {
		o.id = uuid.NewString()
	}
	if o.logger == nil {
		o.logger = logging.NewNop()
	}
	c := &Canvas{
		id:       o.id,
		surface:  surface,
		width:    o.width,
		height:   o.height,
		readOnly: o.readOnly,
		interval: o.interval,
		sched:    o.scheduler,
		log:      o.logger.With("canvas", o.id),
		doc:      state.NewDocument(),
		viewport: o.viewport,
	}
	if c.sched == nil {
		c.ownLoop = state.NewLoop()
		c.sched = c.ownLoop
	}
	if !o.hasViewport {
		c.viewport = state.Viewport{BackingWidth: o.width, BackingHeight: o.height}
	}

	surface.SetStrokeStyle(DefaultColor)
	surface.SetLineWidth(DefaultWidth)
	c.log.Debug("canvas initialized", "width", o.width, "height", o.height, "read_only", o.readOnly)
	return c
}

// ID returns the canvas identifier.
func (c *Canvas) ID() string { return c.id }

// Interval returns the sampling and replay period.
func (c *Canvas) Interval() time.Duration { return c.interval }

// ReadOnly reports whether pointer input is rejected.
func (c *Canvas) ReadOnly() bool { return c.readOnly }

// Mode returns the capture state.
func (c *Canvas) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// Close stops sampling and any running replay, and the canvas' own
// scheduler if it started one. Capture and replay cannot be started again.
func (c *Canvas) Close() {
	c.mu.Lock()
	c.closed = true
	if c.mode == Drawing {
		c.stopCapture()
	}
	if p := c.playback; p != nil {
		c.finish(p, ErrReplayCancelled)
	}
	c.mu.Unlock()
	if c.ownLoop != nil {
		c.ownLoop.Close()
	}
}

// Line draws a segment and records it with floored coordinates.
func (c *Canvas) Line(x1, y1, x2, y2 float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.owner == ownerReplay {
		return ErrSurfaceBusy
	}
	c.line(x1, y1, x2, y2)
	return nil
}

func (c *Canvas) line(x1, y1, x2, y2 float64) {
	c.append(state.LineEvent(x1, y1, x2, y2))
	drawLine(c.surface, x1, y1, x2, y2)
}

// RegisterStrokeColor adds color to the command table without using it.
func (c *Canvas) RegisterStrokeColor(color string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.register(state.KindStrokeColor, color)
}

// RegisterStrokeWidth adds width to the command table without using it.
func (c *Canvas) RegisterStrokeWidth(width float64) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.register(state.KindStrokeWidth, formatWidth(width))
}

// SetStrokeColor applies color and records the change. Unregistered colours
// are registered first.
func (c *Canvas) SetStrokeColor(color string) error {
	return c.setStyle(state.KindStrokeColor, color)
}

// SetStrokeWidth applies width and records the change. Unregistered widths
// are registered first.
func (c *Canvas) SetStrokeWidth(width float64) error {
	return c.setStyle(state.KindStrokeWidth, formatWidth(width))
}

func (c *Canvas) setStyle(kind state.Kind, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.owner == ownerReplay {
		return ErrSurfaceBusy
	}
	index, err := c.register(kind, value)
	if err != nil {
		return err
	}
	cmd, err := c.doc.Table.Get(index)
	if err != nil {
		return err
	}
	c.applyCommand(cmd)
	c.append(state.CommandEvent(index))
	return nil
}

// register adds a table entry and announces it when it is new.
func (c *Canvas) register(kind state.Kind, value string) (int, error) {
	before := c.doc.Table.Len()
	index, err := c.doc.Table.Register(kind, value)
	if err != nil {
		return 0, err
	}
	if c.doc.Table.Len() > before {
		cmd, _ := c.doc.Table.Get(index)
		c.emit(cmd.String())
	}
	return index, nil
}

func (c *Canvas) append(ev state.Event) {
	c.doc.Recording.Append(ev)
	c.emit(ev.String())
}

func (c *Canvas) emit(token string) {
	if c.OnEvent != nil {
		c.OnEvent(token)
	}
}

// NewRecording discards the recorded events. Table entries are kept so that
// later style changes keep their indices.
func (c *Canvas) NewRecording() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.doc.Recording.Reset()
	c.log.Info("recording started")
	c.reset()
}

// LoadRecording replaces the recording with the one decoded from s. If s
// carries table definitions they replace the command table too. Nothing is
// installed when s is malformed.
func (c *Canvas) LoadRecording(s string) error {
	doc, err := state.ParseDocument(s)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if doc.Table.Len() > 0 {
		c.doc.Table = doc.Table
	}
	c.doc.Recording = doc.Recording
	c.log.Info("recording loaded", "events", doc.Recording.Len(), "commands", c.doc.Table.Len())
	c.reset()
	return nil
}

func (c *Canvas) reset() {
	if c.OnReset != nil {
		c.OnReset(c.doc.String())
	}
}

// String returns the document: table definitions followed by the events.
func (c *Canvas) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.doc.String()
}

// Events returns the recorded events.
func (c *Canvas) Events() []state.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.doc.Recording.Events()
}

// Commands returns the command table entries in index order.
func (c *Canvas) Commands() []state.Command {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.doc.Table.Commands()
}

// Apply decodes one token from a live stream: a table definition is
// registered, an event is drawn and appended.
func (c *Canvas) Apply(raw string) error {
	tok, err := state.ParseToken(raw)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.owner == ownerReplay {
		return ErrSurfaceBusy
	}
	if tok.Definition {
		want := c.doc.Table.Len()
		index, err := c.register(tok.Command.Kind, tok.Command.Value)
		if err != nil {
			return err
		}
		if index != want {
			return fmt.Errorf("%w: definition %q out of sequence", state.ErrFormat, raw)
		}
		return nil
	}
	if err := c.render(tok.Event); err != nil {
		return err
	}
	c.append(tok.Event)
	return nil
}

// Erase clears the surface. The recording is not touched.
func (c *Canvas) Erase() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.owner == ownerReplay {
		return ErrSurfaceBusy
	}
	c.surface.ClearRect(0, 0, c.width, c.height)
	if c.OnErase != nil {
		c.OnErase()
	}
	return nil
}

// Translate shifts subsequent drawing by (x, y) until UndoTranslate.
func (c *Canvas) Translate(x, y float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.owner == ownerReplay {
		return ErrSurfaceBusy
	}
	c.surface.Save()
	c.surface.Translate(x, y)
	return nil
}

// UndoTranslate restores the translation active before the last Translate.
func (c *Canvas) UndoTranslate() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.owner == ownerReplay {
		return ErrSurfaceBusy
	}
	c.surface.Restore()
	return nil
}

// render applies an event to the surface without recording it.
func (c *Canvas) render(ev state.Event) error {
	switch ev.Type {
	case state.EventLine:
		l := ev.Line
		drawLine(c.surface, float64(l.X1), float64(l.Y1), float64(l.X2), float64(l.Y2))
	case state.EventCommand:
		cmd, err := c.doc.Resolve(ev)
		if err != nil {
			return err
		}
		c.applyCommand(cmd)
	}
	return nil
}

func (c *Canvas) applyCommand(cmd state.Command) {
	switch cmd.Kind {
	case state.KindStrokeColor:
		c.surface.SetStrokeStyle(cmd.Value)
	case state.KindStrokeWidth:
		c.surface.SetLineWidth(cmd.Width())
	}
}

func formatWidth(w float64) string {
	return strconv.FormatFloat(w, 'f', -1, 64)
}
