package ui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	doodle "Doodler/internal/canvas"
	"Doodler/internal/export"
	"Doodler/internal/logging"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// Options configures a Window.
type Options struct {
	Title   string
	Width   int
	Height  int
	Palette []string
	Logger  *slog.Logger
	// ReadOnly leaves out the editing tools.
	ReadOnly bool
}

// Window is the application window around one board and its Canvas.
type Window struct {
	app    fyne.App
	win    fyne.Window
	board  *BoardWidget
	canvas *doodle.Canvas
	status *widget.Label
	log    *slog.Logger
	opts   Options
}

// NewWindow creates the window. c must draw onto board.
func NewWindow(board *BoardWidget, c *doodle.Canvas, opts Options) *Window {
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	a := app.NewWithID("io.doodler")
	w := &Window{
		app:    a,
		win:    a.NewWindow(opts.Title),
		board:  board,
		canvas: c,
		status: widget.NewLabel("Ready"),
		log:    opts.Logger,
		opts:   opts,
	}
	board.Attach(c)
	board.OnError = w.showError

	toolbar := NewToolbar(opts.Palette, w.actions())
	content := container.NewBorder(toolbar, w.status, nil, nil, container.NewScroll(board))
	w.win.SetContent(content)
	w.win.Resize(fyne.NewSize(float32(opts.Width)+40, float32(opts.Height)+120))
	return w
}

// ShowAndRun shows the window and runs the event loop until it is closed.
func (w *Window) ShowAndRun() {
	w.win.ShowAndRun()
}

// Quit closes the window and ends ShowAndRun. It may be called from any
// goroutine.
func (w *Window) Quit() {
	fyne.Do(w.app.Quit)
}

// SetStatus updates the status line. It may be called from any goroutine.
func (w *Window) SetStatus(text string) {
	fyne.Do(func() { w.status.SetText(text) })
}

func (w *Window) showError(err error) {
	w.log.Error("board error", "error", err)
	fyne.Do(func() { dialog.ShowError(err, w.win) })
}

func (w *Window) actions() Actions {
	a := Actions{
		Save:   w.save,
		Export: w.exportImage,
	}
	if w.opts.ReadOnly {
		return a
	}
	a.Replay = w.replay
	a.SetColor = func(name string) { w.check(w.canvas.SetStrokeColor(name)) }
	a.SetWidth = func(width float64) { w.check(w.canvas.SetStrokeWidth(width)) }
	a.New = func() {
		w.canvas.NewRecording()
		w.check(w.canvas.Erase())
		w.SetStatus("New recording")
	}
	a.Erase = func() { w.check(w.canvas.Erase()) }
	a.Open = w.open
	return a
}

func (w *Window) check(err error) {
	if err != nil {
		w.showError(err)
	}
}

func (w *Window) replay() {
	if err := w.canvas.Erase(); err != nil {
		w.showError(err)
		return
	}
	p, err := w.canvas.Replay()
	if err != nil {
		w.showError(err)
		return
	}
	w.SetStatus(fmt.Sprintf("Replaying %d events", p.Len()))
	go func() {
		if err := p.Wait(context.Background()); err != nil {
			w.showError(err)
			return
		}
		w.SetStatus("Replay finished")
	}()
}

func (w *Window) save() {
	dialog.ShowFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()
		if _, err := io.WriteString(writer, w.canvas.String()); err != nil {
			w.showError(err)
			return
		}
		w.log.Info("recording saved", "uri", writer.URI().String())
		w.SetStatus("Saved " + writer.URI().Name())
	}, w.win)
}

func (w *Window) open() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()
		data, err := io.ReadAll(reader)
		if err != nil {
			w.showError(err)
			return
		}
		if err := w.canvas.LoadRecording(strings.TrimSpace(string(data))); err != nil {
			w.showError(err)
			return
		}
		w.check(w.canvas.Erase())
		w.check(w.canvas.Redraw())
		w.SetStatus("Opened " + reader.URI().Name())
	}, w.win)
}

// exportImage writes the drawing as PNG, or PDF when the chosen name ends in .pdf.
func (w *Window) exportImage() {
	dialog.ShowFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()
		doc := w.canvas.String()
		if strings.EqualFold(writer.URI().Extension(), ".pdf") {
			s := export.NewPDFSurface(w.opts.Width, w.opts.Height)
			if err := export.Render(doc, s, w.opts.Width, w.opts.Height); err != nil {
				w.showError(err)
				return
			}
			w.check(s.Output(writer))
		} else {
			s := export.NewRasterSurface(w.opts.Width, w.opts.Height)
			defer s.Close()
			if err := export.Render(doc, s, w.opts.Width, w.opts.Height); err != nil {
				w.showError(err)
				return
			}
			w.check(s.EncodePNG(writer))
		}
		w.SetStatus("Exported " + writer.URI().Name())
	}, w.win)
}
