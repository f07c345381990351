package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"Doodler/internal/canvas"
	"Doodler/internal/state"
)

// ErrUnsupportedFormat is returned by WriteFile for unknown file extensions.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// Render draws a serialized document onto surface in one pass, without the
// replay cadence.
func Render(doc string, surface canvas.Surface, width, height int) error {
	c := canvas.New(surface,
		canvas.WithSize(width, height),
		canvas.WithScheduler(state.NewManual()),
		canvas.ReadOnly(),
	)
	defer c.Close()

	if err := c.LoadRecording(doc); err != nil {
		return err
	}
	if err := c.Redraw(); err != nil {
		return err
	}
	if s, ok := surface.(interface{ Err() error }); ok {
		return s.Err()
	}
	return nil
}

// WriteFile renders doc into path as a PNG or PDF, chosen by extension.
func WriteFile(doc, path string, width, height int) error {
	var write func(io.Writer) error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		s := NewRasterSurface(width, height)
		defer s.Close()
		if err := Render(doc, s, width, height); err != nil {
			return err
		}
		write = s.EncodePNG
	case ".pdf":
		s := NewPDFSurface(width, height)
		if err := Render(doc, s, width, height); err != nil {
			return err
		}
		write = s.Output
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
