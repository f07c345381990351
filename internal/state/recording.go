package state

import (
	"fmt"
	"strings"
)

// Recording is the ordered, append-only event log of one drawing session.
// Loading replaces the whole sequence; nothing is ever removed otherwise.
type Recording struct {
	events []Event
}

// NewRecording creates an empty recording.
func NewRecording() *Recording {
	return &Recording{}
}

// AppendLine floors the coordinates and appends a line event.
func (r *Recording) AppendLine(x1, y1, x2, y2 float64) Event {
	ev := LineEvent(x1, y1, x2, y2)
	r.events = append(r.events, ev)
	return ev
}

// AppendCommand appends a reference to the command at index. Arguments must
// be non-empty and free of the token and field separators, otherwise the
// event could not be decoded back from the string.
func (r *Recording) AppendCommand(index int, args ...string) (Event, error) {
	if index < 0 {
		return Event{}, fmt.Errorf("%w: negative command index %d", ErrUsage, index)
	}
	for _, arg := range args {
		if arg == "" || strings.ContainsAny(arg, Delimiter+fieldSep) {
			return Event{}, fmt.Errorf("%w: command argument %q", ErrUsage, arg)
		}
	}
	ev := CommandEvent(index, args...)
	r.events = append(r.events, ev)
	return ev, nil
}

// Append appends an already-built event.
func (r *Recording) Append(ev Event) {
	r.events = append(r.events, ev)
}

// Events returns the events in order.
func (r *Recording) Events() []Event {
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// At returns the i-th event.
func (r *Recording) At(i int) Event {
	return r.events[i]
}

// Len returns the number of events.
func (r *Recording) Len() int {
	return len(r.events)
}

// Reset drops every event.
func (r *Recording) Reset() {
	r.events = nil
}

// String encodes the events, without any table definitions.
func (r *Recording) String() string {
	tokens := make([]string, len(r.events))
	for i, ev := range r.events {
		tokens[i] = ev.String()
	}
	return strings.Join(tokens, Delimiter)
}

// Load replaces the events with those decoded from s. On error the recording
// is left untouched.
func (r *Recording) Load(s string) error {
	parsed, err := ParseRecording(s)
	if err != nil {
		return err
	}
	r.events = parsed.events
	return nil
}

// ParseRecording decodes an event-only recording string. Strings carrying
// table definitions must be decoded with ParseDocument.
func ParseRecording(s string) (*Recording, error) {
	defs, events, err := Parse(s)
	if err != nil {
		return nil, err
	}
	if len(defs) > 0 {
		return nil, fmt.Errorf("%w: recording carries %d table definitions", ErrFormat, len(defs))
	}
	return &Recording{events: events}, nil
}
