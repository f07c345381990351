package state

import (
	"math"
	"strconv"
	"strings"
)

// Point is a position in surface coordinates.
type Point struct{ X, Y float64 }

// Kind names the style operation a table command performs.
type Kind string

const (
	KindStrokeColor Kind = "stroke-color"
	KindStrokeWidth Kind = "stroke-width"
)

// Command is a registered style operation. Value is kept in its canonical
// text form so it can be written into a recording as-is.
type Command struct {
	Kind  Kind
	Value string
}

// Width returns the numeric value of a stroke-width command.
func (c Command) Width() float64 {
	w, _ := strconv.ParseFloat(c.Value, 64)
	return w
}

// String returns the definition token for the command.
func (c Command) String() string {
	switch c.Kind {
	case KindStrokeColor:
		return string(tagColor) + c.Value
	case KindStrokeWidth:
		return string(tagWidth) + c.Value
	}
	return ""
}

// EventType identifies what an Event represents.
type EventType uint8

const (
	// EventLine draws a straight segment.
	EventLine EventType = iota
	// EventCommand references a CommandTable entry.
	EventCommand
)

func (t EventType) String() string {
	switch t {
	case EventLine:
		return "line"
	case EventCommand:
		return "command"
	}
	return "unknown"
}

// Line is a segment between two integer pixel positions.
type Line struct {
	X1, Y1, X2, Y2 int
}

// Event is one recorded action: either a line or a command reference.
type Event struct {
	Type    EventType
	Line    Line
	Command int
	Args    []string
}

// LineEvent builds a line event, flooring every coordinate.
func LineEvent(x1, y1, x2, y2 float64) Event {
	return Event{Type: EventLine, Line: Line{floor(x1), floor(y1), floor(x2), floor(y2)}}
}

// CommandEvent builds an event referencing the command at index.
func CommandEvent(index int, args ...string) Event {
	if len(args) == 0 {
		args = nil
	}
	return Event{Type: EventCommand, Command: index, Args: args}
}

// String returns the event's token in the tagged encoding.
func (e Event) String() string {
	var b strings.Builder
	switch e.Type {
	case EventLine:
		b.WriteByte(tagLine)
		b.WriteString(strconv.Itoa(e.Line.X1))
		b.WriteString(fieldSep)
		b.WriteString(strconv.Itoa(e.Line.Y1))
		b.WriteString(fieldSep)
		b.WriteString(strconv.Itoa(e.Line.X2))
		b.WriteString(fieldSep)
		b.WriteString(strconv.Itoa(e.Line.Y2))
	case EventCommand:
		b.WriteByte(tagCommand)
		b.WriteString(strconv.Itoa(e.Command))
		for _, arg := range e.Args {
			b.WriteString(fieldSep)
			b.WriteString(arg)
		}
	}
	return b.String()
}

func floor(v float64) int {
	return int(math.Floor(v))
}
