package state

import (
	"fmt"
	"strconv"
	"strings"
)

// Delimiter separates tokens in a recording string.
const Delimiter = ";"

const fieldSep = ","

// Every token starts with a one-byte kind tag. Untagged tokens are the older
// format, where a line is told apart from a command by its four fields.
const (
	tagLine    byte = 'l'
	tagCommand byte = 'c'
	tagColor   byte = 's'
	tagWidth   byte = 'w'
)

// Token is one decoded element of a recording string: a table definition or
// an event.
type Token struct {
	Definition bool
	Command    Command
	Event      Event
}

// String re-encodes the token.
func (t Token) String() string {
	if t.Definition {
		return t.Command.String()
	}
	return t.Event.String()
}

// Parse decodes a recording string into its table definitions and its
// events, both in order of appearance. The empty string is an empty
// recording.
func Parse(s string) ([]Command, []Event, error) {
	if s == "" {
		return nil, nil, nil
	}
	var (
		defs   []Command
		events []Event
	)
	for i, raw := range strings.Split(s, Delimiter) {
		tok, err := ParseToken(raw)
		if err != nil {
			return nil, nil, fmt.Errorf("token %d: %w", i, err)
		}
		if tok.Definition {
			defs = append(defs, tok.Command)
		} else {
			events = append(events, tok.Event)
		}
	}
	return defs, events, nil
}

// ParseToken decodes a single token.
func ParseToken(raw string) (Token, error) {
	if raw == "" {
		return Token{}, fmt.Errorf("%w: empty token", ErrFormat)
	}
	if strings.Contains(raw, Delimiter) {
		return Token{}, fmt.Errorf("%w: token %q contains %q", ErrFormat, raw, Delimiter)
	}
	switch raw[0] {
	case tagLine:
		ev, err := parseLine(strings.Split(raw[1:], fieldSep))
		return Token{Event: ev}, err
	case tagCommand:
		ev, err := parseCommand(strings.Split(raw[1:], fieldSep))
		return Token{Event: ev}, err
	case tagColor:
		if len(raw) == 1 {
			return Token{}, fmt.Errorf("%w: empty stroke colour definition", ErrFormat)
		}
		return Token{Definition: true, Command: Command{Kind: KindStrokeColor, Value: raw[1:]}}, nil
	case tagWidth:
		w, err := strconv.ParseFloat(raw[1:], 64)
		if err != nil || !validWidth(w) || formatWidth(w) != raw[1:] {
			return Token{}, fmt.Errorf("%w: bad stroke width definition %q", ErrFormat, raw)
		}
		return Token{Definition: true, Command: Command{Kind: KindStrokeWidth, Value: raw[1:]}}, nil
	}
	if raw[0] == '-' || (raw[0] >= '0' && raw[0] <= '9') {
		return parseLegacy(raw)
	}
	return Token{}, fmt.Errorf("%w: unknown token tag %q", ErrFormat, raw[0])
}

func parseLegacy(raw string) (Token, error) {
	fields := strings.Split(raw, fieldSep)
	if len(fields) == 4 {
		ev, err := parseLine(fields)
		return Token{Event: ev}, err
	}
	ev, err := parseCommand(fields)
	return Token{Event: ev}, err
}

func parseLine(fields []string) (Event, error) {
	if len(fields) != 4 {
		return Event{}, fmt.Errorf("%w: line needs 4 fields, got %d", ErrFormat, len(fields))
	}
	var coords [4]int
	for i, f := range fields {
		v, ok := parseInt(f)
		if !ok {
			return Event{}, fmt.Errorf("%w: bad coordinate %q", ErrFormat, f)
		}
		coords[i] = v
	}
	return Event{Type: EventLine, Line: Line{coords[0], coords[1], coords[2], coords[3]}}, nil
}

func parseCommand(fields []string) (Event, error) {
	index, ok := parseInt(fields[0])
	if !ok || index < 0 {
		return Event{}, fmt.Errorf("%w: bad command index %q", ErrFormat, fields[0])
	}
	args := fields[1:]
	for _, arg := range args {
		if arg == "" {
			return Event{}, fmt.Errorf("%w: empty argument for command %d", ErrFormat, index)
		}
	}
	return CommandEvent(index, args...), nil
}

// parseInt only accepts the form strconv.Itoa produces, so that decoding and
// re-encoding a string gives the same text back.
func parseInt(s string) (int, bool) {
	digits := strings.TrimPrefix(s, "-")
	if digits == "" {
		return 0, false
	}
	if len(digits) > 1 && digits[0] == '0' {
		return 0, false
	}
	if s == "-0" {
		return 0, false
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return 0, false
		}
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}
