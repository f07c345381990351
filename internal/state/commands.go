package state

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// CommandTable deduplicates style values into small integer indices so that
// a recording can reference a style change with a single number.
//
// Colours and widths share one append-only sequence: an index is assigned on
// first registration and never reused, so the same sequence of Register calls
// yields the same indices in every table.
type CommandTable struct {
	commands []Command
	colors   map[string]int
	widths   map[string]int
}

// NewCommandTable creates an empty table.
func NewCommandTable() *CommandTable {
	return &CommandTable{
		colors: make(map[string]int),
		widths: make(map[string]int),
	}
}

// Register adds (kind, value) to the table unless it is already present and
// returns its index.
func (t *CommandTable) Register(kind Kind, value string) (int, error) {
	cmd, err := canonicalCommand(kind, value)
	if err != nil {
		return 0, err
	}
	if index, ok := t.lookup(cmd); ok {
		return index, nil
	}
	return t.add(cmd), nil
}

// RegisterColor registers a stroke colour.
func (t *CommandTable) RegisterColor(color string) (int, error) {
	return t.Register(KindStrokeColor, color)
}

// RegisterWidth registers a stroke width.
func (t *CommandTable) RegisterWidth(width float64) (int, error) {
	return t.Register(KindStrokeWidth, formatWidth(width))
}

// Lookup returns the index registered for (kind, value).
func (t *CommandTable) Lookup(kind Kind, value string) (int, bool) {
	cmd, err := canonicalCommand(kind, value)
	if err != nil {
		return 0, false
	}
	return t.lookup(cmd)
}

// Get returns the command stored at index.
func (t *CommandTable) Get(index int) (Command, error) {
	if index < 0 || index >= len(t.commands) {
		return Command{}, fmt.Errorf("%w: index %d (table has %d entries)", ErrLookup, index, len(t.commands))
	}
	return t.commands[index], nil
}

// Len returns the number of registered commands.
func (t *CommandTable) Len() int {
	return len(t.commands)
}

// Commands returns the registered commands in index order.
func (t *CommandTable) Commands() []Command {
	out := make([]Command, len(t.commands))
	copy(out, t.commands)
	return out
}

// define appends a decoded definition, refusing duplicates since they would
// shift every later index.
func (t *CommandTable) define(cmd Command) error {
	if _, ok := t.lookup(cmd); ok {
		return fmt.Errorf("%w: duplicate definition %q", ErrFormat, cmd.String())
	}
	t.add(cmd)
	return nil
}

func (t *CommandTable) lookup(cmd Command) (int, bool) {
	var index int
	var ok bool
	switch cmd.Kind {
	case KindStrokeColor:
		index, ok = t.colors[cmd.Value]
	case KindStrokeWidth:
		index, ok = t.widths[cmd.Value]
	}
	return index, ok
}

func (t *CommandTable) add(cmd Command) int {
	t.commands = append(t.commands, cmd)
	index := len(t.commands) - 1
	switch cmd.Kind {
	case KindStrokeColor:
		t.colors[cmd.Value] = index
	case KindStrokeWidth:
		t.widths[cmd.Value] = index
	}
	return index
}

func canonicalCommand(kind Kind, value string) (Command, error) {
	switch kind {
	case KindStrokeColor:
		if value == "" {
			return Command{}, fmt.Errorf("%w: empty stroke colour", ErrUsage)
		}
		if strings.Contains(value, Delimiter) {
			return Command{}, fmt.Errorf("%w: stroke colour %q contains %q", ErrUsage, value, Delimiter)
		}
		return Command{Kind: kind, Value: value}, nil
	case KindStrokeWidth:
		w, err := strconv.ParseFloat(value, 64)
		if err != nil || !validWidth(w) {
			return Command{}, fmt.Errorf("%w: stroke width %q must be a positive number", ErrUsage, value)
		}
		return Command{Kind: kind, Value: formatWidth(w)}, nil
	}
	return Command{}, fmt.Errorf("%w: unknown command kind %q", ErrUsage, kind)
}

func validWidth(w float64) bool {
	return w > 0 && !math.IsInf(w, 0) && !math.IsNaN(w)
}

func formatWidth(w float64) string {
	return strconv.FormatFloat(w, 'f', -1, 64)
}
