package state

import (
	"fmt"
	"strings"
)

// Document couples a CommandTable with the Recording that references it, so
// that one string carries everything needed to replay a session anywhere.
type Document struct {
	Table     *CommandTable
	Recording *Recording
}

// NewDocument creates an empty document.
func NewDocument() *Document {
	return &Document{
		Table:     NewCommandTable(),
		Recording: NewRecording(),
	}
}

// String encodes the table definitions, in index order, followed by the
// events.
func (d *Document) String() string {
	tokens := make([]string, 0, d.Table.Len()+d.Recording.Len())
	for _, cmd := range d.Table.commands {
		tokens = append(tokens, cmd.String())
	}
	for _, ev := range d.Recording.events {
		tokens = append(tokens, ev.String())
	}
	return strings.Join(tokens, Delimiter)
}

// Resolve returns the command referenced by a command event.
func (d *Document) Resolve(ev Event) (Command, error) {
	if ev.Type != EventCommand {
		return Command{}, fmt.Errorf("%w: %s event is not a command", ErrUsage, ev.Type)
	}
	return d.Table.Get(ev.Command)
}

// Validate checks that every command event resolves.
func (d *Document) Validate() error {
	for i, ev := range d.Recording.events {
		if ev.Type != EventCommand {
			continue
		}
		if _, err := d.Table.Get(ev.Command); err != nil {
			return fmt.Errorf("event %d: %w", i, err)
		}
	}
	return nil
}

// ParseDocument decodes a recording string. When the string carries table
// definitions every command reference must resolve against them; strings
// without definitions decode to an empty table and are resolved by whoever
// owns the commands.
func ParseDocument(s string) (*Document, error) {
	defs, events, err := Parse(s)
	if err != nil {
		return nil, err
	}
	doc := NewDocument()
	for _, cmd := range defs {
		if err := doc.Table.define(cmd); err != nil {
			return nil, err
		}
	}
	doc.Recording.events = events
	if len(defs) > 0 {
		if err := doc.Validate(); err != nil {
			return nil, err
		}
	}
	return doc, nil
}
