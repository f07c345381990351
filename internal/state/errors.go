package state

import "errors"

// ErrFormat is returned when a recording string cannot be decoded.
var ErrFormat = errors.New("malformed recording")

// ErrLookup is returned when a command event references an index that was
// never registered.
var ErrLookup = errors.New("unknown command")

// ErrUsage is returned when an operation is called with values it cannot
// accept (an empty colour, a non-positive width, ...).
var ErrUsage = errors.New("invalid usage")
