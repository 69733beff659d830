package domain

import (
	"errors"
	"fmt"
)

// ErrNoCapableSource is returned when no registered source accepts an input.
var ErrNoCapableSource = errors.New("no source can handle input")

// ErrUnknownRenderer is returned for renderer names other than SLD and OpenLayers.
var ErrUnknownRenderer = errors.New("unknown renderer kind")

// ErrDialogClosed is returned when an example is selected while the dialog is closed.
var ErrDialogClosed = errors.New("examples dialog is not open")

// ErrExampleNotFound is returned when a catalog has no example with the given ID.
var ErrExampleNotFound = errors.New("example not found")

// ErrLoadSuperseded is returned for loads discarded because a newer request of the same kind exists.
var ErrLoadSuperseded = errors.New("load superseded by a newer request")

// ParseError is a format-specific parsing failure.
type ParseError struct {
	// Format is the name of the source that failed (e.g. "SLD", "GeoJSON").
	Format string
	// Input names the file or URL being parsed.
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Input != "" {
		return fmt.Sprintf("%s: failed to parse %s: %v", e.Format, e.Input, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Format, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ErrUnknownView is returned when a view name is not one of the editor panes.
var ErrUnknownView = errors.New("unknown view")
