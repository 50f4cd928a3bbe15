package model

import (
	"fmt"

	"github.com/PM4Rs/promi/errors"
)

// Scope tells whether a global or classifier targets traces or events.
type Scope int

const (
	// ScopeEvent targets events. It is the default when a scope is
	// omitted on the wire.
	ScopeEvent Scope = iota
	// ScopeTrace targets traces.
	ScopeTrace
)

// String returns the wire representation of the scope.
func (s Scope) String() string {
	switch s {
	case ScopeTrace:
		return "trace"
	default:
		return "event"
	}
}

// ParseScope converts a wire scope value. The empty string defaults to
// event scope; anything other than "trace"/"event" is a validation
// error.
func ParseScope(value string) (Scope, error) {
	switch value {
	case "", "event":
		return ScopeEvent, nil
	case "trace":
		return ScopeTrace, nil
	default:
		return ScopeEvent, errors.WrapValidation(
			fmt.Errorf("%q: %w", value, errors.ErrInvalidScope),
			"Scope", "ParseScope", "scope lookup")
	}
}
