package model

import (
	"fmt"

	"github.com/PM4Rs/promi/errors"
)

// Event is an atomic granule of observed activity carrying typed
// attributes.
type Event struct {
	Attributes Attributes
}

// Trace is the execution of a single case: its own attributes plus an
// ordered sequence of events.
type Trace struct {
	Attributes Attributes
	Events     []Event
}

// Log is the top-level aggregate of a fully materialized event log.
// Metadata (extensions, globals, classifiers) always precedes payload;
// Events holds events that occur directly under the log, outside any
// trace.
type Log struct {
	Version     string
	Extensions  []Extension
	Globals     []Global
	Classifiers []Classifier
	Attributes  Attributes
	Traces      []Trace
	Events      []Event
}

// Global returns the log's global for the given scope, if declared.
func (l *Log) Global(scope Scope) (Global, bool) {
	for _, g := range l.Globals {
		if g.Scope == scope {
			return g, true
		}
	}
	return Global{}, false
}

// Registry builds a per-log extension registry from the declared
// extensions.
func (l *Log) Registry() (*Registry, error) {
	reg := NewRegistry()
	for _, ext := range l.Extensions {
		if err := reg.Register(ext); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// Validate checks the log-level invariants: at most one global per
// scope, unique extension prefixes, and resolvable classifier keys.
func (l *Log) Validate() error {
	seen := make(map[Scope]bool, 2)
	for _, g := range l.Globals {
		if seen[g.Scope] {
			return errors.WrapValidation(
				fmt.Errorf("scope %s: %w", g.Scope, errors.ErrDuplicateGlobal),
				"Log", "Validate", "global uniqueness check")
		}
		seen[g.Scope] = true
	}

	reg, err := l.Registry()
	if err != nil {
		return err
	}

	for _, c := range l.Classifiers {
		if err := c.Validate(reg, l.Globals); err != nil {
			return err
		}
	}
	return nil
}
