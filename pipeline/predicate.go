package pipeline

import (
	"github.com/PM4Rs/promi/model"
	"github.com/PM4Rs/promi/stream"
)

// Predicate decides whether a stream item is retained by a Filter.
type Predicate func(stream.Item) (bool, error)

// Events lifts an event-level predicate to the item level. Non-event
// items are rejected.
func Events(fn func(*model.Event) (bool, error)) Predicate {
	return func(item stream.Item) (bool, error) {
		event, ok := item.(*stream.Event)
		if !ok {
			return false, nil
		}
		return fn(&event.Event)
	}
}

// Traces lifts a trace-header predicate to the item level. Only
// TraceStart items are examined; everything else is rejected.
func Traces(fn func(model.Attributes) (bool, error)) Predicate {
	return func(item stream.Item) (bool, error) {
		start, ok := item.(*stream.TraceStart)
		if !ok {
			return false, nil
		}
		return fn(start.Attributes)
	}
}

// Structural accepts the items that carry stream shape rather than
// payload: LogMeta, TraceStart and TraceEnd. Combine it with Events to
// filter events while keeping trace boundaries intact.
func Structural() Predicate {
	return func(item stream.Item) (bool, error) {
		switch item.(type) {
		case *stream.LogMeta, *stream.TraceStart, *stream.TraceEnd:
			return true, nil
		}
		return false, nil
	}
}

// Not inverts a predicate.
func Not(p Predicate) Predicate {
	return func(item stream.Item) (bool, error) {
		keep, err := p(item)
		if err != nil {
			return false, err
		}
		return !keep, nil
	}
}

// Always returns a constant predicate.
func Always(keep bool) Predicate {
	return func(stream.Item) (bool, error) {
		return keep, nil
	}
}
