// Package stream defines the lazy pull-based stream abstraction over
// event-log items and the sink contract consumed by writers and
// collectors.
package stream

import (
	stderrors "errors"

	"github.com/PM4Rs/promi/model"
)

// EOS signals normal end-of-stream. It is terminal: once returned, every
// subsequent Pull returns EOS again.
var EOS = stderrors.New("end of stream")

// ErrPending signals that no item is currently available but the
// producer has not finished. Only live sources such as buffers return
// it; consumers should wait or poll rather than conclude termination.
var ErrPending = stderrors.New("stream pending")

// Item is one element of an event stream: log metadata, a trace-start
// marker carrying the trace header, an event, or a trace-end marker.
type Item interface {
	item()
}

// LogMeta carries the log-level metadata. It is always the first item of
// a well-formed stream and is read-only for the remainder of the
// stream's life.
type LogMeta struct {
	Version     string
	Extensions  []model.Extension
	Globals     []model.Global
	Classifiers []model.Classifier
	Attributes  model.Attributes
}

func (*LogMeta) item() {}

// Global returns the metadata's global for the given scope, if declared.
func (m *LogMeta) Global(scope model.Scope) (model.Global, bool) {
	for _, g := range m.Globals {
		if g.Scope == scope {
			return g, true
		}
	}
	return model.Global{}, false
}

// Registry builds an extension registry from the declared extensions.
func (m *LogMeta) Registry() (*model.Registry, error) {
	reg := model.NewRegistry()
	for _, ext := range m.Extensions {
		if err := reg.Register(ext); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// TraceStart opens a trace span. It carries the trace's own attributes,
// already filled with trace-scope global defaults.
type TraceStart struct {
	Attributes model.Attributes
}

func (*TraceStart) item() {}

// Event wraps a model event as a stream item. Ownership transfers to the
// consumer on delivery.
type Event struct {
	model.Event
}

func (*Event) item() {}

// TraceEnd closes the currently open trace span.
type TraceEnd struct{}

func (*TraceEnd) item() {}

// Stream produces a lazy, ordered sequence of items on demand. Pull
// returns the next item, EOS on normal termination, ErrPending when a
// live source is momentarily empty, or a terminal error. Streams are
// single-pass unless they also implement Restarter.
type Stream interface {
	Pull() (Item, error)
}

// Restarter is implemented by streams that can be traversed more than
// once, e.g. in-memory replays.
type Restarter interface {
	Restart() error
}

// Sink consumes a stream to exhaustion.
type Sink interface {
	Consume(src Stream) error
}

// Drain pulls a stream to exhaustion, discarding all items. It returns
// the first error other than EOS.
func Drain(src Stream) error {
	for {
		_, err := src.Pull()
		switch {
		case err == nil:
			continue
		case stderrors.Is(err, EOS):
			return nil
		default:
			return err
		}
	}
}
