package stream

import (
	stderrors "errors"

	"github.com/PM4Rs/promi/errors"
	"github.com/PM4Rs/promi/model"
)

// sliceStream replays a fixed item sequence. It is restartable.
type sliceStream struct {
	items []Item
	pos   int
}

// Slice builds an in-memory stream over the given items, mainly useful
// for programmatic producers and tests.
func Slice(items ...Item) Stream {
	return &sliceStream{items: items}
}

func (s *sliceStream) Pull() (Item, error) {
	if s.pos >= len(s.items) {
		return nil, EOS
	}
	item := s.items[s.pos]
	s.pos++
	return item, nil
}

func (s *sliceStream) Restart() error {
	s.pos = 0
	return nil
}

// FromLog flattens a materialized log into a stream: LogMeta first, then
// each trace as a TraceStart/events/TraceEnd span in document order,
// then any log-level events. The stream is restartable.
func FromLog(l *model.Log) Stream {
	items := make([]Item, 0, 1+2*len(l.Traces))

	items = append(items, &LogMeta{
		Version:     l.Version,
		Extensions:  l.Extensions,
		Globals:     l.Globals,
		Classifiers: l.Classifiers,
		Attributes:  l.Attributes,
	})

	for _, trace := range l.Traces {
		items = append(items, &TraceStart{Attributes: trace.Attributes})
		for _, event := range trace.Events {
			items = append(items, &Event{Event: event})
		}
		items = append(items, &TraceEnd{})
	}

	for _, event := range l.Events {
		items = append(items, &Event{Event: event})
	}

	return Slice(items...)
}

// Collector materializes a stream into a model.Log. It implements Sink.
type Collector struct {
	log   model.Log
	open  *model.Trace
	meta  bool
	items int
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Log returns the collected log.
func (c *Collector) Log() *model.Log {
	return &c.log
}

// Consume drains src, assembling trace spans back into materialized
// traces. Structural violations such as a trace-end without a matching
// trace-start fail with a validation error.
func (c *Collector) Consume(src Stream) error {
	for {
		item, err := src.Pull()
		if err != nil {
			if stderrors.Is(err, EOS) {
				if c.open != nil {
					return errors.WrapValidation(errors.ErrStateOrder,
						"Collector", "Consume", "unterminated trace check")
				}
				return nil
			}
			return err
		}

		if err := c.push(item); err != nil {
			return err
		}
	}
}

func (c *Collector) push(item Item) error {
	c.items++

	switch it := item.(type) {
	case *LogMeta:
		if c.meta || c.items > 1 {
			return errors.WrapValidation(errors.ErrStateOrder,
				"Collector", "Consume", "metadata position check")
		}
		c.meta = true
		c.log.Version = it.Version
		c.log.Extensions = it.Extensions
		c.log.Globals = it.Globals
		c.log.Classifiers = it.Classifiers
		c.log.Attributes = it.Attributes

	case *TraceStart:
		if c.open != nil {
			return errors.WrapValidation(errors.ErrStateOrder,
				"Collector", "Consume", "nested trace check")
		}
		c.open = &model.Trace{Attributes: it.Attributes}

	case *Event:
		if c.open != nil {
			c.open.Events = append(c.open.Events, it.Event)
		} else {
			c.log.Events = append(c.log.Events, it.Event)
		}

	case *TraceEnd:
		if c.open == nil {
			return errors.WrapValidation(errors.ErrStateOrder,
				"Collector", "Consume", "trace end match check")
		}
		c.log.Traces = append(c.log.Traces, *c.open)
		c.open = nil
	}

	return nil
}

// Collect drains src into a freshly collected log.
func Collect(src Stream) (*model.Log, error) {
	c := NewCollector()
	if err := c.Consume(src); err != nil {
		return nil, err
	}
	return c.Log(), nil
}
