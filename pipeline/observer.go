package pipeline

import (
	"github.com/PM4Rs/promi/errors"
	"github.com/PM4Rs/promi/stream"
)

// Handler transforms a single stream item into zero, one or many items.
// Returning an empty slice drops the item; returning several fans it
// out in order.
type Handler interface {
	Handle(item stream.Item) ([]stream.Item, error)
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc func(stream.Item) ([]stream.Item, error)

// Handle calls fn.
func (fn HandlerFunc) Handle(item stream.Item) ([]stream.Item, error) {
	return fn(item)
}

// Observer wraps an inner stream and applies an ordered handler chain
// to every pulled item. It also enforces stream shape: log metadata
// must come first and must not reappear once payload items flowed.
type Observer struct {
	inner    stream.Stream
	handlers []Handler

	queue    []stream.Item
	sawMeta  bool
	sawItems bool
}

var _ stream.Stream = (*Observer)(nil)

// NewObserver builds an observer over src with the given handlers. The
// handlers run in the order given; each one sees the output of its
// predecessor.
func NewObserver(src stream.Stream, handlers ...Handler) *Observer {
	return &Observer{inner: src, handlers: handlers}
}

// Register appends a handler to the chain.
func (o *Observer) Register(h Handler) {
	o.handlers = append(o.handlers, h)
}

// Pull returns the next item produced by the handler chain. Upstream
// errors pass through unchanged.
func (o *Observer) Pull() (stream.Item, error) {
	for {
		if len(o.queue) > 0 {
			item := o.queue[0]
			o.queue = o.queue[1:]
			return item, nil
		}

		item, err := o.inner.Pull()
		if err != nil {
			return nil, err
		}
		if err := o.checkOrder(item); err != nil {
			return nil, err
		}

		out := []stream.Item{item}
		for _, h := range o.handlers {
			var next []stream.Item
			for _, it := range out {
				produced, err := h.Handle(it)
				if err != nil {
					return nil, err
				}
				next = append(next, produced...)
			}
			out = next
		}

		if len(out) == 0 {
			continue
		}
		o.queue = out[1:]
		return out[0], nil
	}
}

func (o *Observer) checkOrder(item stream.Item) error {
	if _, isMeta := item.(*stream.LogMeta); isMeta {
		if o.sawMeta || o.sawItems {
			return errors.WrapValidation(errors.ErrStateOrder,
				"Observer", "Pull", "log metadata after payload")
		}
		o.sawMeta = true
		return nil
	}
	o.sawItems = true
	return nil
}
