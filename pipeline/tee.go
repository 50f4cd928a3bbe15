package pipeline

import (
	"github.com/PM4Rs/promi/stream"
)

// Pusher is the push side of a destination, satisfied by buffer.Buffer
// and its write-capable handles.
type Pusher interface {
	Push(item stream.Item) error
}

// Tee forwards items downstream while copying each one to a side
// destination. Fanning a stream out to several independent consumers is
// done by stacking Tees over per-consumer buffers.
type Tee struct {
	inner stream.Stream
	dst   Pusher
}

var _ stream.Stream = (*Tee)(nil)

// NewTee wraps src, copying every pulled item to dst. Closing dst when
// the stream ends stays with the caller.
func NewTee(src stream.Stream, dst Pusher) *Tee {
	return &Tee{inner: src, dst: dst}
}

// Pull pulls from the inner stream, pushes the item to the side
// destination and returns it. A failed push fails the pull.
func (t *Tee) Pull() (stream.Item, error) {
	item, err := t.inner.Pull()
	if err != nil {
		return nil, err
	}
	if err := t.dst.Push(item); err != nil {
		return nil, err
	}
	return item, nil
}
