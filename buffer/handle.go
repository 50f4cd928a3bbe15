package buffer

import (
	"context"

	"github.com/PM4Rs/promi/errors"
	"github.com/PM4Rs/promi/stream"
)

// Access describes the operations a participant may perform on a
// buffer.
type Access int

const (
	// ReadWrite permits both pushing and pulling.
	ReadWrite Access = iota
	// ReadOnly permits pulling only.
	ReadOnly
	// WriteOnly permits pushing only.
	WriteOnly
)

// String returns a human-readable representation of the access mode.
func (a Access) String() string {
	switch a {
	case ReadOnly:
		return "ReadOnly"
	case WriteOnly:
		return "WriteOnly"
	default:
		return "ReadWrite"
	}
}

// Handle is a capability-scoped view of a buffer handed to one
// participant. Operations beyond the configured access fail with a
// capability error instead of undefined behavior.
type Handle struct {
	b      *Buffer
	access Access
}

// Handle returns a view of the buffer restricted to the given access.
func (b *Buffer) Handle(access Access) *Handle {
	return &Handle{b: b, access: access}
}

// Reader returns a pull-only view. It implements stream.Stream.
func (b *Buffer) Reader() *Handle {
	return b.Handle(ReadOnly)
}

// Writer returns a push-only view. It implements stream.Sink.
func (b *Buffer) Writer() *Handle {
	return b.Handle(WriteOnly)
}

func (h *Handle) mayRead(op string) error {
	if h.access == WriteOnly {
		return errors.WrapCapability(errors.ErrCapability, "Handle", op, "read access check")
	}
	return nil
}

func (h *Handle) mayWrite(op string) error {
	if h.access == ReadOnly {
		return errors.WrapCapability(errors.ErrCapability, "Handle", op, "write access check")
	}
	return nil
}

// Push adds an item through the view.
func (h *Handle) Push(item stream.Item) error {
	if err := h.mayWrite("Push"); err != nil {
		return err
	}
	return h.b.Push(item)
}

// Pull removes and returns the oldest item through the view.
func (h *Handle) Pull() (stream.Item, error) {
	if err := h.mayRead("Pull"); err != nil {
		return nil, err
	}
	return h.b.Pull()
}

// PullWait blocks until an item is available through the view.
func (h *Handle) PullWait(ctx context.Context) (stream.Item, error) {
	if err := h.mayRead("PullWait"); err != nil {
		return nil, err
	}
	return h.b.PullWait(ctx)
}

// Consume drains src into the buffer through the view.
func (h *Handle) Consume(src stream.Stream) error {
	if err := h.mayWrite("Consume"); err != nil {
		return err
	}
	return h.b.Consume(src)
}

// Close closes the underlying buffer. Closing requires write access:
// only a producer may declare the stream finished.
func (h *Handle) Close() error {
	if err := h.mayWrite("Close"); err != nil {
		return err
	}
	return h.b.Close()
}

// Len returns the current number of buffered items.
func (h *Handle) Len() int {
	return h.b.Len()
}
