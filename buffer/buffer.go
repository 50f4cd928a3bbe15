// Package buffer provides a thread-safe holding area that decouples a
// producing stream from one or more consuming streams, with bounded or
// unbounded capacity, configurable overflow policies and per-participant
// access control.
package buffer

import (
	"context"
	stderrors "errors"
	"sync"

	"github.com/PM4Rs/promi/errors"
	"github.com/PM4Rs/promi/stream"
)

// OverflowPolicy defines how a bounded buffer behaves at capacity.
type OverflowPolicy int

const (
	// Block causes Push to block until space is available. This is the
	// backpressure default.
	Block OverflowPolicy = iota

	// DropOldest removes the oldest item to make room for new items.
	DropOldest

	// DropNewest discards new items while the buffer is full.
	DropNewest
)

// String returns a human-readable representation of the overflow policy.
func (p OverflowPolicy) String() string {
	switch p {
	case Block:
		return "Block"
	case DropOldest:
		return "DropOldest"
	case DropNewest:
		return "DropNewest"
	default:
		return "Unknown"
	}
}

// DropCallback is called with each item dropped due to overflow policy.
type DropCallback func(item stream.Item)

// Buffer is a thread-safe ring of stream items implementing both ends
// of the stream contract. Items are delivered to any one consumer in
// push order; when multiple consumers share a buffer each item goes to
// exactly one of them. A capacity of 0 means unbounded.
type Buffer struct {
	mu       sync.Mutex
	items    []stream.Item
	capacity int // 0 = unbounded
	size     int
	head     int // next push position
	tail     int // next pull position
	closed   bool

	notEmpty *sync.Cond
	notFull  *sync.Cond

	stats   *Statistics
	metrics *bufferMetrics
	opts    *bufferOptions
}

// New creates a buffer. capacity <= 0 yields an unbounded buffer whose
// Push never blocks or drops. Statistics are always collected; metrics
// are optional via WithMetrics.
func New(capacity int, options ...Option) (*Buffer, error) {
	opts := applyOptions(options...)

	initial := capacity
	if initial <= 0 {
		capacity = 0
		initial = 16
	}

	var metrics *bufferMetrics
	if opts.metricsReg != nil && opts.metricsPrefix != "" {
		var err error
		metrics, err = newBufferMetrics(opts.metricsReg, opts.metricsPrefix)
		if err != nil {
			return nil, errors.WrapValidation(err, "Buffer", "New", "metrics registration")
		}
	}

	b := &Buffer{
		items:    make([]stream.Item, initial),
		capacity: capacity,
		stats:    NewStatistics(),
		metrics:  metrics,
		opts:     opts,
	}
	b.notEmpty = sync.NewCond(&b.mu)
	b.notFull = sync.NewCond(&b.mu)

	return b, nil
}

// full reports whether the ring is at capacity. Unbounded buffers are
// never full; their backing slice grows on demand.
func (b *Buffer) full() bool {
	if b.capacity <= 0 {
		return false
	}
	return b.size == b.capacity
}

// grow doubles the backing slice of an unbounded buffer, rewinding the
// ring so tail sits at index 0.
func (b *Buffer) grow() {
	items := make([]stream.Item, 2*len(b.items))
	for i := 0; i < b.size; i++ {
		items[i] = b.items[(b.tail+i)%len(b.items)]
	}
	b.items = items
	b.tail = 0
	b.head = b.size
}

func (b *Buffer) enqueue(item stream.Item) {
	if b.capacity <= 0 && b.size == len(b.items) {
		b.grow()
	}

	b.items[b.head] = item
	b.head = (b.head + 1) % len(b.items)
	b.size++

	b.stats.Push()
	b.stats.UpdateDepth(int64(b.size))
	if b.metrics != nil {
		b.metrics.recordPush(b.size, b.capacity)
	}

	b.notEmpty.Signal()
}

func (b *Buffer) dequeue() stream.Item {
	item := b.items[b.tail]
	b.items[b.tail] = nil // release for GC
	b.tail = (b.tail + 1) % len(b.items)
	b.size--

	b.stats.Pull()
	b.stats.UpdateDepth(int64(b.size))
	if b.metrics != nil {
		b.metrics.recordPull(b.size, b.capacity)
	}

	b.notFull.Signal()
	return item
}

// Push adds an item according to the overflow policy. Pushing to a
// closed buffer fails with a closed error.
func (b *Buffer) Push(item stream.Item) error {
	dropped, err := b.push(item)
	if dropped != nil && b.opts.dropCallback != nil {
		// invoked outside the lock to avoid deadlock
		b.opts.dropCallback(dropped)
	}
	return err
}

func (b *Buffer) push(item stream.Item) (stream.Item, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, errors.WrapClosed(errors.ErrClosed, "Buffer", "Push", "closed check")
	}

	if b.full() {
		switch b.opts.overflowPolicy {
		case DropOldest:
			dropped := b.dequeue()
			b.recordDrop()
			b.enqueue(item)
			return dropped, nil

		case DropNewest:
			b.recordDrop()
			return item, nil

		case Block:
			for b.full() && !b.closed {
				b.notFull.Wait()
			}
			if b.closed {
				return nil, errors.WrapClosed(errors.ErrClosed, "Buffer", "Push",
					"closed during blocking wait")
			}
		}
	}

	b.enqueue(item)
	return nil, nil
}

func (b *Buffer) recordDrop() {
	b.stats.Overflow()
	b.stats.Drop()
	if b.metrics != nil {
		b.metrics.recordOverflow()
		b.metrics.recordDrop()
	}
}

// PushContext is like Push but honors context cancellation while
// blocked on a full buffer.
func (b *Buffer) PushContext(ctx context.Context, item stream.Item) error {
	if b.opts.overflowPolicy != Block {
		return b.Push(item)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return errors.WrapClosed(errors.ErrClosed, "Buffer", "PushContext", "closed check")
	}

	stop := context.AfterFunc(ctx, func() {
		// Broadcast is safe without holding the mutex
		b.notFull.Broadcast()
	})
	defer stop()

	for b.full() && !b.closed {
		if err := ctx.Err(); err != nil {
			return err
		}
		b.notFull.Wait()
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if b.closed {
		return errors.WrapClosed(errors.ErrClosed, "Buffer", "PushContext",
			"closed during blocking wait")
	}

	b.enqueue(item)
	return nil
}

// Pull removes and returns the oldest item. An open but empty buffer
// returns stream.ErrPending; a closed and drained buffer returns
// stream.EOS, repeatably.
func (b *Buffer) Pull() (stream.Item, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.size == 0 {
		if b.closed {
			return nil, stream.EOS
		}
		return nil, stream.ErrPending
	}

	return b.dequeue(), nil
}

// PullWait blocks until an item is available, the buffer is closed and
// drained (stream.EOS), or the context is cancelled.
func (b *Buffer) PullWait(ctx context.Context) (stream.Item, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	stop := context.AfterFunc(ctx, func() {
		b.notEmpty.Broadcast()
	})
	defer stop()

	for b.size == 0 && !b.closed {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		b.notEmpty.Wait()
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if b.size == 0 {
		return nil, stream.EOS
	}

	return b.dequeue(), nil
}

// Peek returns the oldest item without removing it.
func (b *Buffer) Peek() (stream.Item, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.size == 0 {
		return nil, false
	}

	b.stats.Peek()
	if b.metrics != nil {
		b.metrics.recordPeek()
	}
	return b.items[b.tail], true
}

// Len returns the current number of buffered items.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.size
}

// Capacity returns the configured capacity; 0 means unbounded.
func (b *Buffer) Capacity() int {
	return b.capacity
}

// Consume drains src into the buffer, blocking according to the
// overflow policy. The buffer stays open afterwards so further streams
// can be appended; call Close when production is finished.
func (b *Buffer) Consume(src stream.Stream) error {
	for {
		item, err := src.Pull()
		switch {
		case err == nil:
			if err := b.Push(item); err != nil {
				return err
			}
		case stderrors.Is(err, stream.EOS):
			return nil
		default:
			return err
		}
	}
}

// Close marks the buffer as finished. It is idempotent and unblocks all
// goroutines suspended on Push or PullWait; buffered items remain
// pullable until drained.
func (b *Buffer) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	b.notEmpty.Broadcast()
	b.notFull.Broadcast()
	return nil
}

// Stats returns the buffer's statistics (always collected).
func (b *Buffer) Stats() *Statistics {
	return b.stats
}
