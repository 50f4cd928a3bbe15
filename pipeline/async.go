package pipeline

import (
	stderrors "errors"
	"log/slog"

	"github.com/PM4Rs/promi/pkg/worker"
	"github.com/PM4Rs/promi/stream"
)

// Async offloads side-effecting observation of a stream to a worker
// pool. Items pass through unchanged; a full pool queue drops the
// observation, never the item.
type Async struct {
	inner  stream.Stream
	pool   *worker.Pool[stream.Item]
	logger *slog.Logger
}

var _ stream.Stream = (*Async)(nil)

// NewAsync wraps src so that every pulled item is also submitted to
// pool. The pool's lifecycle (Start/Stop) stays with the caller.
func NewAsync(src stream.Stream, pool *worker.Pool[stream.Item], logger *slog.Logger) *Async {
	if logger == nil {
		logger = slog.Default()
	}
	return &Async{inner: src, pool: pool, logger: logger}
}

// Pull pulls the next item and hands a reference to the pool. Queue
// overflow is logged and counted by the pool, not surfaced.
func (a *Async) Pull() (stream.Item, error) {
	item, err := a.inner.Pull()
	if err != nil {
		return nil, err
	}
	if err := a.pool.Submit(item); err != nil {
		if stderrors.Is(err, worker.ErrQueueFull) {
			a.logger.Warn("async observation dropped", "reason", "queue full")
			return item, nil
		}
		return nil, err
	}
	return item, nil
}
