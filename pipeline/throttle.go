package pipeline

import (
	"context"
	stderrors "errors"

	"golang.org/x/time/rate"

	"github.com/PM4Rs/promi/stream"
)

// Throttle limits the rate at which items are delivered downstream,
// for live-replay of historical logs. Terminal and pending signals are
// not rate-limited.
type Throttle struct {
	inner   stream.Stream
	limiter *rate.Limiter
	ctx     context.Context
	done    bool
}

var _ stream.Stream = (*Throttle)(nil)

// NewThrottle wraps src with a token bucket of the given rate and
// burst. The context bounds the wait of each Pull.
func NewThrottle(ctx context.Context, src stream.Stream, limit rate.Limit, burst int) *Throttle {
	return &Throttle{
		inner:   src,
		limiter: rate.NewLimiter(limit, burst),
		ctx:     ctx,
	}
}

// Pull waits for the limiter, then pulls the next item.
func (t *Throttle) Pull() (stream.Item, error) {
	if t.done {
		return nil, stream.EOS
	}
	if err := t.limiter.Wait(t.ctx); err != nil {
		return nil, err
	}
	item, err := t.inner.Pull()
	if err != nil {
		if stderrors.Is(err, stream.EOS) {
			t.done = true
		}
		return nil, err
	}
	return item, nil
}
