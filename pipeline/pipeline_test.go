package pipeline

import (
	"context"
	stderrors "errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/PM4Rs/promi/buffer"
	"github.com/PM4Rs/promi/errors"
	"github.com/PM4Rs/promi/model"
	"github.com/PM4Rs/promi/pkg/worker"
	"github.com/PM4Rs/promi/stream"
)

func namedEvent(t *testing.T, name string) *stream.Event {
	t.Helper()
	attrs, err := model.NewAttributes(model.NewString("concept:name", name))
	require.NoError(t, err)
	return &stream.Event{Event: model.Event{Attributes: attrs}}
}

func nameOf(t *testing.T, item stream.Item) string {
	t.Helper()
	event, ok := item.(*stream.Event)
	require.True(t, ok)
	attr, ok := event.Attributes.Get("concept:name")
	require.True(t, ok)
	return attr.Text()
}

func hasName(want string) func(*model.Event) (bool, error) {
	return func(e *model.Event) (bool, error) {
		attr, ok := e.Attributes.Get("concept:name")
		if !ok {
			return false, nil
		}
		return attr.Text() == want, nil
	}
}

func pullAllNames(t *testing.T, s stream.Stream) []string {
	t.Helper()
	var names []string
	for {
		item, err := s.Pull()
		if stderrors.Is(err, stream.EOS) {
			return names
		}
		require.NoError(t, err)
		names = append(names, nameOf(t, item))
	}
}

func TestFilterORWithinOneFilter(t *testing.T) {
	src := stream.Slice(
		namedEvent(t, "a"), namedEvent(t, "b"), namedEvent(t, "c"))

	filtered := NewFilter(src,
		Events(hasName("a")),
		Events(hasName("c")),
	)

	assert.Equal(t, []string{"a", "c"}, pullAllNames(t, filtered))
}

func TestFilterANDByChaining(t *testing.T) {
	keep := func(names ...string) func(*model.Event) (bool, error) {
		set := map[string]bool{}
		for _, n := range names {
			set[n] = true
		}
		return func(e *model.Event) (bool, error) {
			attr, ok := e.Attributes.Get("concept:name")
			return ok && set[attr.Text()], nil
		}
	}

	src := stream.Slice(
		namedEvent(t, "a"), namedEvent(t, "b"), namedEvent(t, "c"))

	// {a,b} ∧ {b,c} = {b}
	chained := NewFilter(NewFilter(src, Events(keep("a", "b"))), Events(keep("b", "c")))
	assert.Equal(t, []string{"b"}, pullAllNames(t, chained))
}

func TestCNF(t *testing.T) {
	src := stream.Slice(
		namedEvent(t, "a"), namedEvent(t, "b"), namedEvent(t, "c"))

	out := CNF(src,
		[]Predicate{Events(hasName("a")), Events(hasName("b"))},
		[]Predicate{Events(hasName("b")), Events(hasName("c"))},
	)
	assert.Equal(t, []string{"b"}, pullAllNames(t, out))
}

func TestStructuralKeepsShape(t *testing.T) {
	src := stream.Slice(
		&stream.LogMeta{},
		&stream.TraceStart{},
		namedEvent(t, "a"),
		namedEvent(t, "b"),
		&stream.TraceEnd{},
	)

	filtered := NewFilter(src, Structural(), Events(hasName("b")))

	var kinds []string
	for {
		item, err := filtered.Pull()
		if stderrors.Is(err, stream.EOS) {
			break
		}
		require.NoError(t, err)
		switch item.(type) {
		case *stream.LogMeta:
			kinds = append(kinds, "meta")
		case *stream.TraceStart:
			kinds = append(kinds, "start")
		case *stream.Event:
			kinds = append(kinds, "event")
		case *stream.TraceEnd:
			kinds = append(kinds, "end")
		}
	}
	assert.Equal(t, []string{"meta", "start", "event", "end"}, kinds)
}

func TestNotAndAlways(t *testing.T) {
	src := stream.Slice(namedEvent(t, "a"), namedEvent(t, "b"))
	filtered := NewFilter(src, Not(Events(hasName("a"))))
	assert.Equal(t, []string{"b"}, pullAllNames(t, filtered))

	src = stream.Slice(namedEvent(t, "a"), namedEvent(t, "b"))
	assert.Empty(t, pullAllNames(t, NewFilter(src, Always(false))))

	src = stream.Slice(namedEvent(t, "a"), namedEvent(t, "b"))
	assert.Len(t, pullAllNames(t, NewFilter(src, Always(true))), 2)
}

func TestFilterPropagatesPredicateError(t *testing.T) {
	src := stream.Slice(namedEvent(t, "a"))
	boom := stderrors.New("boom")
	filtered := NewFilter(src, func(stream.Item) (bool, error) {
		return false, boom
	})

	_, err := filtered.Pull()
	assert.ErrorIs(t, err, boom)
}

func TestFilterPassesPendingThrough(t *testing.T) {
	buf, err := buffer.New(4)
	require.NoError(t, err)

	filtered := NewFilter(buf, Always(true))
	_, err = filtered.Pull()
	assert.ErrorIs(t, err, stream.ErrPending)
}

func TestObserverPassThrough(t *testing.T) {
	src := stream.Slice(namedEvent(t, "a"), namedEvent(t, "b"))
	obs := NewObserver(src)
	assert.Equal(t, []string{"a", "b"}, pullAllNames(t, obs))
}

func TestObserverHandlerDropsAndFansOut(t *testing.T) {
	src := stream.Slice(namedEvent(t, "a"), namedEvent(t, "drop"), namedEvent(t, "b"))

	obs := NewObserver(src, HandlerFunc(func(item stream.Item) ([]stream.Item, error) {
		switch nameOfItem(item) {
		case "drop":
			return nil, nil
		case "b":
			return []stream.Item{item, item}, nil
		}
		return []stream.Item{item}, nil
	}))

	assert.Equal(t, []string{"a", "b", "b"}, pullAllNames(t, obs))
}

func nameOfItem(item stream.Item) string {
	event, ok := item.(*stream.Event)
	if !ok {
		return ""
	}
	attr, ok := event.Attributes.Get("concept:name")
	if !ok {
		return ""
	}
	return attr.Text()
}

func TestObserverHandlerChainOrder(t *testing.T) {
	src := stream.Slice(namedEvent(t, "a"))

	var order []string
	first := HandlerFunc(func(item stream.Item) ([]stream.Item, error) {
		order = append(order, "first")
		return []stream.Item{item}, nil
	})
	second := HandlerFunc(func(item stream.Item) ([]stream.Item, error) {
		order = append(order, "second")
		return []stream.Item{item}, nil
	})

	obs := NewObserver(src, first)
	obs.Register(second)
	pullAllNames(t, obs)

	assert.Equal(t, []string{"first", "second"}, order)
}

func TestObserverRejectsLateMetadata(t *testing.T) {
	src := stream.Slice(namedEvent(t, "a"), &stream.LogMeta{})
	obs := NewObserver(src)

	_, err := obs.Pull()
	require.NoError(t, err)
	_, err = obs.Pull()
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
	assert.ErrorIs(t, err, errors.ErrStateOrder)
}

func TestStats(t *testing.T) {
	parent := model.NewString("origin", "synthetic")
	child, err := parent.WithChildren(model.NewInt("depth", 1))
	require.NoError(t, err)
	attrs, err := model.NewAttributes(child)
	require.NoError(t, err)

	src := stream.Slice(
		&stream.LogMeta{},
		&stream.TraceStart{Attributes: attrs},
		namedEvent(t, "a"),
		namedEvent(t, "b"),
		&stream.TraceEnd{},
	)

	stats := &Stats{}
	require.NoError(t, stream.Drain(NewObserver(src, stats)))

	assert.Equal(t, int64(1), stats.Metas)
	assert.Equal(t, int64(1), stats.Traces)
	assert.Equal(t, int64(2), stats.Events)
	// trace attr + its child + one per event
	assert.Equal(t, int64(4), stats.Attributes)
	assert.Contains(t, stats.String(), "2 event(s)")
}

func TestTeeCopiesToBuffer(t *testing.T) {
	side, err := buffer.New(0)
	require.NoError(t, err)

	src := stream.Slice(namedEvent(t, "a"), namedEvent(t, "b"))
	tee := NewTee(src, side)

	assert.Equal(t, []string{"a", "b"}, pullAllNames(t, tee))
	assert.Equal(t, 2, side.Len())

	item, err := side.Pull()
	require.NoError(t, err)
	assert.Equal(t, "a", nameOf(t, item))
}

func TestThrottleDeliversEverything(t *testing.T) {
	src := stream.Slice(namedEvent(t, "a"), namedEvent(t, "b"), namedEvent(t, "c"))
	throttled := NewThrottle(context.Background(), src, rate.Inf, 1)

	assert.Equal(t, []string{"a", "b", "c"}, pullAllNames(t, throttled))

	// EOS stays terminal and is not rate-limited
	_, err := throttled.Pull()
	assert.ErrorIs(t, err, stream.EOS)
}

func TestThrottleContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := stream.Slice(namedEvent(t, "a"))
	throttled := NewThrottle(ctx, src, rate.Every(time.Hour), 0)

	_, err := throttled.Pull()
	assert.Error(t, err)
}

func TestAsyncSubmitsToPool(t *testing.T) {
	var seen int64
	pool, err := worker.NewPool(2, 16, func(_ context.Context, _ stream.Item) error {
		atomic.AddInt64(&seen, 1)
		return nil
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, pool.Start(ctx))

	src := stream.Slice(namedEvent(t, "a"), namedEvent(t, "b"))
	async := NewAsync(src, pool, nil)
	assert.Equal(t, []string{"a", "b"}, pullAllNames(t, async))

	require.NoError(t, pool.Stop(time.Second))
	assert.Equal(t, int64(2), atomic.LoadInt64(&seen))
}
