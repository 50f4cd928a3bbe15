package pipeline

import (
	"github.com/PM4Rs/promi/stream"
)

// Filter retains the items accepted by at least one of its predicates.
// Predicates within one Filter combine with OR; chaining Filters
// narrows the stream further, which gives AND across stages.
type Filter struct {
	inner      stream.Stream
	predicates []Predicate
}

var _ stream.Stream = (*Filter)(nil)

// NewFilter wraps src so that only items accepted by any of the given
// predicates pass through. A Filter with no predicates drops everything.
func NewFilter(src stream.Stream, predicates ...Predicate) *Filter {
	return &Filter{inner: src, predicates: predicates}
}

// Pull returns the next retained item. Upstream errors, including
// stream.EOS and stream.ErrPending, pass through unchanged.
func (f *Filter) Pull() (stream.Item, error) {
	for {
		item, err := f.inner.Pull()
		if err != nil {
			return nil, err
		}
		keep, err := f.accepts(item)
		if err != nil {
			return nil, err
		}
		if keep {
			return item, nil
		}
	}
}

func (f *Filter) accepts(item stream.Item) (bool, error) {
	for _, p := range f.predicates {
		keep, err := p(item)
		if err != nil {
			return false, err
		}
		if keep {
			return true, nil
		}
	}
	return false, nil
}

// CNF chains one Filter per clause: predicates inside a clause combine
// with OR, clauses combine with AND.
func CNF(src stream.Stream, clauses ...[]Predicate) stream.Stream {
	out := src
	for _, clause := range clauses {
		out = NewFilter(out, clause...)
	}
	return out
}
