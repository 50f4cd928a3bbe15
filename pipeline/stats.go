package pipeline

import (
	"fmt"

	"github.com/PM4Rs/promi/model"
	"github.com/PM4Rs/promi/stream"
)

// Stats is a pass-through handler accumulating stream counts. Register
// it on an Observer and read the totals once the stream is drained.
type Stats struct {
	Metas      int64
	Traces     int64
	Events     int64
	Attributes int64
}

var _ Handler = (*Stats)(nil)

// Handle counts the item and forwards it unchanged.
func (s *Stats) Handle(item stream.Item) ([]stream.Item, error) {
	switch it := item.(type) {
	case *stream.LogMeta:
		s.Metas++
		s.Attributes += countAttributes(it.Attributes)
	case *stream.TraceStart:
		s.Traces++
		s.Attributes += countAttributes(it.Attributes)
	case *stream.Event:
		s.Events++
		s.Attributes += countAttributes(it.Attributes)
	}
	return []stream.Item{item}, nil
}

func (s *Stats) String() string {
	return fmt.Sprintf("%d log(s), %d trace(s), %d event(s), %d attribute(s)",
		s.Metas, s.Traces, s.Events, s.Attributes)
}

func countAttributes(attrs model.Attributes) int64 {
	var n int64
	for _, attr := range attrs.All() {
		n += countAttribute(attr)
	}
	return n
}

func countAttribute(attr model.Attribute) int64 {
	n := int64(1)
	if attr.Kind() == model.KindList {
		if list, err := attr.ListValue(); err == nil {
			for _, elem := range list {
				n += countAttribute(elem)
			}
		}
	}
	n += countAttributes(attr.Children)
	return n
}
