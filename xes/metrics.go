package xes

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/PM4Rs/promi/metric"
)

type readerMetrics struct {
	traces   prometheus.Counter
	events   prometheus.Counter
	warnings prometheus.Counter
}

func newReaderMetrics(registry *metric.Registry, prefix string) (*readerMetrics, error) {
	labels := prometheus.Labels{"component": prefix}

	m := &readerMetrics{
		traces: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "promi", Subsystem: "xes", Name: "traces_total",
			Help: "Total traces parsed", ConstLabels: labels,
		}),
		events: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "promi", Subsystem: "xes", Name: "events_total",
			Help: "Total events parsed", ConstLabels: labels,
		}),
		warnings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "promi", Subsystem: "xes", Name: "warnings_total",
			Help: "Total lenient-mode warnings", ConstLabels: labels,
		}),
	}

	if err := registry.RegisterCounter(prefix, "xes_traces_total", m.traces); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounter(prefix, "xes_events_total", m.events); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounter(prefix, "xes_warnings_total", m.warnings); err != nil {
		return nil, err
	}
	return m, nil
}
