// Package metric provides a shared Prometheus metrics registry for
// promi components. Buffers, readers and worker pools expose their
// statistics through it when observability is wanted; registration is
// always optional and never changes component behavior.
//
//	registry := metric.NewRegistry()
//	buf, err := buffer.New(1024, buffer.WithMetrics(registry, "ingest"))
//	...
//	http.Handle("/metrics", registry.Handler())
package metric
