// Package promi processes event logs in the XES format
// (IEEE Std 1849-2016) as lazy, pull-based streams.
//
// # Architecture
//
// The module is organized around one contract: a stream produces log
// items (log metadata, trace spans, events) on demand, and every
// processing stage both consumes and implements that contract, so
// pipelines are built by wrapping.
//
//   - model: typed attributes, extensions, globals, classifiers and
//     the log/trace/event entities
//   - stream: the Item/Stream/Sink contracts plus in-memory sources
//     and collectors
//   - buffer: a thread-safe decoupling buffer with backpressure,
//     overflow policies and capability-scoped handles
//   - pipeline: filter, handler and observer stages (stats, tee,
//     throttle, async offload)
//   - xes: the incremental wire-format reader and writer
//   - config: YAML settings and logger setup for embedding
//     applications
//   - metric: the Prometheus registry shared by the instrumented
//     components
//
// Data flows wire bytes -> xes.Reader -> buffer -> pipeline stages ->
// xes.Writer or an analytical consumer:
//
//	reader, err := xes.NewReader(file, xes.WithStrict(true))
//	if err != nil {
//		return err
//	}
//	filtered := pipeline.NewFilter(reader,
//		pipeline.Structural(),
//		pipeline.Events(isRelevant),
//	)
//	writer := xes.NewWriter(out)
//	return writer.Consume(filtered)
package promi
