// Package xes reads and writes the XES event-log wire format
// (IEEE Std 1849-2016).
//
// The Reader is an incremental, tag-at-a-time parser implementing the
// stream contract: it emits log metadata first, then one
// TraceStart/Event*/TraceEnd span per trace in document order, filling
// global defaults into traces and events as they close. The Writer is
// the matching sink, serializing items to any io.Writer as they
// arrive.
//
// Lenient mode, the default, accepts non-compliant input found in the
// wild: undeclared extension prefixes, unknown elements and unresolved
// classifier keys are logged, counted via Warnings and skipped. Strict
// mode fails instead. Structural XML errors are always terminal.
package xes
