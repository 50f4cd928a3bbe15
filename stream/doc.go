// Package stream provides the pull-based stream contract shared by
// every promi producer and consumer: the XES reader, the thread-safe
// buffer, and all pipeline stages implement Stream; the XES writer and
// the log collector implement Sink.
//
// # Item Sequence
//
// A well-formed stream delivers items in source-declared order:
//
//	LogMeta, (TraceStart, Event*, TraceEnd)*, Event*
//
// Log metadata always comes first, traces follow in document order, and
// each trace's events retain their document order inside a
// TraceStart/TraceEnd span. Events after the last trace belong to the
// log itself.
//
// # Termination
//
// Pull distinguishes three outcomes besides a delivered item: EOS
// (terminal and repeatable), ErrPending (a live source is momentarily
// empty), and any other error (terminal failure).
//
//	for {
//	    item, err := src.Pull()
//	    if errors.Is(err, stream.EOS) {
//	        break
//	    }
//	    ...
//	}
package stream
