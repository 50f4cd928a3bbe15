// Package buffer decouples event-stream producers from consumers with a
// thread-safe, bounded or unbounded holding area implementing both ends
// of the stream contract.
//
// # Semantics
//
// Pull distinguishes "no item yet" (stream.ErrPending while the
// producer is still active) from "finished" (stream.EOS after Close,
// repeatable). PullWait blocks instead of returning pending. Bounded
// buffers apply an overflow policy on Push: Block (backpressure,
// default), DropOldest, or DropNewest.
//
// When several consumers share one buffer, each item is delivered to
// exactly one of them (work distribution). Broadcast requires fanning
// out to independent buffers, see the pipeline package's Tee stage.
//
// # Access Control
//
// Handles scope a buffer to one participant's rights:
//
//	buf, _ := buffer.New(1024)
//	go producer(buf.Writer()) // push-only
//	go consumer(buf.Reader()) // pull-only
//
// Violating a handle's capability fails with a capability error.
//
// # Observability
//
// Statistics are always collected and Prometheus metrics can be exposed
// via WithMetrics:
//
//	buf, err := buffer.New(1024,
//	    buffer.WithOverflowPolicy(buffer.DropOldest),
//	    buffer.WithMetrics(registry, "ingest"),
//	)
package buffer
