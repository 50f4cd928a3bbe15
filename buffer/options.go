package buffer

import (
	"github.com/PM4Rs/promi/metric"
)

// Option configures buffer behavior using the functional options
// pattern.
type Option func(*bufferOptions)

// bufferOptions holds internal configuration for buffer instances.
// Statistics are always collected; metrics are optional.
type bufferOptions struct {
	overflowPolicy OverflowPolicy
	dropCallback   DropCallback

	// metricsReg is optional - if provided, buffer stats are also
	// exposed as Prometheus metrics under the given component prefix
	metricsReg    *metric.Registry
	metricsPrefix string
}

// WithOverflowPolicy sets the overflow behavior for a bounded buffer.
// Defaults to Block (backpressure) if not specified.
func WithOverflowPolicy(policy OverflowPolicy) Option {
	return func(opts *bufferOptions) {
		opts.overflowPolicy = policy
	}
}

// WithMetrics enables Prometheus metrics export for buffer statistics.
// If registry is nil or prefix is empty, the option is ignored.
func WithMetrics(registry *metric.Registry, prefix string) Option {
	return func(opts *bufferOptions) {
		if registry != nil && prefix != "" {
			opts.metricsReg = registry
			opts.metricsPrefix = prefix
		}
	}
}

// WithDropCallback sets a callback invoked with every item dropped due
// to overflow policy.
func WithDropCallback(callback DropCallback) Option {
	return func(opts *bufferOptions) {
		opts.dropCallback = callback
	}
}

// applyOptions applies functional options to create the final buffer
// configuration.
func applyOptions(options ...Option) *bufferOptions {
	opts := &bufferOptions{
		overflowPolicy: Block,
	}

	for _, opt := range options {
		if opt != nil {
			opt(opts)
		}
	}

	return opts
}
