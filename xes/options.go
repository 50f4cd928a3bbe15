package xes

import (
	"log/slog"

	"github.com/PM4Rs/promi/metric"
)

type readerOptions struct {
	strict        bool
	logger        *slog.Logger
	metricsReg    *metric.Registry
	metricsPrefix string
}

// ReaderOption configures a Reader.
type ReaderOption func(*readerOptions)

// WithStrict toggles strict mode. Strict readers fail on undeclared
// extension prefixes, unresolved classifier keys and malformed id
// values; lenient readers accept, count a warning and continue.
func WithStrict(strict bool) ReaderOption {
	return func(o *readerOptions) {
		o.strict = strict
	}
}

// WithLogger sets the logger used for lenient-mode warnings.
func WithLogger(logger *slog.Logger) ReaderOption {
	return func(o *readerOptions) {
		o.logger = logger
	}
}

// WithMetrics registers parse counters with the given registry under
// the given component prefix.
func WithMetrics(registry *metric.Registry, prefix string) ReaderOption {
	return func(o *readerOptions) {
		o.metricsReg = registry
		o.metricsPrefix = prefix
	}
}

func applyReaderOptions(options []ReaderOption) readerOptions {
	opts := readerOptions{logger: slog.Default()}
	for _, opt := range options {
		opt(&opts)
	}
	return opts
}

type writerOptions struct {
	indent   string
	comments bool
}

// WriterOption configures a Writer.
type WriterOption func(*writerOptions)

// WithIndent sets the indentation unit of the produced document. An
// empty string writes a compact document.
func WithIndent(indent string) WriterOption {
	return func(o *writerOptions) {
		o.indent = indent
	}
}

// WithComments toggles the generator comment block after the XML
// declaration.
func WithComments(enabled bool) WriterOption {
	return func(o *writerOptions) {
		o.comments = enabled
	}
}

func applyWriterOptions(options []WriterOption) writerOptions {
	opts := writerOptions{indent: "\t", comments: true}
	for _, opt := range options {
		opt(&opts)
	}
	return opts
}
