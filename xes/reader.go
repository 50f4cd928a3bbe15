package xes

import (
	"encoding/xml"
	stderrors "errors"
	"fmt"
	"io"

	"github.com/PM4Rs/promi/errors"
	"github.com/PM4Rs/promi/model"
	"github.com/PM4Rs/promi/stream"
)

// Reader incrementally parses an XES document into a stream of items.
// It reads tag-at-a-time and never buffers the whole input: log
// metadata is collected until the first trace or event, emitted as a
// LogMeta item, and every following trace is emitted as a
// TraceStart/events/TraceEnd span in document order.
//
// A Reader is single-pass. It becomes restartable only by constructing
// a new Reader over a reopened byte source.
type Reader struct {
	decoder *xml.Decoder
	opts    readerOptions
	metrics *readerMetrics

	registry    *model.Registry
	globals     []model.Global
	classifiers []model.Classifier
	logAttrs    model.Attributes
	version     string

	sawRoot     bool
	metaEmitted bool
	inTrace     bool
	done        bool
	pending     *xml.StartElement
	queue       []stream.Item
	warnings    []string
	err         error
}

var _ stream.Stream = (*Reader)(nil)

// NewReader creates a Reader over src. Lenient mode is the default;
// strict parsing, logging and metrics are configured via options.
func NewReader(src io.Reader, options ...ReaderOption) (*Reader, error) {
	opts := applyReaderOptions(options)

	r := &Reader{
		decoder:  xml.NewDecoder(src),
		opts:     opts,
		registry: model.NewRegistry(),
	}

	if opts.metricsReg != nil && opts.metricsPrefix != "" {
		metrics, err := newReaderMetrics(opts.metricsReg, opts.metricsPrefix)
		if err != nil {
			return nil, err
		}
		r.metrics = metrics
	}

	return r, nil
}

// Warnings returns the messages accumulated in lenient mode, in
// occurrence order.
func (r *Reader) Warnings() []string {
	return r.warnings
}

// Pull returns the next stream item. Structural XML errors are
// terminal; in strict mode validation and value errors are terminal as
// well.
func (r *Reader) Pull() (stream.Item, error) {
	if r.err != nil {
		return nil, r.err
	}
	item, err := r.pull()
	if err != nil && !stderrors.Is(err, stream.EOS) {
		r.err = err
	}
	return item, err
}

func (r *Reader) pull() (stream.Item, error) {
	if len(r.queue) > 0 {
		item := r.queue[0]
		r.queue = r.queue[1:]
		return item, nil
	}
	if r.done {
		return nil, stream.EOS
	}
	if !r.metaEmitted {
		return r.readMetadata()
	}
	return r.readPayload()
}

func (r *Reader) warn(message string, args ...any) {
	r.warnings = append(r.warnings, fmt.Sprintf(message, args...))
	r.opts.logger.Warn(fmt.Sprintf(message, args...))
	if r.metrics != nil {
		r.metrics.warnings.Inc()
	}
}

func (r *Reader) parseError(err error) error {
	return errors.WrapParse(err, "XesReader", "Pull", "token parsing")
}

// skipUnknown discards an element the grammar does not know. Strict
// mode fails instead.
func (r *Reader) skipUnknown(start xml.StartElement) error {
	if r.opts.strict {
		return errors.WrapParse(
			fmt.Errorf("unexpected element %q", start.Name.Local),
			"XesReader", "Pull", "element dispatch")
	}
	r.warn("skipping unknown element %q", start.Name.Local)
	if err := r.decoder.Skip(); err != nil {
		return r.parseError(err)
	}
	return nil
}

// checkKey verifies that a namespaced attribute key uses a declared
// extension prefix.
func (r *Reader) checkKey(key string) error {
	if r.registry.Declared(key) {
		return nil
	}
	prefix, _ := model.SplitKey(key)
	if r.opts.strict {
		return errors.WrapValidation(
			fmt.Errorf("key %q (prefix %q): %w", key, prefix, errors.ErrUnknownPrefix),
			"XesReader", "checkKey", "prefix resolution")
	}
	r.warn("attribute %q uses undeclared prefix %q", key, prefix)
	return nil
}

// readMetadata consumes everything up to the first trace or event and
// emits the LogMeta item.
func (r *Reader) readMetadata() (stream.Item, error) {
	for {
		token, err := r.decoder.Token()
		if err != nil {
			if stderrors.Is(err, io.EOF) && !r.sawRoot {
				return nil, errors.WrapParse(
					fmt.Errorf("no log root element found"),
					"XesReader", "Pull", "document parsing")
			}
			return nil, r.parseError(err)
		}

		switch tok := token.(type) {
		case xml.StartElement:
			if !r.sawRoot {
				if tok.Name.Local != "log" {
					return nil, errors.WrapParse(
						fmt.Errorf("root element is %q, want log", tok.Name.Local),
						"XesReader", "Pull", "document parsing")
				}
				r.version, _ = xmlAttr(tok, "xes.version")
				r.sawRoot = true
				continue
			}

			switch tok.Name.Local {
			case "extension":
				if err := r.readExtension(tok); err != nil {
					return nil, err
				}
			case "global":
				if err := r.readGlobal(tok); err != nil {
					return nil, err
				}
			case "classifier":
				if err := r.readClassifier(tok); err != nil {
					return nil, err
				}
			case "trace", "event":
				pending := tok.Copy()
				r.pending = &pending
				return r.finalizeMeta()
			default:
				if isAttributeElement(tok.Name.Local) {
					attr, err := r.decodeAttribute(tok)
					if err != nil {
						return nil, err
					}
					if err := r.logAttrs.Insert(attr); err != nil {
						return nil, err
					}
					continue
				}
				if err := r.skipUnknown(tok); err != nil {
					return nil, err
				}
			}

		case xml.EndElement:
			// </log> before any trace: a metadata-only document
			r.done = true
			return r.finalizeMeta()
		}
	}
}

func (r *Reader) readExtension(start xml.StartElement) error {
	name, _ := xmlAttr(start, "name")
	prefix, ok := xmlAttr(start, "prefix")
	if !ok {
		return errors.WrapParse(
			fmt.Errorf("extension %q: %w", name, errors.ErrMissingAttribute),
			"XesReader", "readExtension", "prefix lookup")
	}
	uri, _ := xmlAttr(start, "uri")

	if err := r.decoder.Skip(); err != nil {
		return r.parseError(err)
	}

	err := r.registry.Register(model.Extension{Name: name, Prefix: prefix, URI: uri})
	if err != nil {
		if r.opts.strict {
			return err
		}
		r.warn("ignoring re-declared extension prefix %q", prefix)
	}
	return nil
}

func (r *Reader) readGlobal(start xml.StartElement) error {
	scopeValue, _ := xmlAttr(start, "scope")
	scope, err := model.ParseScope(scopeValue)
	if err != nil {
		return err
	}

	attrs, err := r.readAttributeRun()
	if err != nil {
		return err
	}

	for _, g := range r.globals {
		if g.Scope == scope {
			err := errors.WrapValidation(
				fmt.Errorf("scope %q: %w", scope, errors.ErrDuplicateGlobal),
				"XesReader", "readGlobal", "scope declaration")
			if r.opts.strict {
				return err
			}
			r.warn("ignoring duplicate %q global", scope)
			return nil
		}
	}

	r.globals = append(r.globals, model.Global{Scope: scope, Attributes: attrs})
	return nil
}

// readAttributeRun collects the attribute children of the current
// element up to its end tag.
func (r *Reader) readAttributeRun() (model.Attributes, error) {
	attrs := model.Attributes{}
	for {
		token, err := r.decoder.Token()
		if err != nil {
			return attrs, r.parseError(err)
		}
		switch tok := token.(type) {
		case xml.StartElement:
			if !isAttributeElement(tok.Name.Local) {
				if err := r.skipUnknown(tok); err != nil {
					return attrs, err
				}
				continue
			}
			attr, err := r.decodeAttribute(tok)
			if err != nil {
				return attrs, err
			}
			if err := attrs.Insert(attr); err != nil {
				return attrs, err
			}
		case xml.EndElement:
			return attrs, nil
		}
	}
}

func (r *Reader) readClassifier(start xml.StartElement) error {
	name, _ := xmlAttr(start, "name")
	scopeValue, _ := xmlAttr(start, "scope")
	scope, err := model.ParseScope(scopeValue)
	if err != nil {
		return err
	}
	keys, ok := xmlAttr(start, "keys")
	if !ok {
		return errors.WrapParse(
			fmt.Errorf("classifier %q: %w", name, errors.ErrMissingAttribute),
			"XesReader", "readClassifier", "keys lookup")
	}

	if err := r.decoder.Skip(); err != nil {
		return r.parseError(err)
	}

	r.classifiers = append(r.classifiers, model.Classifier{
		Name:  name,
		Scope: scope,
		Keys:  model.ParseKeys(keys),
	})
	return nil
}

// finalizeMeta validates the collected declarations and emits LogMeta.
// Classifier resolution happens here because extensions and globals
// may be declared in any order before the payload.
func (r *Reader) finalizeMeta() (stream.Item, error) {
	for _, c := range r.classifiers {
		if err := c.Validate(r.registry, r.globals); err != nil {
			if r.opts.strict {
				return nil, err
			}
			r.warn("classifier %q has unresolved keys", c.Name)
		}
	}

	r.metaEmitted = true
	return &stream.LogMeta{
		Version:     r.version,
		Extensions:  r.registry.Extensions(),
		Globals:     r.globals,
		Classifiers: r.classifiers,
		Attributes:  r.logAttrs,
	}, nil
}

// readPayload produces the trace spans and events after the metadata
// phase.
func (r *Reader) readPayload() (stream.Item, error) {
	for {
		start, end, err := r.nextElement()
		if err != nil {
			return nil, err
		}

		if end != nil {
			if r.inTrace {
				r.inTrace = false
				return &stream.TraceEnd{}, nil
			}
			// </log>
			r.done = true
			return nil, stream.EOS
		}

		switch start.Name.Local {
		case "trace":
			if r.inTrace {
				return nil, errors.WrapParse(
					fmt.Errorf("nested trace element"),
					"XesReader", "Pull", "trace parsing")
			}
			return r.readTraceStart()
		case "event":
			return r.readEvent(*start)
		default:
			if isAttributeElement(start.Name.Local) && r.inTrace {
				err := errors.WrapValidation(
					fmt.Errorf("trace attribute after first event"),
					"XesReader", "Pull", "trace parsing")
				if r.opts.strict {
					return nil, err
				}
				r.warn("ignoring trace attribute declared after events")
				if err := r.decoder.Skip(); err != nil {
					return nil, r.parseError(err)
				}
				continue
			}
			if err := r.skipUnknown(*start); err != nil {
				return nil, err
			}
		}
	}
}

// nextElement returns the held-back start element or reads the next
// start/end token.
func (r *Reader) nextElement() (*xml.StartElement, *xml.EndElement, error) {
	if r.pending != nil {
		start := r.pending
		r.pending = nil
		return start, nil, nil
	}
	for {
		token, err := r.decoder.Token()
		if err != nil {
			if stderrors.Is(err, io.EOF) {
				// decoder guarantees well-formedness up to here
				r.done = true
				return nil, nil, stream.EOS
			}
			return nil, nil, r.parseError(err)
		}
		switch tok := token.(type) {
		case xml.StartElement:
			return &tok, nil, nil
		case xml.EndElement:
			return nil, &tok, nil
		}
	}
}

// readTraceStart parses the trace header: attribute elements up to the
// first event or the trace end, with trace-scope defaults filled in.
func (r *Reader) readTraceStart() (stream.Item, error) {
	attrs := model.Attributes{}

	for {
		token, err := r.decoder.Token()
		if err != nil {
			return nil, r.parseError(err)
		}
		switch tok := token.(type) {
		case xml.StartElement:
			if tok.Name.Local == "event" {
				pending := tok.Copy()
				r.pending = &pending
				r.inTrace = true
				return r.emitTraceStart(attrs)
			}
			if isAttributeElement(tok.Name.Local) {
				attr, err := r.decodeAttribute(tok)
				if err != nil {
					return nil, err
				}
				if err := attrs.Insert(attr); err != nil {
					return nil, err
				}
				continue
			}
			if err := r.skipUnknown(tok); err != nil {
				return nil, err
			}
		case xml.EndElement:
			// empty trace
			r.queue = append(r.queue, &stream.TraceEnd{})
			return r.emitTraceStart(attrs)
		}
	}
}

func (r *Reader) emitTraceStart(attrs model.Attributes) (stream.Item, error) {
	if err := r.fillDefaults(model.ScopeTrace, &attrs); err != nil {
		return nil, err
	}
	if r.metrics != nil {
		r.metrics.traces.Inc()
	}
	return &stream.TraceStart{Attributes: attrs}, nil
}

// readEvent parses a whole event subtree and fills event-scope
// defaults.
func (r *Reader) readEvent(start xml.StartElement) (stream.Item, error) {
	attrs := model.Attributes{}

	for {
		token, err := r.decoder.Token()
		if err != nil {
			return nil, r.parseError(err)
		}
		switch tok := token.(type) {
		case xml.StartElement:
			if !isAttributeElement(tok.Name.Local) {
				if err := r.skipUnknown(tok); err != nil {
					return nil, err
				}
				continue
			}
			attr, err := r.decodeAttribute(tok)
			if err != nil {
				return nil, err
			}
			if err := attrs.Insert(attr); err != nil {
				return nil, err
			}
		case xml.EndElement:
			if err := r.fillDefaults(model.ScopeEvent, &attrs); err != nil {
				return nil, err
			}
			if r.metrics != nil {
				r.metrics.events.Inc()
			}
			return &stream.Event{Event: model.Event{Attributes: attrs}}, nil
		}
	}
}

// fillDefaults merges the matching global's defaults for keys still
// missing when the element closes.
func (r *Reader) fillDefaults(scope model.Scope, attrs *model.Attributes) error {
	for _, g := range r.globals {
		if g.Scope == scope {
			return g.Fill(attrs)
		}
	}
	return nil
}
