package xes

import (
	"encoding/xml"
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/PM4Rs/promi/errors"
	"github.com/PM4Rs/promi/stream"
)

var generatorComments = []string{
	" This file conforms to the XML serialization of the XES standard (IEEE Std 1849-2016) ",
	" For log storage and management, see http://www.xes-standard.org/ ",
}

// Writer serializes a stream back into the XES wire format. Items are
// written to the destination as they arrive; the whole log is never
// buffered.
type Writer struct {
	enc  *xml.Encoder
	opts writerOptions

	headerWritten bool
	metaWritten   bool
	openTrace     bool
}

var _ stream.Sink = (*Writer)(nil)

// NewWriter creates a Writer over dst. Any byte-oriented destination
// serves: an in-memory buffer, a file, a network connection.
func NewWriter(dst io.Writer, options ...WriterOption) *Writer {
	opts := applyWriterOptions(options)
	enc := xml.NewEncoder(dst)
	enc.Indent("", opts.indent)
	return &Writer{enc: enc, opts: opts}
}

// Consume pulls src to exhaustion, serializing every item. The first
// LogMeta item yields the extension, global and classifier
// declarations; trace spans and events follow in arrival order.
func (w *Writer) Consume(src stream.Stream) error {
	for {
		item, err := src.Pull()
		if err != nil {
			if stderrors.Is(err, stream.EOS) {
				return w.finish()
			}
			return err
		}
		if err := w.write(item); err != nil {
			return err
		}
	}
}

func (w *Writer) write(item stream.Item) error {
	switch it := item.(type) {
	case *stream.LogMeta:
		if w.metaWritten || w.headerWritten {
			return errors.WrapValidation(
				fmt.Errorf("log metadata after payload: %w", errors.ErrStateOrder),
				"XesWriter", "Consume", "metadata ordering")
		}
		if err := w.writeHeader(it.Version); err != nil {
			return err
		}
		w.metaWritten = true
		return w.writeMeta(it)

	case *stream.TraceStart:
		if err := w.writeHeader(""); err != nil {
			return err
		}
		if w.openTrace {
			return errors.WrapValidation(
				fmt.Errorf("trace start inside open trace: %w", errors.ErrStateOrder),
				"XesWriter", "Consume", "trace ordering")
		}
		w.openTrace = true
		start := xml.StartElement{Name: xml.Name{Local: "trace"}}
		if err := w.enc.EncodeToken(start); err != nil {
			return w.writeError(err)
		}
		return w.writeError(encodeAttributes(w.enc, it.Attributes))

	case *stream.Event:
		if err := w.writeHeader(""); err != nil {
			return err
		}
		start := xml.StartElement{Name: xml.Name{Local: "event"}}
		if err := w.enc.EncodeToken(start); err != nil {
			return w.writeError(err)
		}
		if err := encodeAttributes(w.enc, it.Attributes); err != nil {
			return w.writeError(err)
		}
		return w.writeError(w.enc.EncodeToken(start.End()))

	case *stream.TraceEnd:
		if !w.openTrace {
			return errors.WrapValidation(
				fmt.Errorf("trace end without open trace: %w", errors.ErrStateOrder),
				"XesWriter", "Consume", "trace ordering")
		}
		w.openTrace = false
		end := xml.EndElement{Name: xml.Name{Local: "trace"}}
		return w.writeError(w.enc.EncodeToken(end))
	}

	return errors.WrapValidation(
		fmt.Errorf("unsupported stream item %T", item),
		"XesWriter", "Consume", "item dispatch")
}

// writeHeader emits the XML declaration, generator comments and the
// log start tag once, before the first item's content.
func (w *Writer) writeHeader(version string) error {
	if w.headerWritten {
		return nil
	}
	w.headerWritten = true

	decl := xml.ProcInst{
		Target: "xml",
		Inst:   []byte(`version="1.0" encoding="UTF-8"`),
	}
	if err := w.enc.EncodeToken(decl); err != nil {
		return w.writeError(err)
	}
	if w.opts.comments {
		for _, comment := range generatorComments {
			if err := w.enc.EncodeToken(xml.Comment(comment)); err != nil {
				return w.writeError(err)
			}
		}
	}

	if version == "" {
		version = "1849.2016"
	}
	start := xml.StartElement{
		Name: xml.Name{Local: "log"},
		Attr: []xml.Attr{
			{Name: xml.Name{Local: "xes.version"}, Value: version},
			{Name: xml.Name{Local: "xes.features"}, Value: ""},
		},
	}
	return w.writeError(w.enc.EncodeToken(start))
}

func (w *Writer) writeMeta(meta *stream.LogMeta) error {
	for _, ext := range meta.Extensions {
		elem := xml.StartElement{
			Name: xml.Name{Local: "extension"},
			Attr: []xml.Attr{
				{Name: xml.Name{Local: "name"}, Value: ext.Name},
				{Name: xml.Name{Local: "prefix"}, Value: ext.Prefix},
				{Name: xml.Name{Local: "uri"}, Value: ext.URI},
			},
		}
		if err := w.enc.EncodeToken(elem); err != nil {
			return w.writeError(err)
		}
		if err := w.enc.EncodeToken(elem.End()); err != nil {
			return w.writeError(err)
		}
	}

	for _, g := range meta.Globals {
		elem := xml.StartElement{
			Name: xml.Name{Local: "global"},
			Attr: []xml.Attr{
				{Name: xml.Name{Local: "scope"}, Value: g.Scope.String()},
			},
		}
		if err := w.enc.EncodeToken(elem); err != nil {
			return w.writeError(err)
		}
		if err := encodeAttributes(w.enc, g.Attributes); err != nil {
			return w.writeError(err)
		}
		if err := w.enc.EncodeToken(elem.End()); err != nil {
			return w.writeError(err)
		}
	}

	for _, c := range meta.Classifiers {
		elem := xml.StartElement{
			Name: xml.Name{Local: "classifier"},
			Attr: []xml.Attr{
				{Name: xml.Name{Local: "name"}, Value: c.Name},
				{Name: xml.Name{Local: "scope"}, Value: c.Scope.String()},
				{Name: xml.Name{Local: "keys"}, Value: strings.Join(c.Keys, " ")},
			},
		}
		if err := w.enc.EncodeToken(elem); err != nil {
			return w.writeError(err)
		}
		if err := w.enc.EncodeToken(elem.End()); err != nil {
			return w.writeError(err)
		}
	}

	return w.writeError(encodeAttributes(w.enc, meta.Attributes))
}

// finish closes the document. An open trace span at end-of-stream is a
// structural violation.
func (w *Writer) finish() error {
	if w.openTrace {
		return errors.WrapValidation(
			fmt.Errorf("stream ended inside open trace: %w", errors.ErrStateOrder),
			"XesWriter", "Consume", "trace ordering")
	}
	if err := w.writeHeader(""); err != nil {
		return err
	}
	end := xml.EndElement{Name: xml.Name{Local: "log"}}
	if err := w.enc.EncodeToken(end); err != nil {
		return w.writeError(err)
	}
	return w.writeError(w.enc.Flush())
}

func (w *Writer) writeError(err error) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(err, "XesWriter", "Consume", "token encoding")
}
