package xes

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/PM4Rs/promi/errors"
	"github.com/PM4Rs/promi/model"
)

// attributeKinds maps XES attribute element names to model kinds.
var attributeKinds = map[string]model.Kind{
	"string":  model.KindString,
	"date":    model.KindDate,
	"int":     model.KindInt,
	"float":   model.KindFloat,
	"boolean": model.KindBoolean,
	"id":      model.KindID,
	"list":    model.KindList,
}

func isAttributeElement(name string) bool {
	_, ok := attributeKinds[name]
	return ok
}

func xmlAttr(start xml.StartElement, name string) (string, bool) {
	for _, attr := range start.Attr {
		if attr.Name.Local == name {
			return attr.Value, true
		}
	}
	return "", false
}

func parseBool(value string) (bool, error) {
	switch value {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", value)
}

// decodeAttribute parses one attribute element including nested
// children and, for lists, the <values> wrapper.
func (r *Reader) decodeAttribute(start xml.StartElement) (model.Attribute, error) {
	var zero model.Attribute

	kind, ok := attributeKinds[start.Name.Local]
	if !ok {
		return zero, errors.WrapParse(
			fmt.Errorf("unexpected element %q", start.Name.Local),
			"XesReader", "decodeAttribute", "attribute dispatch")
	}

	key, ok := xmlAttr(start, "key")
	if !ok {
		return zero, errors.WrapParse(
			fmt.Errorf("%s element: %w", start.Name.Local, errors.ErrMissingAttribute),
			"XesReader", "decodeAttribute", "key lookup")
	}
	if err := r.checkKey(key); err != nil {
		return zero, err
	}

	var attr model.Attribute
	if kind != model.KindList {
		value, ok := xmlAttr(start, "value")
		if !ok {
			return zero, errors.WrapParse(
				fmt.Errorf("%s %q: %w", start.Name.Local, key, errors.ErrMissingAttribute),
				"XesReader", "decodeAttribute", "value lookup")
		}
		var err error
		attr, err = r.makeAttribute(kind, key, value)
		if err != nil {
			return zero, err
		}
	}

	var children []model.Attribute
	var values []model.Attribute

	for {
		token, err := r.decoder.Token()
		if err != nil {
			return zero, r.parseError(err)
		}
		switch tok := token.(type) {
		case xml.StartElement:
			switch {
			case kind == model.KindList && tok.Name.Local == "values":
				elems, err := r.decodeValues()
				if err != nil {
					return zero, err
				}
				values = append(values, elems...)
			case isAttributeElement(tok.Name.Local):
				child, err := r.decodeAttribute(tok)
				if err != nil {
					return zero, err
				}
				children = append(children, child)
			default:
				if err := r.skipUnknown(tok); err != nil {
					return zero, err
				}
			}
		case xml.EndElement:
			if kind == model.KindList {
				attr = model.NewList(key, values...)
			}
			if len(children) == 0 {
				return attr, nil
			}
			attr, err := attr.WithChildren(children...)
			if err != nil {
				return zero, errors.WrapValidation(err,
					"XesReader", "decodeAttribute", "child attributes")
			}
			return attr, nil
		}
	}
}

// decodeValues parses the ordered members of a list's <values> wrapper.
func (r *Reader) decodeValues() ([]model.Attribute, error) {
	var values []model.Attribute
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
			value, err := r.decodeAttribute(tok)
			if err != nil {
				return nil, err
			}
			values = append(values, value)
		case xml.EndElement:
			return values, nil
		}
	}
}

func (r *Reader) makeAttribute(kind model.Kind, key, value string) (model.Attribute, error) {
	var zero model.Attribute
	switch kind {
	case model.KindString:
		return model.NewString(key, value), nil
	case model.KindDate:
		date, err := time.Parse(time.RFC3339Nano, value)
		if err != nil {
			return zero, errors.WrapValue(
				fmt.Errorf("date %q: %w", key, err),
				"XesReader", "makeAttribute", "date parsing")
		}
		return model.NewDate(key, date), nil
	case model.KindInt:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return zero, errors.WrapValue(
				fmt.Errorf("int %q: %w", key, err),
				"XesReader", "makeAttribute", "integer parsing")
		}
		return model.NewInt(key, n), nil
	case model.KindFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return zero, errors.WrapValue(
				fmt.Errorf("float %q: %w", key, err),
				"XesReader", "makeAttribute", "float parsing")
		}
		return model.NewFloat(key, f), nil
	case model.KindBoolean:
		b, err := parseBool(value)
		if err != nil {
			return zero, errors.WrapValue(
				fmt.Errorf("boolean %q: %w", key, err),
				"XesReader", "makeAttribute", "boolean parsing")
		}
		return model.NewBool(key, b), nil
	case model.KindID:
		if r.opts.strict {
			if _, err := uuid.Parse(value); err != nil {
				return zero, errors.WrapValue(
					fmt.Errorf("id %q: %w", key, err),
					"XesReader", "makeAttribute", "uuid validation")
			}
		}
		return model.NewID(key, value), nil
	}
	return zero, errors.WrapParse(
		fmt.Errorf("unhandled attribute kind %v", kind),
		"XesReader", "makeAttribute", "attribute construction")
}

// encodeAttribute writes one attribute element, recursing into
// children and list members.
func encodeAttribute(enc *xml.Encoder, attr model.Attribute) error {
	start := xml.StartElement{
		Name: xml.Name{Local: attr.Kind().String()},
		Attr: []xml.Attr{{Name: xml.Name{Local: "key"}, Value: attr.Key}},
	}
	if attr.Kind() != model.KindList {
		start.Attr = append(start.Attr,
			xml.Attr{Name: xml.Name{Local: "value"}, Value: attr.Text()})
	}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}

	for _, child := range attr.Children.All() {
		if err := encodeAttribute(enc, child); err != nil {
			return err
		}
	}

	if attr.Kind() == model.KindList {
		values, err := attr.ListValue()
		if err != nil {
			return err
		}
		wrapper := xml.StartElement{Name: xml.Name{Local: "values"}}
		if err := enc.EncodeToken(wrapper); err != nil {
			return err
		}
		for _, value := range values {
			if err := encodeAttribute(enc, value); err != nil {
				return err
			}
		}
		if err := enc.EncodeToken(wrapper.End()); err != nil {
			return err
		}
	}

	return enc.EncodeToken(start.End())
}

func encodeAttributes(enc *xml.Encoder, attrs model.Attributes) error {
	for _, attr := range attrs.All() {
		if err := encodeAttribute(enc, attr); err != nil {
			return err
		}
	}
	return nil
}
