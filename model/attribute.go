package model

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/PM4Rs/promi/errors"
)

// Kind identifies the data type an attribute value carries.
type Kind int

const (
	// KindString is a plain text value.
	KindString Kind = iota
	// KindDate is an ISO-8601 date-time with explicit UTC offset.
	KindDate
	// KindInt is a 64-bit signed integer.
	KindInt
	// KindFloat is a 64-bit floating point number.
	KindFloat
	// KindBoolean is a truth value.
	KindBoolean
	// KindID is an opaque identifier, canonically a UUID.
	KindID
	// KindList is an ordered sequence of child attributes.
	KindList
)

// String returns the XES element name for the kind.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindDate:
		return "date"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBoolean:
		return "boolean"
	case KindID:
		return "id"
	case KindList:
		return "list"
	default:
		return "unknown"
	}
}

// Attribute is a typed key/value pair. Any attribute, regardless of its
// kind, may additionally be decorated with nested child attributes.
type Attribute struct {
	Key string

	kind    Kind
	str     string
	date    time.Time
	integer int64
	float   float64
	boolean bool
	list    []Attribute

	// Children holds optional sub-attributes decorating this attribute.
	Children Attributes
}

// NewString creates a string attribute.
func NewString(key, value string) Attribute {
	return Attribute{Key: key, kind: KindString, str: value}
}

// NewDate creates a date attribute.
func NewDate(key string, value time.Time) Attribute {
	return Attribute{Key: key, kind: KindDate, date: value}
}

// NewInt creates an integer attribute.
func NewInt(key string, value int64) Attribute {
	return Attribute{Key: key, kind: KindInt, integer: value}
}

// NewFloat creates a float attribute.
func NewFloat(key string, value float64) Attribute {
	return Attribute{Key: key, kind: KindFloat, float: value}
}

// NewBool creates a boolean attribute.
func NewBool(key string, value bool) Attribute {
	return Attribute{Key: key, kind: KindBoolean, boolean: value}
}

// NewID creates an id attribute from an existing identifier.
func NewID(key, value string) Attribute {
	return Attribute{Key: key, kind: KindID, str: value}
}

// NewFreshID creates an id attribute carrying a newly generated UUID.
func NewFreshID(key string) Attribute {
	return NewID(key, uuid.NewString())
}

// NewList creates a list attribute owning an ordered sequence of child
// attributes.
func NewList(key string, values ...Attribute) Attribute {
	return Attribute{Key: key, kind: KindList, list: values}
}

// Kind reports the attribute's data type.
func (a Attribute) Kind() Kind {
	return a.kind
}

func (a Attribute) mismatch(want Kind) error {
	return errors.WrapValue(
		fmt.Errorf("%q is %s, not %s: %w", a.Key, a.kind, want, errors.ErrKindMismatch),
		"Attribute", "value", "cast")
}

// StringValue returns the value of a string attribute.
func (a Attribute) StringValue() (string, error) {
	if a.kind != KindString {
		return "", a.mismatch(KindString)
	}
	return a.str, nil
}

// DateValue returns the value of a date attribute.
func (a Attribute) DateValue() (time.Time, error) {
	if a.kind != KindDate {
		return time.Time{}, a.mismatch(KindDate)
	}
	return a.date, nil
}

// IntValue returns the value of an integer attribute.
func (a Attribute) IntValue() (int64, error) {
	if a.kind != KindInt {
		return 0, a.mismatch(KindInt)
	}
	return a.integer, nil
}

// FloatValue returns the value of a float attribute.
func (a Attribute) FloatValue() (float64, error) {
	if a.kind != KindFloat {
		return 0, a.mismatch(KindFloat)
	}
	return a.float, nil
}

// BoolValue returns the value of a boolean attribute.
func (a Attribute) BoolValue() (bool, error) {
	if a.kind != KindBoolean {
		return false, a.mismatch(KindBoolean)
	}
	return a.boolean, nil
}

// IDValue returns the value of an id attribute.
func (a Attribute) IDValue() (string, error) {
	if a.kind != KindID {
		return "", a.mismatch(KindID)
	}
	return a.str, nil
}

// ListValue returns the child attributes of a list attribute.
func (a Attribute) ListValue() ([]Attribute, error) {
	if a.kind != KindList {
		return nil, a.mismatch(KindList)
	}
	return a.list, nil
}

// Text returns the canonical textual encoding of the attribute value as
// it appears on the wire. List attributes have no scalar encoding and
// return the empty string.
func (a Attribute) Text() string {
	switch a.kind {
	case KindString, KindID:
		return a.str
	case KindDate:
		return a.date.Format(time.RFC3339Nano)
	case KindInt:
		return strconv.FormatInt(a.integer, 10)
	case KindFloat:
		return strconv.FormatFloat(a.float, 'g', -1, 64)
	case KindBoolean:
		return strconv.FormatBool(a.boolean)
	default:
		return ""
	}
}

// Equal reports whether two attributes carry the same key, kind, value
// and children.
func (a Attribute) Equal(b Attribute) bool {
	if a.Key != b.Key || a.kind != b.kind {
		return false
	}

	switch a.kind {
	case KindString, KindID:
		if a.str != b.str {
			return false
		}
	case KindDate:
		if !a.date.Equal(b.date) {
			return false
		}
	case KindInt:
		if a.integer != b.integer {
			return false
		}
	case KindFloat:
		if a.float != b.float {
			return false
		}
	case KindBoolean:
		if a.boolean != b.boolean {
			return false
		}
	case KindList:
		if len(a.list) != len(b.list) {
			return false
		}
		for i := range a.list {
			if !a.list[i].Equal(b.list[i]) {
				return false
			}
		}
	}

	return a.Children.Equal(b.Children)
}

// WithChildren returns a copy of the attribute decorated with the given
// sub-attributes.
func (a Attribute) WithChildren(children ...Attribute) (Attribute, error) {
	set := Attributes{}
	for _, child := range children {
		if err := set.Insert(child); err != nil {
			return Attribute{}, err
		}
	}
	a.Children = set
	return a, nil
}
