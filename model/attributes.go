package model

import (
	"fmt"

	"github.com/PM4Rs/promi/errors"
)

// Attributes is an insertion-ordered attribute container. Keys are
// unique within the container; inserting a duplicate key fails with a
// validation error.
type Attributes struct {
	items []Attribute
}

// NewAttributes builds a container from the given attributes, failing on
// duplicate keys.
func NewAttributes(attrs ...Attribute) (Attributes, error) {
	set := Attributes{}
	for _, attr := range attrs {
		if err := set.Insert(attr); err != nil {
			return Attributes{}, err
		}
	}
	return set, nil
}

// Insert appends an attribute, preserving declaration order.
func (a *Attributes) Insert(attr Attribute) error {
	if _, ok := a.Get(attr.Key); ok {
		return errors.WrapValidation(
			fmt.Errorf("key %q: %w", attr.Key, errors.ErrDuplicateKey),
			"Attributes", "Insert", "uniqueness check")
	}
	a.items = append(a.items, attr)
	return nil
}

// Get returns the attribute stored under key.
func (a Attributes) Get(key string) (Attribute, bool) {
	for _, attr := range a.items {
		if attr.Key == key {
			return attr, true
		}
	}
	return Attribute{}, false
}

// Has reports whether key is present.
func (a Attributes) Has(key string) bool {
	_, ok := a.Get(key)
	return ok
}

// Len returns the number of attributes.
func (a Attributes) Len() int {
	return len(a.items)
}

// All returns the attributes in declaration order. The returned slice is
// shared; callers must not mutate it.
func (a Attributes) All() []Attribute {
	return a.items
}

// Keys returns all keys in declaration order.
func (a Attributes) Keys() []string {
	keys := make([]string, len(a.items))
	for i, attr := range a.items {
		keys[i] = attr.Key
	}
	return keys
}

// Equal reports whether both containers hold equal attributes in the
// same order.
func (a Attributes) Equal(b Attributes) bool {
	if len(a.items) != len(b.items) {
		return false
	}
	for i := range a.items {
		if !a.items[i].Equal(b.items[i]) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the container.
func (a Attributes) Clone() Attributes {
	if len(a.items) == 0 {
		return Attributes{}
	}
	items := make([]Attribute, len(a.items))
	copy(items, a.items)
	return Attributes{items: items}
}
