package model

import (
	"fmt"
	"strings"

	"github.com/PM4Rs/promi/errors"
)

// Classifier defines a composite identity function over traces or
// events: the ordered values of its keys establish equivalence between
// instances.
type Classifier struct {
	Name  string
	Scope Scope
	Keys  []string
}

// ParseKeys splits the wire representation of a classifier key list
// (whitespace separated tokens).
func ParseKeys(keys string) []string {
	return strings.Fields(keys)
}

// Identity computes the composite identity of an instance from its
// attributes. A key missing from attrs is a validation error; callers
// are expected to have applied global defaults first.
func (c Classifier) Identity(attrs Attributes) (string, error) {
	parts := make([]string, 0, len(c.Keys))
	for _, key := range c.Keys {
		attr, ok := attrs.Get(key)
		if !ok {
			return "", errors.WrapValidation(
				fmt.Errorf("classifier %q key %q: %w", c.Name, key, errors.ErrMissingAttribute),
				"Classifier", "Identity", "key lookup")
		}
		parts = append(parts, attr.Text())
	}
	return strings.Join(parts, "+"), nil
}

// Validate checks that every referenced key is resolvable: either its
// prefix is declared by an extension or the key appears in a global of
// the classifier's scope.
func (c Classifier) Validate(reg *Registry, globals []Global) error {
	if len(c.Keys) == 0 {
		return errors.WrapValidation(
			fmt.Errorf("classifier %q has no keys: %w", c.Name, errors.ErrUnresolvedClassifier),
			"Classifier", "Validate", "key list check")
	}

	for _, key := range c.Keys {
		if reg != nil && reg.Declared(key) {
			continue
		}
		declared := false
		for _, g := range globals {
			if g.Scope == c.Scope && g.Declares(key) {
				declared = true
				break
			}
		}
		if !declared {
			return errors.WrapValidation(
				fmt.Errorf("classifier %q key %q: %w", c.Name, key, errors.ErrUnresolvedClassifier),
				"Classifier", "Validate", "key resolution")
		}
	}
	return nil
}
