package model

import (
	"fmt"
	"strings"

	"github.com/PM4Rs/promi/errors"
)

// Extension binds a key prefix to a defining authority. Attribute keys
// of the form "prefix:name" must correspond to a declared extension
// unless the consumer runs in lenient mode.
type Extension struct {
	Name   string
	Prefix string
	URI    string

	// Keys lists the attribute names the extension defines, without the
	// prefix. Informational; arbitrary keys under a declared prefix are
	// accepted.
	Keys []string
}

// Standard extensions from IEEE Std 1849-2016. Declaring one of these on
// a log is enough to use its attributes; the values double as references
// for programmatic log construction.
var (
	Concept = Extension{
		Name:   "Concept",
		Prefix: "concept",
		URI:    "http://www.xes-standard.org/concept.xesext",
		Keys:   []string{"name", "instance"},
	}
	Time = Extension{
		Name:   "Time",
		Prefix: "time",
		URI:    "http://www.xes-standard.org/time.xesext",
		Keys:   []string{"timestamp"},
	}
	Organizational = Extension{
		Name:   "Organizational",
		Prefix: "org",
		URI:    "http://www.xes-standard.org/org.xesext",
		Keys:   []string{"resource", "role", "group"},
	}
	Lifecycle = Extension{
		Name:   "Lifecycle",
		Prefix: "lifecycle",
		URI:    "http://www.xes-standard.org/lifecycle.xesext",
		Keys:   []string{"model", "transition"},
	}
)

// SplitKey separates a namespaced attribute key into prefix and local
// name. Keys without a prefix return an empty prefix.
func SplitKey(key string) (prefix, name string) {
	if i := strings.IndexByte(key, ':'); i >= 0 {
		return key[:i], key[i+1:]
	}
	return "", key
}

// Registry is a per-parse lookup table of declared extensions. A fresh
// registry is created for every parse; registries are never shared
// across concurrent parses. Once a reader's metadata phase completes the
// registry is effectively immutable and safe for concurrent reads.
type Registry struct {
	byPrefix map[string]Extension
	order    []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byPrefix: make(map[string]Extension)}
}

// Register declares an extension. Re-declaring a prefix is a validation
// error.
func (r *Registry) Register(ext Extension) error {
	if _, ok := r.byPrefix[ext.Prefix]; ok {
		return errors.WrapValidation(
			fmt.Errorf("prefix %q: %w", ext.Prefix, errors.ErrDuplicatePrefix),
			"Registry", "Register", "prefix declaration")
	}
	r.byPrefix[ext.Prefix] = ext
	r.order = append(r.order, ext.Prefix)
	return nil
}

// Lookup returns the extension declared under prefix.
func (r *Registry) Lookup(prefix string) (Extension, bool) {
	ext, ok := r.byPrefix[prefix]
	return ext, ok
}

// Declared reports whether an attribute key is covered by the registry.
// Keys without a namespace prefix are always covered.
func (r *Registry) Declared(key string) bool {
	prefix, _ := SplitKey(key)
	if prefix == "" {
		return true
	}
	_, ok := r.byPrefix[prefix]
	return ok
}

// Extensions returns the declared extensions in declaration order.
func (r *Registry) Extensions() []Extension {
	exts := make([]Extension, 0, len(r.order))
	for _, prefix := range r.order {
		exts = append(exts, r.byPrefix[prefix])
	}
	return exts
}
