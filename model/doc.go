// Package model defines the typed object model for XES event logs
// (IEEE Std 1849-2016): attributes with an open tagged-value type
// system, extensions, scope-wide global defaults, classifiers, events,
// traces and the materialized log aggregate.
//
// # Attributes
//
// An Attribute carries one of seven value kinds (string, date, int,
// float, boolean, id, list) and may be decorated with nested child
// attributes regardless of its kind. Containers preserve declaration
// order and enforce key uniqueness:
//
//	attrs, err := model.NewAttributes(
//	    model.NewString("concept:name", "register request"),
//	    model.NewDate("time:timestamp", ts),
//	)
//
// # Metadata
//
// Extensions bind key prefixes to defining URIs; the per-parse Registry
// resolves namespaced keys against declarations. Globals provide default
// attributes that are mandatory for every trace or event of their scope.
// Classifiers compute composite identities over attribute key lists.
//
// All metadata is immutable once a reader's metadata phase completes and
// may be shared read-only across goroutines.
package model
