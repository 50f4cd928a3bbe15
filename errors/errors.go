// Package errors provides standardized error handling for promi components.
// It classifies errors into the kinds that matter for event-stream
// processing and offers helpers for consistent wrapping and inspection.
package errors

import (
	"errors"
	"fmt"
)

// Kind classifies an error for handling purposes.
type Kind int

const (
	// KindParse marks malformed input structure. Fatal for the current
	// stream but previously emitted items stay valid.
	KindParse Kind = iota
	// KindValidation marks semantic violations such as undeclared
	// extension prefixes or unresolved classifier keys. Recoverable in
	// lenient mode, fatal in strict mode.
	KindValidation
	// KindValue marks attribute values that do not match their declared
	// type, e.g. an unparsable date.
	KindValue
	// KindCapability marks operations attempted beyond a participant's
	// configured access rights.
	KindCapability
	// KindClosed marks operations attempted after explicit close.
	KindClosed
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case KindParse:
		return "parse"
	case KindValidation:
		return "validation"
	case KindValue:
		return "value"
	case KindCapability:
		return "capability"
	case KindClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Standard error variables for common conditions
var (
	// Top-level error kinds
	ErrParse      = errors.New("parse error")
	ErrValidation = errors.New("validation error")
	ErrValue      = errors.New("value error")
	ErrCapability = errors.New("capability error")
	ErrClosed     = errors.New("stream closed")

	// Attribute and entity errors
	ErrDuplicateKey     = errors.New("duplicate attribute key")
	ErrMissingAttribute = errors.New("missing mandatory attribute")
	ErrKindMismatch     = errors.New("attribute kind mismatch")

	// Metadata errors
	ErrUnknownPrefix        = errors.New("undeclared extension prefix")
	ErrDuplicatePrefix      = errors.New("extension prefix already declared")
	ErrDuplicateGlobal      = errors.New("global already declared for scope")
	ErrUnresolvedClassifier = errors.New("unresolved classifier key")
	ErrInvalidScope         = errors.New("invalid scope")

	// Stream order errors
	ErrStateOrder = errors.New("stream order violation")

	// Configuration errors
	ErrInvalidConfig = errors.New("invalid configuration")
)

// ClassifiedError wraps an error with its kind and origin.
type ClassifiedError struct {
	Kind      Kind
	Err       error
	Message   string
	Component string
	Operation string
}

// Error implements the error interface
func (ce *ClassifiedError) Error() string {
	if ce.Message != "" {
		return ce.Message
	}
	return ce.Err.Error()
}

// Unwrap returns the underlying error
func (ce *ClassifiedError) Unwrap() error {
	return ce.Err
}

// KindOf returns the kind of err. Unclassified errors are matched
// against the sentinel variables; anything else reports KindValidation.
func KindOf(err error) Kind {
	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Kind
	}

	switch {
	case errors.Is(err, ErrParse):
		return KindParse
	case errors.Is(err, ErrValue), errors.Is(err, ErrKindMismatch):
		return KindValue
	case errors.Is(err, ErrCapability):
		return KindCapability
	case errors.Is(err, ErrClosed):
		return KindClosed
	default:
		return KindValidation
	}
}

func is(err error, kind Kind, sentinels ...error) bool {
	if err == nil {
		return false
	}

	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Kind == kind
	}

	for _, sentinel := range sentinels {
		if errors.Is(err, sentinel) {
			return true
		}
	}

	return false
}

// IsParse checks if an error reports malformed input structure.
func IsParse(err error) bool {
	return is(err, KindParse, ErrParse)
}

// IsValidation checks if an error reports a semantic violation.
func IsValidation(err error) bool {
	return is(err, KindValidation,
		ErrValidation,
		ErrDuplicateKey,
		ErrMissingAttribute,
		ErrUnknownPrefix,
		ErrDuplicatePrefix,
		ErrDuplicateGlobal,
		ErrUnresolvedClassifier,
		ErrInvalidScope,
		ErrStateOrder,
	)
}

// IsValue checks if an error reports a mistyped attribute value.
func IsValue(err error) bool {
	return is(err, KindValue, ErrValue, ErrKindMismatch)
}

// IsCapability checks if an error reports an access rights violation.
func IsCapability(err error) bool {
	return is(err, KindCapability, ErrCapability)
}

// IsClosed checks if an error reports use after close.
func IsClosed(err error) bool {
	return is(err, KindClosed, ErrClosed)
}

// newClassified creates a new classified error.
// This is an internal helper - use the Wrap* functions instead.
func newClassified(kind Kind, err error, component, operation, message string) *ClassifiedError {
	return &ClassifiedError{
		Kind:      kind,
		Err:       err,
		Message:   message,
		Component: component,
		Operation: operation,
	}
}

// Wrap creates a standardized error with context following the pattern:
// "component.method: action failed: %w"
func Wrap(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s.%s: %s failed: %w", component, method, action, err)
}

func wrapKind(kind Kind, err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrappedErr := Wrap(err, component, method, action)
	return newClassified(kind, wrappedErr, component, method, wrappedErr.Error())
}

// WrapParse wraps an error as a parse error with context
func WrapParse(err error, component, method, action string) error {
	return wrapKind(KindParse, err, component, method, action)
}

// WrapValidation wraps an error as a validation error with context
func WrapValidation(err error, component, method, action string) error {
	return wrapKind(KindValidation, err, component, method, action)
}

// WrapValue wraps an error as a value error with context
func WrapValue(err error, component, method, action string) error {
	return wrapKind(KindValue, err, component, method, action)
}

// WrapCapability wraps an error as a capability error with context
func WrapCapability(err error, component, method, action string) error {
	return wrapKind(KindCapability, err, component, method, action)
}

// WrapClosed wraps an error as a closed error with context
func WrapClosed(err error, component, method, action string) error {
	return wrapKind(KindClosed, err, component, method, action)
}
