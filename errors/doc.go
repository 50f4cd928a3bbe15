// Package errors implements the error classification system used across
// promi: Parse (malformed input structure), Validation (semantic
// violations against declared metadata), Value (mistyped attribute
// values), Capability (access rights violations on buffers and streams),
// and Closed (use after explicit termination).
//
// # Quick Start
//
// Return sentinel variables for known conditions:
//
//	if _, ok := seen[prefix]; ok {
//	    return errors.ErrDuplicatePrefix
//	}
//
// Wrap errors with component context:
//
//	if err := dec.Token(); err != nil {
//	    return errors.WrapParse(err, "Reader", "Pull", "decode token")
//	}
//
// Check classification when deciding whether a stream can continue:
//
//	if errors.IsValidation(err) && !r.strict {
//	    // lenient mode: flag and continue
//	}
//
// # Error Wrapping Pattern
//
// All error wrapping follows the standardized format:
//
//	"component.method: action failed: %w"
//
// Classification is preserved through wrapping chains and integrates with
// the standard library's errors.Is, errors.As and Unwrap.
package errors
