package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind     Kind
		expected string
	}{
		{KindParse, "parse"},
		{KindValidation, "validation"},
		{KindValue, "value"},
		{KindCapability, "capability"},
		{KindClosed, "closed"},
		{Kind(999), "unknown"},
	}

	for _, test := range tests {
		t.Run(test.expected, func(t *testing.T) {
			if got := test.kind.String(); got != test.expected {
				t.Errorf("expected %s, got %s", test.expected, got)
			}
		})
	}
}

func TestClassificationPredicates(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
		want  bool
	}{
		{"nil error", nil, IsParse, false},
		{"parse sentinel", ErrParse, IsParse, true},
		{"wrapped parse", fmt.Errorf("near line 3: %w", ErrParse), IsParse, true},
		{"validation sentinel", ErrValidation, IsValidation, true},
		{"duplicate key", ErrDuplicateKey, IsValidation, true},
		{"unknown prefix", ErrUnknownPrefix, IsValidation, true},
		{"state order", ErrStateOrder, IsValidation, true},
		{"value sentinel", ErrValue, IsValue, true},
		{"kind mismatch", ErrKindMismatch, IsValue, true},
		{"capability sentinel", ErrCapability, IsCapability, true},
		{"closed sentinel", ErrClosed, IsClosed, true},
		{"parse is not validation", ErrParse, IsValidation, false},
		{"closed is not capability", ErrClosed, IsCapability, false},
		{"classified parse", &ClassifiedError{Kind: KindParse, Err: fmt.Errorf("test")}, IsParse, true},
		{"classified value", &ClassifiedError{Kind: KindValue, Err: fmt.Errorf("test")}, IsValue, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := test.check(test.err); got != test.want {
				t.Errorf("expected %v, got %v for error: %v", test.want, got, test.err)
			}
		})
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"parse", ErrParse, KindParse},
		{"value", ErrValue, KindValue},
		{"kind mismatch", ErrKindMismatch, KindValue},
		{"capability", ErrCapability, KindCapability},
		{"closed", ErrClosed, KindClosed},
		{"validation default", fmt.Errorf("something else"), KindValidation},
		{"classified wins", WrapValue(ErrParse, "Test", "KindOf", "check"), KindValue},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := KindOf(test.err); got != test.want {
				t.Errorf("expected %v, got %v", test.want, got)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	base := fmt.Errorf("base error")

	wrapped := Wrap(base, "Reader", "Pull", "decode token")
	expected := "Reader.Pull: decode token failed: base error"
	if wrapped.Error() != expected {
		t.Errorf("expected %q, got %q", expected, wrapped.Error())
	}
	if !errors.Is(wrapped, base) {
		t.Error("wrapped error should match base via errors.Is")
	}

	if Wrap(nil, "Reader", "Pull", "decode token") != nil {
		t.Error("wrapping nil should return nil")
	}
}

func TestWrapKindPreservesChain(t *testing.T) {
	wrapped := WrapValidation(ErrUnknownPrefix, "Reader", "Pull", "resolve prefix")

	if !errors.Is(wrapped, ErrUnknownPrefix) {
		t.Error("sentinel should be reachable through the chain")
	}
	if !IsValidation(wrapped) {
		t.Error("classification should be preserved")
	}

	var ce *ClassifiedError
	if !errors.As(wrapped, &ce) {
		t.Fatal("expected a ClassifiedError in the chain")
	}
	if ce.Component != "Reader" || ce.Operation != "Pull" {
		t.Errorf("unexpected origin: %s.%s", ce.Component, ce.Operation)
	}

	for _, wrap := range []func(error, string, string, string) error{
		WrapParse, WrapValidation, WrapValue, WrapCapability, WrapClosed,
	} {
		if wrap(nil, "C", "M", "a") != nil {
			t.Error("wrapping nil should return nil")
		}
	}
}
