package errs

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name:     "without wrapped error",
			err:      NotFound("group %s not found", "g1"),
			expected: "not_found: group g1 not found",
		},
		{
			name:     "with wrapped error",
			err:      Storage("get group", errors.New("disk I/O error")),
			expected: "storage_failure: get group failed: disk I/O error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Expected '%s', got '%s'", tt.expected, got)
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
		{"not found", NotFound("x"), KindNotFound},
		{"conflict", Conflict("x"), KindConflict},
		{"forbidden", Forbidden("x"), KindForbidden},
		{"invalid input", InvalidInput("x"), KindInvalidInput},
		{"wrapped by fmt", fmt.Errorf("outer: %w", Conflict("x")), KindConflict},
		{"plain error", errors.New("boom"), KindStorage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	base := Forbidden("only admins can add members")
	cause := errors.New("role member")

	wrapped := base.Wrap(cause)

	if wrapped.Kind != KindForbidden {
		t.Errorf("Expected kind forbidden, got %v", wrapped.Kind)
	}
	if !errors.Is(wrapped, cause) {
		t.Error("Expected wrapped error to unwrap to cause")
	}
	if base.Err != nil {
		t.Error("Wrap must not modify the receiver")
	}
}

func TestClassify(t *testing.T) {
	if Classify("op", nil) != nil {
		t.Error("Expected nil for nil error")
	}

	domain := NotFound("user not found")
	if got := Classify("op", domain); got != error(domain) {
		t.Errorf("Expected domain error unchanged, got %v", got)
	}

	raw := errors.New("database is locked")
	got := Classify("save group", raw)
	if !Is(got, KindStorage) {
		t.Errorf("Expected storage kind, got %v", KindOf(got))
	}
	if !errors.Is(got, raw) {
		t.Error("Expected classified error to keep the cause")
	}
	if Message(got) != "save group failed" {
		t.Errorf("Unexpected message %q", Message(got))
	}
}
