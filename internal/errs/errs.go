// Package errs defines the error kinds returned by the membership and birthday core.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so callers can tell outcomes apart without string matching.
type Kind int

const (
	// KindStorage means the underlying store is unavailable or failed.
	// It is the zero value so that unclassified errors are never mistaken for domain outcomes.
	KindStorage Kind = iota
	KindNotFound
	KindConflict
	KindForbidden
	KindInvalidInput
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindForbidden:
		return "forbidden"
	case KindInvalidInput:
		return "invalid_input"
	default:
		return "storage_failure"
	}
}

// Error is a classified error with a user-visible message.
type Error struct {
	Kind    Kind
	Message string // safe to show to users
	Err     error  // underlying cause, for logs
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an error of the given kind with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches cause to a copy of e.
func (e *Error) Wrap(cause error) *Error {
	return &Error{Kind: e.Kind, Message: e.Message, Err: cause}
}

// NotFound reports a missing user, contact or group.
func NotFound(format string, args ...any) *Error {
	return New(KindNotFound, format, args...)
}

// Conflict reports a duplicate entry or a lost optimistic-version race.
func Conflict(format string, args ...any) *Error {
	return New(KindConflict, format, args...)
}

// Forbidden reports an actor without the required role or ownership.
func Forbidden(format string, args ...any) *Error {
	return New(KindForbidden, format, args...)
}

// InvalidInput reports a malformed or missing argument.
func InvalidInput(format string, args ...any) *Error {
	return New(KindInvalidInput, format, args...)
}

// Storage wraps a store failure. op names the failed operation.
func Storage(op string, cause error) *Error {
	return &Error{Kind: KindStorage, Message: op + " failed", Err: cause}
}

// KindOf returns the kind of err. Errors that are not *Error are storage failures.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStorage
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Message returns the user-visible message of err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal storage error"
}

// Classify returns err unchanged when it already carries a kind, and wraps it
// as a storage failure otherwise.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return Storage(op, err)
}
