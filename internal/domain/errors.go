package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies ledger failures so that callers can react without
// parsing messages
type ErrorKind string

const (
	KindNotFound        ErrorKind = "NOT_FOUND"
	KindInvalidArgument ErrorKind = "INVALID_ARGUMENT"
	KindInvalidState    ErrorKind = "INVALID_STATE"
	KindAmountMismatch  ErrorKind = "AMOUNT_MISMATCH"
	KindForbidden       ErrorKind = "FORBIDDEN"
	KindConflict        ErrorKind = "CONFLICT"
	KindStoreFailure    ErrorKind = "STORE_FAILURE"
)

// Error is the structured error returned by the ledger engine.
// Err optionally carries the underlying cause (e.g. a driver error) for diagnostics.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match on kind, e.g. errors.Is(err, &Error{Kind: KindNotFound})
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

func newError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NewNotFound(format string, args ...any) *Error {
	return newError(KindNotFound, format, args...)
}

func NewInvalidArgument(format string, args ...any) *Error {
	return newError(KindInvalidArgument, format, args...)
}

func NewInvalidState(format string, args ...any) *Error {
	return newError(KindInvalidState, format, args...)
}

func NewAmountMismatch(format string, args ...any) *Error {
	return newError(KindAmountMismatch, format, args...)
}

func NewForbidden(format string, args ...any) *Error {
	return newError(KindForbidden, format, args...)
}

func NewConflict(format string, args ...any) *Error {
	return newError(KindConflict, format, args...)
}

// NewStoreFailure wraps a persistence error. The cause is kept for logging only.
func NewStoreFailure(cause error, format string, args ...any) *Error {
	e := newError(KindStoreFailure, format, args...)
	e.Err = cause
	return e
}

// KindOf returns the kind of err. Errors that did not originate in the ledger
// are reported as store failures.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStoreFailure
}

// MessageOf returns the human-readable message without the wrapped cause
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal error"
}

// IsNotFound reports whether err is a NotFound ledger error
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}
