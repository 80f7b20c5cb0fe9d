// Package apperr defines the error taxonomy shared by the stores, the
// gateway and the HTTP boundary. Every failure surfaced to a caller carries
// one of the kinds below; the boundary maps kinds to protocol status codes.
package apperr

import (
	"errors"
	"fmt"
)

// Kind is the machine-readable class of an error.
type Kind string

const (
	Validation          Kind = "validation_error"
	DuplicateCategory   Kind = "duplicate_category"
	InvalidCategory     Kind = "invalid_category"
	NotFound            Kind = "not_found"
	ReferentialConflict Kind = "referential_conflict"
	Unauthorized        Kind = "unauthorized"
)

// Error is a classified error with a human-readable message.
type Error struct {
	Kind    Kind
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

// Is reports a match for any *Error of the same kind, so callers can write
// errors.Is(err, apperr.ErrNotFound).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

// Sentinels for errors.Is comparisons.
var (
	ErrValidation          = &Error{Kind: Validation}
	ErrDuplicateCategory   = &Error{Kind: DuplicateCategory}
	ErrInvalidCategory     = &Error{Kind: InvalidCategory}
	ErrNotFound            = &Error{Kind: NotFound}
	ErrReferentialConflict = &Error{Kind: ReferentialConflict}
	ErrUnauthorized        = &Error{Kind: Unauthorized}
)

// New returns a classified error with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap classifies err under kind, keeping it as the cause.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or "" when err
// is unclassified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// MessageOf returns the message of the first *Error in err's chain.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return ""
}
