// Package apperr defines the error taxonomy shared by services and the HTTP
// perimeter. Services only ever return these kinds; the wrapped cause is kept
// for logging and never shown to callers.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindInvalidCredentials
	KindAccountDeactivated
	KindConflict
	KindValidationFailed
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is match two apperr values by kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func NotFound(message string) *Error           { return New(KindNotFound, message) }
func InvalidCredentials(message string) *Error { return New(KindInvalidCredentials, message) }
func AccountDeactivated(message string) *Error { return New(KindAccountDeactivated, message) }
func Conflict(message string) *Error           { return New(KindConflict, message) }
func ValidationFailed(message string) *Error   { return New(KindValidationFailed, message) }

func Internal(err error) *Error {
	return Wrap(KindInternal, "internal error", err)
}

// KindOf extracts the kind from any error chain; unknown errors are internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf returns the caller-safe message for err.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal {
		return e.Message
	}
	return "internal error"
}
