// Package apperr is the error taxonomy shared by the collection and document
// services. Every failure that leaves a service is one of these kinds, and the
// HTTP layer maps the kind to a status code in exactly one place.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindInvalidInput
	KindUnauthorized
	KindNotFound
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "InvalidInput"
	case KindUnauthorized:
		return "Unauthorized"
	case KindNotFound:
		return "NotFound"
	case KindValidation:
		return "ValidationFailure"
	default:
		return "InternalFailure"
	}
}

// Error carries the kind plus a client-facing message. Field and Expected are
// only set for validation failures.
type Error struct {
	Kind     Kind
	Message  string
	Field    string
	Expected string
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Details is the human-readable detail string returned next to the message.
func (e *Error) Details() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return ""
}

func InvalidInput(msg string) *Error { return &Error{Kind: KindInvalidInput, Message: msg} }

func Forbidden() *Error { return &Error{Kind: KindUnauthorized, Message: "Unauthorized"} }

func NotFound(what string) *Error { return &Error{Kind: KindNotFound, Message: what + " not found"} }

func Validation(field, expected string) *Error {
	return &Error{
		Kind:     KindValidation,
		Message:  fmt.Sprintf("Invalid type for field %q, expected %s", field, expected),
		Field:    field,
		Expected: expected,
	}
}

func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// KindOf reports the kind of err; anything that is not an *Error is internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// HTTPStatus maps err to the response status code.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindInvalidInput, KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
