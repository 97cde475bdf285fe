// Package apperror defines the error kinds the HTTP layer knows how to map
// onto status codes.
package apperror

import (
	"errors"
	"strings"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindBadRequest
	KindInvalidArgument
	KindConflict
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindBadRequest:
		return "bad_request"
	case KindInvalidArgument:
		return "invalid_argument"
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindUnavailable:
		return "unavailable"
	default:
		return "internal"
	}
}

// Error is a user-facing failure. Message is safe to send to clients;
// Details carries the itemized violations of a validation failure.
type Error struct {
	Kind    Kind
	Message string
	Details []string
}

func (e *Error) Error() string {
	if len(e.Details) == 0 {
		return e.Message
	}
	return e.Message + ": " + strings.Join(e.Details, "; ")
}

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func Validation(msg string, details []string) *Error {
	return &Error{Kind: KindValidation, Message: msg, Details: details}
}

func BadRequest(msg string) *Error      { return New(KindBadRequest, msg) }
func InvalidArgument(msg string) *Error { return New(KindInvalidArgument, msg) }
func Conflict(msg string) *Error        { return New(KindConflict, msg) }
func Unauthorized(msg string) *Error    { return New(KindUnauthorized, msg) }
func Forbidden(msg string) *Error       { return New(KindForbidden, msg) }
func NotFound(msg string) *Error        { return New(KindNotFound, msg) }
func Unavailable(msg string) *Error     { return New(KindUnavailable, msg) }

// KindOf returns the kind of the first *Error in err's chain, or
// KindInternal when there is none.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// As unwraps err into an *Error.
func As(err error) (*Error, bool) {
	var appErr *Error
	ok := errors.As(err, &appErr)
	return appErr, ok
}
