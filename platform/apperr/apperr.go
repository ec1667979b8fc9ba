// Package apperr holds the typed errors services return. httpkit.HandleError
// turns the Kind into a status code and the Message into the response body.
package apperr

import (
	"errors"
	"net/http"
)

// Kind is the error category. The string value shows up in logs.
type Kind string

const (
	KindUnknown       Kind = ""
	KindNotFound      Kind = "not_found"
	KindValidation    Kind = "validation"
	KindBadRequest    Kind = "bad_request"
	KindForbidden     Kind = "forbidden"
	KindUnauthorized  Kind = "unauthorized"
	KindMisconfigured Kind = "misconfigured"
	KindInternal      Kind = "internal"
)

var statusByKind = map[Kind]int{
	KindNotFound:      http.StatusNotFound,
	KindValidation:    http.StatusBadRequest,
	KindBadRequest:    http.StatusBadRequest,
	KindForbidden:     http.StatusForbidden,
	KindUnauthorized:  http.StatusUnauthorized,
	KindMisconfigured: http.StatusInternalServerError,
	KindInternal:      http.StatusInternalServerError,
}

// Error carries a Kind, a client-safe Message and an optional cause.
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

// HTTPStatus maps the Kind; unknown kinds are 500.
func (e *Error) HTTPStatus() int {
	if status, ok := statusByKind[e.Kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap keeps err as the cause. Only Message reaches the client.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func NotFound(message string) *Error      { return New(KindNotFound, message) }
func Validation(message string) *Error    { return New(KindValidation, message) }
func BadRequest(message string) *Error    { return New(KindBadRequest, message) }
func Forbidden(message string) *Error     { return New(KindForbidden, message) }
func Unauthorized(message string) *Error  { return New(KindUnauthorized, message) }
func Misconfigured(message string) *Error { return New(KindMisconfigured, message) }
func Internal(message string) *Error      { return New(KindInternal, message) }

// GetKind returns the Kind of the first *Error in err's chain.
func GetKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func Is(err error, kind Kind) bool {
	return GetKind(err) == kind
}
