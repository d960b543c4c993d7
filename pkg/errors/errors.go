// Package errors defines the coded error type shared by services and the HTTP
// layer. Each code maps to a status, a public message and whether details may
// be shown to clients.
package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeValidation     Code = "VALIDATION_ERROR"
	CodeUnauthorized   Code = "UNAUTHORIZED"
	CodeForbidden      Code = "FORBIDDEN"
	CodeAccountPending Code = "ACCOUNT_PENDING"
	CodeAccountDenied  Code = "ACCOUNT_DENIED"
	CodeNotFound       Code = "NOT_FOUND"
	CodeConflict       Code = "CONFLICT"
	CodeSlotConflict   Code = "SLOT_CONFLICT"
	CodeDuplicateEmail Code = "DUPLICATE_EMAIL"
	CodeStateConflict  Code = "STATE_CONFLICT"
	CodeRateLimit      Code = "RATE_LIMIT_EXCEEDED"
	CodeInternal       Code = "INTERNAL_ERROR"
	CodeDependency     Code = "DEPENDENCY_ERROR"
)

type Metadata struct {
	HTTPStatus     int
	Retryable      bool
	PublicMessage  string
	DetailsAllowed bool
}

const (
	hideDetails = false
	showDetails = true
)

func clientError(status int, msg string, details bool) Metadata {
	return Metadata{HTTPStatus: status, PublicMessage: msg, DetailsAllowed: details}
}

func serverError(status int, msg string, details bool) Metadata {
	return Metadata{HTTPStatus: status, PublicMessage: msg, DetailsAllowed: details, Retryable: true}
}

var metadataByCode = map[Code]Metadata{
	CodeValidation:     clientError(http.StatusBadRequest, "validation failed", showDetails),
	CodeUnauthorized:   clientError(http.StatusUnauthorized, "authentication required", hideDetails),
	CodeForbidden:      clientError(http.StatusForbidden, "access denied", hideDetails),
	CodeAccountPending: clientError(http.StatusForbidden, "account pending approval", hideDetails),
	// Denied users see the administrator's reason verbatim.
	CodeAccountDenied:  clientError(http.StatusForbidden, "account access denied", showDetails),
	CodeNotFound:       clientError(http.StatusNotFound, "resource not found", hideDetails),
	CodeConflict:       clientError(http.StatusConflict, "conflict detected", hideDetails),
	CodeSlotConflict:   clientError(http.StatusConflict, "time slot already booked", showDetails),
	CodeDuplicateEmail: clientError(http.StatusBadRequest, "email already exists", hideDetails),
	CodeStateConflict:  clientError(http.StatusUnprocessableEntity, "state transition disallowed", showDetails),
	CodeRateLimit:      clientError(http.StatusTooManyRequests, "rate limit exceeded", hideDetails),
	CodeInternal:       serverError(http.StatusInternalServerError, "internal server error", hideDetails),
	CodeDependency:     serverError(http.StatusServiceUnavailable, "dependency unavailable", showDetails),
}

// MetadataFor falls back to the internal error entry for unknown codes.
func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Newf(code Code, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

func Wrap(code Code, err error, message string) *Error {
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) WithDetails(details any) *Error {
	if e != nil {
		e.details = details
	}
	return e
}

func (e *Error) Error() string {
	switch {
	case e == nil:
		return ""
	case e.cause != nil:
		return fmt.Sprintf("%s: %s: %v", e.code, e.message, e.cause)
	default:
		return fmt.Sprintf("%s: %s", e.code, e.message)
	}
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Is reports whether any coded error in err's chain carries code.
func Is(err error, code Code) bool {
	for err != nil {
		if typed, ok := err.(*Error); ok && typed != nil && typed.code == code {
			return true
		}
		err = stdErrors.Unwrap(err)
	}
	return false
}

// As returns the outermost coded error in err's chain.
func As(err error) *Error {
	var typed *Error
	if err != nil && stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}
