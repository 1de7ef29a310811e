// Package apperr classifies failures so every router answers with the same status codes.
package apperr

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// Kind is the category of an application failure.
type Kind int

const (
	// KindInternal covers store failures and anything unclassified.
	KindInternal Kind = iota
	// KindValidation means missing or malformed input.
	KindValidation
	// KindUnauthorized means the caller is not authenticated.
	KindUnauthorized
	// KindForbidden means the presented credentials were rejected.
	KindForbidden
	// KindNotFound means no matching document exists.
	KindNotFound
	// KindConflict means the resource already exists.
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// HTTPStatus maps a kind to its response status code.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified failure with a message safe to show to users.
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

// Is matches two application errors of the same kind and message so sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == e.Message
}

// New creates a classified error.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap attaches a kind and user message to an underlying cause.
func Wrap(err error, kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Validation is shorthand for a KindValidation error.
func Validation(message string) *Error {
	return New(KindValidation, message)
}

// NotFound is shorthand for a KindNotFound error.
func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

// KindOf reports the kind of err. Validator failures count as validation errors.
func KindOf(err error) Kind {
	if err == nil {
		return KindInternal
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		return KindValidation
	}
	return KindInternal
}

// MessageOf returns the user-facing message for err, falling back when none is attached.
func MessageOf(err error, fallback string) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		return validationErrors.Error()
	}
	return fallback
}
