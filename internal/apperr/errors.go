// Package apperr defines the application error taxonomy. Services
// return these typed errors and the API layer translates them into
// problem responses.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an application error
type Kind string

const (
	KindNotFound          Kind = "not-found"
	KindUserNotFound      Kind = "user-not-found"
	KindValidation        Kind = "validation"
	KindBusiness          Kind = "business"
	KindInsufficientStock Kind = "insufficient-stock"
	KindCart              Kind = "cart"
	KindUnauthorized      Kind = "unauthorized"
	KindAccessDenied      Kind = "access-denied"
	KindConflict          Kind = "conflict"
	KindConcurrency       Kind = "concurrency"
	KindStorage           Kind = "storage"
	KindInternal          Kind = "internal"
)

// FieldError describes a single invalid request field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is a classified application error
type Error struct {
	Kind    Kind
	Message string
	Fields  []FieldError
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an error of the given kind
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap classifies an underlying error
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// NotFound reports a missing resource by name and identifier
func NotFound(resource, id string) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s not found: %s", resource, id)}
}

// UserNotFound reports a missing account
func UserNotFound(identifier string) *Error {
	return &Error{Kind: KindUserNotFound, Message: fmt.Sprintf("user not found: %s", identifier)}
}

// Validation reports invalid request data
func Validation(message string, fields ...FieldError) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

// Business reports a domain rule violation
func Business(message string) *Error {
	return &Error{Kind: KindBusiness, Message: message}
}

// InsufficientStock reports that a product cannot cover the requested
// quantity. The product name is surfaced to the caller.
func InsufficientStock(productName string) *Error {
	return &Error{
		Kind:    KindInsufficientStock,
		Message: fmt.Sprintf("insufficient stock for product: %s", productName),
	}
}

// Cart reports an invalid cart operation
func Cart(message string) *Error {
	return &Error{Kind: KindCart, Message: message}
}

// Unauthorized reports a failed authentication
func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

// AccessDenied reports an authorization failure on an existing resource
func AccessDenied(message string) *Error {
	return &Error{Kind: KindAccessDenied, Message: message}
}

// Conflict reports a uniqueness violation
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// Concurrency reports an optimistic locking failure that persisted
// through retries
func Concurrency(message string) *Error {
	return &Error{Kind: KindConcurrency, Message: message}
}

// Storage reports a file storage failure
func Storage(message string, err error) *Error {
	return &Error{Kind: KindStorage, Message: message, Err: err}
}

// Internal wraps an unexpected failure
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "internal error", Err: err}
}

// KindOf extracts the kind from any error, defaulting to internal
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
