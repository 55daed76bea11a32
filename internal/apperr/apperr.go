// Package apperr is the error taxonomy shared by services and handlers.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindAuth           Kind = "auth"
	KindValidation     Kind = "validation"
	KindNotFound       Kind = "not_found"
	KindForbidden      Kind = "forbidden"
	KindNotInitialized Kind = "not_initialized"
	KindUnknown        Kind = "unknown"
)

// Codes narrow a Kind down to the specific failure.
const (
	CodeInvalidCredentials = "invalid_credentials"
	CodeEmailTaken         = "email_taken"
	CodeSessionRevoked     = "session_revoked"
	CodeEmptySignature     = "empty_signature"
	CodeInvalidSignature   = "invalid_signature"
	CodeNoItems            = "no_items"
	CodeInvalidQuantity    = "invalid_quantity"
	CodeItemNotFound       = "item_not_found"
	CodeInsufficientStock  = "insufficient_stock"
	CodeInvalidInput       = "invalid_input"
)

type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error by Kind and, when set on the target, Code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Code == "" || t.Code == e.Code)
}

// HTTPStatus maps the error onto a response status.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindAuth:
		return http.StatusUnauthorized
	case KindValidation:
		if e.Code == CodeInsufficientStock {
			return http.StatusConflict
		}
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindNotInitialized:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// Sentinels for errors.Is checks.
var (
	ErrAuth              = &Error{Kind: KindAuth}
	ErrValidation        = &Error{Kind: KindValidation}
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrNotInitialized    = &Error{Kind: KindNotInitialized}
	ErrItemNotFound      = &Error{Kind: KindValidation, Code: CodeItemNotFound}
	ErrInsufficientStock = &Error{Kind: KindValidation, Code: CodeInsufficientStock}
	ErrEmptySignature    = &Error{Kind: KindValidation, Code: CodeEmptySignature}
)

func Auth(code, msg string) error {
	return &Error{Kind: KindAuth, Code: code, Message: msg}
}

func Validation(code, format string, args ...any) error {
	return &Error{Kind: KindValidation, Code: code, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Forbidden(msg string) error {
	return &Error{Kind: KindForbidden, Message: msg}
}

func NotInitialized(component string) error {
	return &Error{Kind: KindNotInitialized, Message: component + " not initialized"}
}

func ItemNotFound(itemID string) error {
	return &Error{Kind: KindValidation, Code: CodeItemNotFound,
		Message: fmt.Sprintf("supply item %q is no longer available", itemID)}
}

func InsufficientStock(name string, requested, available int) error {
	return &Error{Kind: KindValidation, Code: CodeInsufficientStock,
		Message: fmt.Sprintf("not enough %s available. Requested: %d, Available: %d", name, requested, available)}
}

// From classifies err. Anything outside the taxonomy becomes KindUnknown
// with its message passed through.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Kind: KindUnknown, Message: err.Error(), Err: err}
}
