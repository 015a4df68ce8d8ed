// File: models/errors.go
package models

import "errors"

// Code is a machine-readable failure code of a club operation.
type Code string

const (
	CodeUnknown          Code = "UNKNOWN"
	CodeForbidden        Code = "FORBIDDEN"
	CodeNotFound         Code = "NOT_FOUND"
	CodeDuplicatePhone   Code = "DUPLICATE_PHONE"
	CodeInvalidAmount    Code = "INVALID_AMOUNT"
	CodeInvalidQuantity  Code = "INVALID_QUANTITY"
	CodeInvalidPrice     Code = "INVALID_PRICE"
	CodeEmptyDescription Code = "EMPTY_DESCRIPTION"
	CodeAlreadyCompleted Code = "ALREADY_COMPLETED"
	CodeInvalidInput     Code = "INVALID_INPUT"
)

// Error is a validation failure raised by a club operation.
type Error struct {
	Code     Code
	Message  string
	Metadata map[string]string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	return e.Message
}

// Is matches any *Error with the same code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// NewError creates an error with a code and message.
func NewError(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WithMetadata creates an error carrying context such as the offending id.
func WithMetadata(code Code, message string, metadata map[string]string) *Error {
	return &Error{Code: code, Message: message, Metadata: metadata}
}

// Sentinels for errors.Is checks.
var (
	ErrForbidden        = &Error{Code: CodeForbidden}
	ErrNotFound         = &Error{Code: CodeNotFound}
	ErrDuplicatePhone   = &Error{Code: CodeDuplicatePhone}
	ErrInvalidAmount    = &Error{Code: CodeInvalidAmount}
	ErrInvalidQuantity  = &Error{Code: CodeInvalidQuantity}
	ErrInvalidPrice     = &Error{Code: CodeInvalidPrice}
	ErrEmptyDescription = &Error{Code: CodeEmptyDescription}
	ErrAlreadyCompleted = &Error{Code: CodeAlreadyCompleted}
	ErrInvalidInput     = &Error{Code: CodeInvalidInput}
)

// CodeOf extracts the code of err, or CodeUnknown.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}
