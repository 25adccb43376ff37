// Package domainerrors defines the error taxonomy shared by services and
// handlers. Services return these; the HTTP layer maps codes to statuses.
//
// For infrastructure facts (record missing in a store, conflicting update),
// stores return pkg/platform/sentinel errors and services translate them here.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies an error for callers and for HTTP mapping.
type Code string

const (
	// CodeValidation marks malformed or out-of-range input. Recoverable by
	// resubmitting corrected input.
	CodeValidation Code = "validation_error"
	// CodeContentRejected marks a content-filter veto on a write.
	CodeContentRejected Code = "content_rejected"
	// CodeNotFound marks a reference to an absent record.
	CodeNotFound Code = "not_found"
	// CodeConflict marks a concurrent-update conflict. Transient; retried at
	// the store boundary and not normally surfaced to end callers.
	CodeConflict Code = "conflict"
	// CodeBadRequest marks a request the transport layer could not decode.
	CodeBadRequest Code = "bad_request"
	// CodeInternal marks unexpected failures. The description is never
	// exposed to callers.
	CodeInternal Code = "internal_error"
)

// Error carries a code, a caller-facing message, and an optional cause.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New creates a domain error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates a domain error that preserves the underlying cause for
// errors.Is/errors.As chains and logging.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

// Is reports whether err (or anything it wraps) is a domain error with the
// given code.
func Is(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf extracts the code from err, defaulting to CodeInternal for
// non-domain errors.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// MessageOf extracts the caller-facing message from err. Non-domain errors
// yield an empty message so internals never leak.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return ""
}

// ToHTTPStatus maps an error code to its HTTP status.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeValidation, CodeContentRejected, CodeBadRequest:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
