package errors

import (
	"errors"
	"fmt"
)

// Kind classifies a domain failure for callers. Every user-visible failure is
// a structured error with one of these kinds plus a human message.
type Kind string

const (
	KindValidation  Kind = "validation"
	KindNotFound    Kind = "not_found"
	KindTransition  Kind = "transition"
	KindUnavailable Kind = "unavailable"
)

// Error is the structured domain error surfaced to callers.
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

// Is matches two domain errors by kind and message, so sentinel values below
// work with errors.Is even when wrapped.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

// Validationf builds a validation error with a caller-facing message.
func Validationf(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFoundf builds a not-found error.
func NotFoundf(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Transitionf builds a state machine violation error.
func Transitionf(format string, args ...any) *Error {
	return &Error{Kind: KindTransition, Message: fmt.Sprintf(format, args...)}
}

// Unavailable wraps a dependency failure as retryable for the caller.
func Unavailable(msg string, err error) *Error {
	return &Error{Kind: KindUnavailable, Message: msg, Err: err}
}

// KindOf extracts the kind of a domain error, or empty for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

var (
	ErrNotFound        = &Error{Kind: KindNotFound, Message: "not found"}
	ErrCartEmpty       = &Error{Kind: KindValidation, Message: "cart is empty"}
	ErrInvalidQuantity = &Error{Kind: KindValidation, Message: "quantity must be positive"}
	ErrMissingOwner    = &Error{Kind: KindValidation, Message: "cart owner requires a user or session reference"}
	ErrMissingCustomer = &Error{Kind: KindValidation, Message: "customer identity is required"}
	ErrCheckoutBusy    = &Error{Kind: KindValidation, Message: "another checkout for this cart is already in progress"}
)
