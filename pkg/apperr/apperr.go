// Package apperr defines the error taxonomy shared by the engines and the HTTP layer.
package apperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindValidation     Kind = "validation"
	KindState          Kind = "state"
	KindNotFound       Kind = "not_found"
	KindRepository     Kind = "repository"
	KindPartialFailure Kind = "partial_failure"
)

// Error is a classified failure. Code names the specific condition
// (e.g. "InsufficientStock"), Entity optionally carries the offending id.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Entity  string
	Cause   error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Code
	}
	if e.Entity != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Entity)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches another *Error by Code, or by Kind when the target has no Code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Code != "" {
		return e.Code == t.Code
	}
	return e.Kind == t.Kind
}

// With returns a copy of a named error carrying the given entity id.
func (e *Error) With(entity string) *Error {
	c := *e
	c.Entity = entity
	return &c
}

// Wrap returns a copy of a named error with a cause attached.
func (e *Error) Wrap(cause error) *Error {
	c := *e
	c.Cause = cause
	return &c
}

// Kind sentinels for errors.Is(err, apperr.Validation) style checks.
var (
	Validation     = &Error{Kind: KindValidation}
	State          = &Error{Kind: KindState}
	NotFound       = &Error{Kind: KindNotFound}
	Repository     = &Error{Kind: KindRepository}
	PartialFailure = &Error{Kind: KindPartialFailure}
)

var (
	ErrInvalidAmount      = &Error{Kind: KindValidation, Code: "InvalidAmount", Message: "amount must be non-negative with at most 2 decimals"}
	ErrInvalidQuantity    = &Error{Kind: KindValidation, Code: "InvalidQuantity", Message: "invalid quantity"}
	ErrInvalidPrice       = &Error{Kind: KindValidation, Code: "InvalidPrice", Message: "price must be greater than zero"}
	ErrOutOfStock         = &Error{Kind: KindValidation, Code: "OutOfStock", Message: "not enough stock"}
	ErrNoCustomerSelected = &Error{Kind: KindValidation, Code: "NoCustomerSelected", Message: "a customer must be selected"}
	ErrEmptyCart          = &Error{Kind: KindValidation, Code: "EmptyCart", Message: "the cart is empty"}
	ErrInsufficientStock  = &Error{Kind: KindValidation, Code: "InsufficientStock", Message: "insufficient stock"}
	ErrDuplicateID        = &Error{Kind: KindValidation, Code: "DuplicateId", Message: "a customer with that DNI already exists"}
	ErrInvalidInput       = &Error{Kind: KindValidation, Code: "InvalidInput", Message: "invalid input"}
	ErrInvalidCredentials = &Error{Kind: KindValidation, Code: "InvalidCredentials", Message: "invalid credentials"}
	ErrProfileNotAllowed  = &Error{Kind: KindValidation, Code: "ProfileNotAllowed", Message: "profile is not allowed to access the system"}
	ErrEncoding           = &Error{Kind: KindRepository, Code: "EncodingError", Message: "failed to encode artifact"}
	ErrWrongState         = &Error{Kind: KindState, Code: "WrongState", Message: "operation not allowed in current state"}
	ErrNotFound           = &Error{Kind: KindNotFound, Code: "NotFound", Message: "record not found"}
)

// Invalid builds an ad-hoc validation error with a custom message.
func Invalid(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Code: "InvalidInput", Message: fmt.Sprintf(format, args...)}
}

// Store wraps an opaque backend failure.
func Store(cause error) *Error {
	return &Error{Kind: KindRepository, Code: "RepositoryError", Message: "repository error", Cause: cause}
}

// KindOf reports the kind of err, or KindRepository for unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindRepository
}

// Partial reports a multi-row operation where some rows failed.
func Partial(failed, total int) *Error {
	return &Error{
		Kind:    KindPartialFailure,
		Code:    "PartialFailure",
		Message: fmt.Sprintf("%d of %d rows failed", failed, total),
	}
}
