// Package apperr defines the error taxonomy shared by repositories, services and handlers.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for propagation and HTTP mapping.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindForbidden
	KindValidation
	KindConflict
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "internal"
	}
}

// Error is an application error carrying a kind, a stable code and a client-safe message.
type Error struct {
	Kind    Kind   `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
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

// Is matches any *Error with the same kind and code, so wrapped copies of a
// sentinel still satisfy errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

// Wrap returns a copy of e carrying err as its cause.
func (e *Error) Wrap(err error) *Error {
	return &Error{Kind: e.Kind, Code: e.Code, Message: e.Message, Err: err}
}

// Withf returns a copy of e with a more specific message.
func (e *Error) Withf(format string, args ...any) *Error {
	return &Error{Kind: e.Kind, Code: e.Code, Message: fmt.Sprintf(format, args...), Err: e.Err}
}

func NotFound(code, message string) *Error {
	return &Error{Kind: KindNotFound, Code: code, Message: message}
}

func Forbidden(code, message string) *Error {
	return &Error{Kind: KindForbidden, Code: code, Message: message}
}

func Validation(code, message string) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: message}
}

func Conflict(code, message string) *Error {
	return &Error{Kind: KindConflict, Code: code, Message: message}
}

func Unauthorized(code, message string) *Error {
	return &Error{Kind: KindUnauthorized, Code: code, Message: message}
}

// Internal wraps a store or unexpected failure. The message never exposes err.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Code: "INTERNAL", Message: "internal server error", Err: err}
}

// KindOf reports the kind of err; unknown errors are internal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// HTTPStatus maps err to the response status code.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Public returns the code and message safe to send to a client.
func Public(err error) (code, message string) {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Kind != KindInternal {
		return appErr.Code, appErr.Message
	}
	return "INTERNAL", "internal server error"
}

// Common errors
var (
	ErrItemNotFound     = NotFound("ITEM_NOT_FOUND", "item not found")
	ErrPartyNotFound    = NotFound("PARTY_NOT_FOUND", "party not found")
	ErrEnquiryNotFound  = NotFound("ENQUIRY_NOT_FOUND", "enquiry not found")
	ErrOrderNotFound    = NotFound("ORDER_NOT_FOUND", "order not found")
	ErrOrderItemMissing = NotFound("ORDER_ITEM_NOT_FOUND", "order item not found on this order")
	ErrReturnNotFound   = NotFound("RETURN_NOT_FOUND", "return not found")
	ErrPaymentNotFound  = NotFound("PAYMENT_NOT_FOUND", "payment not found")
	ErrUserNotFound     = NotFound("USER_NOT_FOUND", "user not found")

	ErrBranchScope      = Forbidden("BRANCH_SCOPE", "resource belongs to another branch")
	ErrPaymentOwnership = Forbidden("PAYMENT_OWNERSHIP", "one or more payments do not exist or are not owned by you")
	ErrPermissionDenied = Forbidden("PERMISSION_DENIED", "insufficient permissions")

	ErrInvalidCredentials = Unauthorized("INVALID_CREDENTIALS", "invalid email or password")
	ErrUnauthenticated    = Unauthorized("UNAUTHENTICATED", "missing or invalid token")
	ErrAccountSuspended   = Forbidden("ACCOUNT_SUSPENDED", "account suspended, contact an administrator")

	ErrInvalidInput      = Validation("INVALID_INPUT", "invalid input provided")
	ErrInsufficientStock = Conflict("INSUFFICIENT_STOCK", "insufficient stock for this adjustment")
	ErrAlreadyExists     = Conflict("ALREADY_EXISTS", "resource already exists")
	ErrInvalidState      = Conflict("INVALID_STATE", "operation not allowed in current state")
	ErrMergeCycle        = Conflict("MERGE_CYCLE", "target is already merged into one of the sources")
)
