// Package apperr defines the structured errors surfaced by the domain packages.
// Every error carries a Kind that callers map to a response and a stable Code
// that identifies the specific failure.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for the calling layer.
type Kind string

const (
	KindValidation   Kind = "validation_error"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindLocked       Kind = "locked"
	KindExpired      Kind = "expired"
	KindUpstream     Kind = "upstream_failure"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindInternal     Kind = "internal_error"
)

// Error is an application error with a kind, a stable code and a readable message.
type Error struct {
	Kind    Kind   `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if e.Details != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Details)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code != "" && t.Code == e.Code
}

// WithDetails returns a copy of e carrying the given details.
func (e *Error) WithDetails(format string, args ...any) *Error {
	cp := *e
	cp.Details = fmt.Sprintf(format, args...)
	return &cp
}

// Wrap returns a copy of e that wraps cause.
func (e *Error) Wrap(cause error) *Error {
	cp := *e
	cp.Err = cause
	return &cp
}

func newError(kind Kind, code, message string, details []string) *Error {
	detail := ""
	if len(details) > 0 {
		detail = details[0]
	}
	return &Error{Kind: kind, Code: code, Message: message, Details: detail}
}

// Validation creates a validation error
func Validation(message string, details ...string) *Error {
	return newError(KindValidation, "invalid_request", message, details)
}

// NotFound creates a not found error
func NotFound(message string, details ...string) *Error {
	return newError(KindNotFound, "not_found", message, details)
}

// Conflict creates a conflict error with a specific code.
func Conflict(code, message string, details ...string) *Error {
	return newError(KindConflict, code, message, details)
}

// Unauthorized creates an unauthorized error
func Unauthorized(message string, details ...string) *Error {
	return newError(KindUnauthorized, "unauthorized", message, details)
}

// Forbidden creates a forbidden error
func Forbidden(message string, details ...string) *Error {
	return newError(KindForbidden, "forbidden", message, details)
}

// Upstream creates an error for a failed call to an external collaborator.
func Upstream(message string, cause error) *Error {
	return &Error{Kind: KindUpstream, Code: "upstream_failure", Message: message, Err: cause}
}

// Internal creates an internal error
func Internal(message string, cause error) *Error {
	return &Error{Kind: KindInternal, Code: "internal_error", Message: message, Err: cause}
}

var (
	ErrInsufficientFunds    = Conflict("insufficient_funds", "insufficient wallet balance")
	ErrResendLimitExceeded  = Conflict("resend_limit_exceeded", "resend limit reached, wait for the current code to expire")
	ErrAlreadyUsedChallenge = Conflict("challenge_already_used", "code has already been used")
	ErrAlreadyPaid          = Conflict("already_paid", "submission is already paid")
	ErrInvalidTransition    = Conflict("invalid_transition", "status change is not allowed")
	ErrConcurrentUpdate     = Conflict("concurrent_update", "record was modified concurrently, try again")
	ErrAlreadyRegistered    = Conflict("already_registered", "mobile number is already registered")
	ErrEmailTaken           = Conflict("email_taken", "email is already registered")
	ErrRateLimited          = Conflict("rate_limited", "too many requests, try again later")

	ErrNoActiveChallenge = &Error{Kind: KindNotFound, Code: "no_active_challenge", Message: "no active code, request a new one"}
	ErrLocked            = &Error{Kind: KindLocked, Code: "challenge_locked", Message: "maximum attempts reached"}
	ErrExpired           = &Error{Kind: KindExpired, Code: "challenge_expired", Message: "code has expired"}
	ErrInvalidCode       = &Error{Kind: KindValidation, Code: "invalid_code", Message: "invalid code"}
	ErrInvalidSignature  = &Error{Kind: KindValidation, Code: "invalid_signature", Message: "payment signature mismatch"}

	ErrInvalidCredentials = &Error{Kind: KindUnauthorized, Code: "invalid_credentials", Message: "invalid mobile number or password"}
	ErrNotVerified        = &Error{Kind: KindForbidden, Code: "account_not_verified", Message: "account is awaiting admin verification"}
	ErrAccountDisabled    = &Error{Kind: KindForbidden, Code: "account_disabled", Message: "account is disabled"}
)

// As extracts the *Error from err's chain.
func As(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// KindOf returns the kind of err, or KindInternal for unstructured errors.
func KindOf(err error) Kind {
	if appErr := As(err); appErr != nil {
		return appErr.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// HTTPStatus maps err to the response status used by the API layer.
func HTTPStatus(err error) int {
	appErr := As(err)
	if appErr == nil {
		return http.StatusInternalServerError
	}

	switch appErr.Code {
	case ErrInsufficientFunds.Code:
		return http.StatusUnprocessableEntity
	case ErrResendLimitExceeded.Code, ErrRateLimited.Code:
		return http.StatusTooManyRequests
	}

	switch appErr.Kind {
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
	case KindExpired:
		return http.StatusGone
	case KindLocked:
		return http.StatusLocked
	case KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
