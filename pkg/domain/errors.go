package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a domain-specific error with a code and message
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Error codes
const (
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodeInvalidTransition = "INVALID_TRANSITION"
	ErrCodeFeeNotApproved    = "FEE_NOT_APPROVED"
	ErrCodeActionInFlight    = "ACTION_IN_FLIGHT"
	ErrCodeUnauthorized      = "UNAUTHORIZED"
	ErrCodeForbidden         = "FORBIDDEN"
	ErrCodeUpstream          = "UPSTREAM_ERROR"
	ErrCodeTransport         = "TRANSPORT_ERROR"
	ErrCodeInternal          = "INTERNAL_ERROR"
)

// Error constructors

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource string) error {
	return &DomainError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found", resource),
	}
}

// NewValidationError creates a new validation error
func NewValidationError(msg string) error {
	return &DomainError{
		Code:    ErrCodeValidation,
		Message: msg,
	}
}

// NewInvalidTransitionError creates an error for a disallowed status transition
func NewInvalidTransitionError(from, action string) error {
	return &DomainError{
		Code:    ErrCodeInvalidTransition,
		Message: fmt.Sprintf("action %q is not allowed from status %q", action, from),
	}
}

// NewFeeNotApprovedError creates the admission gate error. The message carries
// the affordance the UI shows: collect the fee first.
func NewFeeNotApprovedError(msg string) error {
	if msg == "" {
		msg = "No approved admission fee found for this lead. Collect the admission fee before admitting."
	}
	return &DomainError{
		Code:    ErrCodeFeeNotApproved,
		Message: msg,
	}
}

// NewActionInFlightError signals a duplicate submission while a transition is pending
func NewActionInFlightError(leadID string) error {
	return &DomainError{
		Code:    ErrCodeActionInFlight,
		Message: fmt.Sprintf("an action for lead %s is already in progress", leadID),
	}
}

// NewUnauthorizedError creates a new unauthorized error
func NewUnauthorizedError() error {
	return &DomainError{
		Code:    ErrCodeUnauthorized,
		Message: "Authentication required",
	}
}

// NewForbiddenError creates a new forbidden error
func NewForbiddenError(msg string) error {
	return &DomainError{
		Code:    ErrCodeForbidden,
		Message: msg,
	}
}

// NewUpstreamError wraps a non-2xx response from the admission backend. The
// message is the server's own message when one was parseable.
func NewUpstreamError(msg string, status int) error {
	return &DomainError{
		Code:    ErrCodeUpstream,
		Message: msg,
		Err:     fmt.Errorf("backend returned status %d", status),
	}
}

// NewTransportError wraps a failure to reach the admission backend at all
func NewTransportError(operation string, err error) error {
	return &DomainError{
		Code:    ErrCodeTransport,
		Message: fmt.Sprintf("%s failed: backend unreachable", operation),
		Err:     err,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(err error) error {
	return &DomainError{
		Code:    ErrCodeInternal,
		Message: "An internal error occurred",
		Err:     err,
	}
}

// Helper functions to check error types

func is(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// IsNotFound checks if the error is a not found error
func IsNotFound(err error) bool { return is(err, ErrCodeNotFound) }

// IsValidation checks if the error is a validation error
func IsValidation(err error) bool { return is(err, ErrCodeValidation) }

// IsInvalidTransition checks if the error is an invalid transition error
func IsInvalidTransition(err error) bool { return is(err, ErrCodeInvalidTransition) }

// IsFeeNotApproved checks if the error is the admission gate error
func IsFeeNotApproved(err error) bool { return is(err, ErrCodeFeeNotApproved) }

// IsActionInFlight checks if the error is a duplicate submission error
func IsActionInFlight(err error) bool { return is(err, ErrCodeActionInFlight) }

// IsUnauthorized checks if the error is an unauthorized error
func IsUnauthorized(err error) bool { return is(err, ErrCodeUnauthorized) }

// IsForbidden checks if the error is a forbidden error
func IsForbidden(err error) bool { return is(err, ErrCodeForbidden) }

// IsUpstream checks if the error came from a backend non-2xx response
func IsUpstream(err error) bool { return is(err, ErrCodeUpstream) }

// IsTransport checks if the error is a transport failure
func IsTransport(err error) bool { return is(err, ErrCodeTransport) }

// GetErrorCode extracts the error code from a domain error
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ErrCodeInternal
}

// UserMessage extracts the displayable message from an error. Domain errors
// carry messages meant for the banner; anything else gets its Error() string.
func UserMessage(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Message
	}
	return err.Error()
}
