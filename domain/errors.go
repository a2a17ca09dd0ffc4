package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a semantic classification shared across transport layers.
type ErrorCode string

const (
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeInvalid      ErrorCode = "INVALID"
	ErrCodeConflict     ErrorCode = "CONFLICT"
	ErrCodeForbidden    ErrorCode = "FORBIDDEN"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeInternal     ErrorCode = "INTERNAL"
)

// Error represents a domain-level error.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain errors.
var (
	ErrUserNotFound    = NewError(ErrCodeNotFound, "user not found")
	ErrTaskNotFound    = NewError(ErrCodeNotFound, "task not found")
	ErrSessionNotFound = NewError(ErrCodeNotFound, "session not found")
	ErrUnauthorized    = NewError(ErrCodeUnauthorized, "unauthorized")
	ErrInvalidPayload  = NewError(ErrCodeInvalid, "invalid payload")

	// Application workflow errors.
	ErrTaskNotOpen      = NewError(ErrCodeConflict, "task is not open for applications")
	ErrOwnTask          = NewError(ErrCodeInvalid, "you cannot apply to your own task")
	ErrNotAnApplicant   = NewError(ErrCodeNotFound, "user has not applied for this task")
	ErrAlreadySelected  = NewError(ErrCodeConflict, "applicant is already selected")
	ErrCapacityExceeded = NewError(ErrCodeConflict, "maximum number of workers already selected")
	ErrNotTaskOwner     = NewError(ErrCodeForbidden, "only the task owner may perform this action")

	// Completion workflow errors.
	ErrNotSelectedWorker     = NewError(ErrCodeForbidden, "you are not a selected worker for this task")
	ErrAlreadyCompleted      = NewError(ErrCodeConflict, "task is already completed")
	ErrNoPendingVerification = NewError(ErrCodeConflict, "no completion verification is pending")
	ErrCodeExpired           = NewError(ErrCodeConflict, "verification code has expired")
	ErrCodeMismatch          = NewError(ErrCodeConflict, "verification code does not match")
	ErrTooManyAttempts       = NewError(ErrCodeConflict, "too many failed attempts, request a new code")

	// Auth errors.
	ErrEmailTaken         = NewError(ErrCodeConflict, "an account with this email already exists")
	ErrInvalidCredentials = NewError(ErrCodeUnauthorized, "invalid email or password")
	ErrInvalidResetCode   = NewError(ErrCodeConflict, "invalid or expired reset code")
)

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}
