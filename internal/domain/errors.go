// Package domain defines core types, interfaces, and errors for the auth core.
package domain

import "fmt"

// NotFoundError indicates a resource was not found.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// AccessDeniedError indicates an operation is forbidden in the current state.
type AccessDeniedError struct {
	Message string
}

func (e *AccessDeniedError) Error() string { return e.Message }

// ValidationError indicates invalid input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ConflictError indicates a conflict (e.g., duplicate resource).
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// IntegrityError indicates persisted state violating an invariant,
// discovered mid-operation (e.g. a project record missing derived fields).
type IntegrityError struct {
	Message string
}

func (e *IntegrityError) Error() string { return e.Message }

// TransactionError wraps the failure that aborted a composite transactional
// unit. The original cause is preserved and reachable via errors.Unwrap.
type TransactionError struct {
	Cause error
}

func (e *TransactionError) Error() string { return fmt.Sprintf("transaction failed: %v", e.Cause) }

func (e *TransactionError) Unwrap() error { return e.Cause }

// ErrNotFound creates a NotFoundError with a formatted message.
func ErrNotFound(format string, args ...interface{}) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// ErrAccessDenied creates an AccessDeniedError with a formatted message.
func ErrAccessDenied(format string, args ...interface{}) *AccessDeniedError {
	return &AccessDeniedError{Message: fmt.Sprintf(format, args...)}
}

// ErrValidation creates a ValidationError with a formatted message.
func ErrValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ErrConflict creates a ConflictError with a formatted message.
func ErrConflict(format string, args ...interface{}) *ConflictError {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

// ErrIntegrity creates an IntegrityError with a formatted message.
func ErrIntegrity(format string, args ...interface{}) *IntegrityError {
	return &IntegrityError{Message: fmt.Sprintf(format, args...)}
}
