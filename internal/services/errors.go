// File: internal/services/errors.go
package services

import (
	"errors"
	"fmt"
)

type ErrorType string

const (
	ErrTypeValidation ErrorType = "VALIDATION"
	ErrTypeNotFound   ErrorType = "NOT_FOUND"
	ErrTypeForbidden  ErrorType = "FORBIDDEN"
	ErrTypeConflict   ErrorType = "CONFLICT"
	ErrTypeAuth       ErrorType = "UNAUTHORIZED"
	ErrTypeInternal   ErrorType = "INTERNAL"
)

type ServiceError struct {
	Type      ErrorType
	Operation string
	Message   string
	Cause     error
}

func (e *ServiceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s error in %s: %s (caused by: %v)", e.Type, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s error in %s: %s", e.Type, e.Operation, e.Message)
}

func (e *ServiceError) Unwrap() error {
	return e.Cause
}

// ErrEmptyMessage is returned for chat text that is empty after trimming.
var ErrEmptyMessage = NewValidationError("reply", "message cannot be empty")

func NewValidationError(operation, msg string) *ServiceError {
	return &ServiceError{Type: ErrTypeValidation, Operation: operation, Message: msg}
}

func NewNotFoundError(operation, msg string) *ServiceError {
	return &ServiceError{Type: ErrTypeNotFound, Operation: operation, Message: msg}
}

func NewForbiddenError(operation, msg string) *ServiceError {
	return &ServiceError{Type: ErrTypeForbidden, Operation: operation, Message: msg}
}

func NewConflictError(operation, msg string) *ServiceError {
	return &ServiceError{Type: ErrTypeConflict, Operation: operation, Message: msg}
}

func NewAuthError(operation, msg string) *ServiceError {
	return &ServiceError{Type: ErrTypeAuth, Operation: operation, Message: msg}
}

func NewInternalError(operation, msg string, cause error) *ServiceError {
	return &ServiceError{Type: ErrTypeInternal, Operation: operation, Message: msg, Cause: cause}
}

// TypeOf returns the ServiceError type in err's chain, or "" when there is none.
func TypeOf(err error) ErrorType {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Type
	}
	return ""
}
