package errors

import (
	"errors"
	"fmt"
)

// ErrorCode classifies application errors
type ErrorCode string

const (
	// Validation errors
	ErrCodeValidation    ErrorCode = "VALIDATION_ERROR"
	ErrCodeRequiredField ErrorCode = "REQUIRED_FIELD"
	ErrCodeInvalidFormat ErrorCode = "INVALID_FORMAT"
	ErrCodeInvalidStatus ErrorCode = "INVALID_STATUS"
	ErrCodeInvalidHour   ErrorCode = "INVALID_HOUR"

	// Auth errors
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeInvalidToken ErrorCode = "INVALID_TOKEN"
	ErrCodeForbidden    ErrorCode = "FORBIDDEN"

	// Not-found errors
	ErrCodeSpaceUnavailable    ErrorCode = "SPACE_UNAVAILABLE"
	ErrCodeUserNotFound        ErrorCode = "USER_NOT_FOUND"
	ErrCodeReservationNotFound ErrorCode = "RESERVATION_NOT_FOUND"

	// Conflict errors
	ErrCodeSlotConflict ErrorCode = "SLOT_CONFLICT"

	// Dependency errors
	ErrCodeDependency ErrorCode = "DEPENDENCY_ERROR"
)

// AppError carries a classified application error
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError builds a new AppError
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// GetAppError extracts an AppError from err, or nil
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsValidation reports whether err is a client validation error.
func IsValidation(err error) bool {
	appErr := GetAppError(err)
	if appErr == nil {
		return false
	}
	switch appErr.Code {
	case ErrCodeValidation, ErrCodeRequiredField, ErrCodeInvalidFormat, ErrCodeInvalidStatus, ErrCodeInvalidHour:
		return true
	}
	return false
}

// IsNotFound reports whether err means an absent or unavailable entity.
func IsNotFound(err error) bool {
	appErr := GetAppError(err)
	if appErr == nil {
		return false
	}
	switch appErr.Code {
	case ErrCodeSpaceUnavailable, ErrCodeUserNotFound, ErrCodeReservationNotFound:
		return true
	}
	return false
}

// IsConflict reports whether err is a slot conflict.
func IsConflict(err error) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Code == ErrCodeSlotConflict
}

// IsUnauthorized reports whether err is an authentication failure.
func IsUnauthorized(err error) bool {
	appErr := GetAppError(err)
	if appErr == nil {
		return false
	}
	switch appErr.Code {
	case ErrCodeUnauthorized, ErrCodeInvalidToken:
		return true
	}
	return false
}

// IsForbidden reports whether err is an authorization failure.
func IsForbidden(err error) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Code == ErrCodeForbidden
}

// IsDependency reports whether err came from a store or collaborator failure
// and is safe to retry.
func IsDependency(err error) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Code == ErrCodeDependency
}

var (
	// Store errors, returned by storage implementations and classified by
	// the services that call them.
	ErrRecordExists   = errors.New("record already exists")
	ErrRecordNotFound = errors.New("record not found")
)
