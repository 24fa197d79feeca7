package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Theme errors
	ErrThemeNotFound ErrorCode = "THEME_NOT_FOUND"
	ErrThemeParse    ErrorCode = "THEME_PARSE"
	ErrConfigValid   ErrorCode = "CONFIG_INVALID"

	// Compilation errors
	ErrInvalidColor ErrorCode = "INVALID_COLOR"
	ErrRegexCompile ErrorCode = "REGEX_COMPILE"

	// Cache errors (non-fatal, absorbed by the cache layer)
	ErrCacheRead    ErrorCode = "CACHE_READ"
	ErrCacheWrite   ErrorCode = "CACHE_WRITE"
	ErrCacheStale   ErrorCode = "CACHE_STALE"
	ErrCacheVersion ErrorCode = "CACHE_VERSION"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"

	// FileSystem errors
	ErrFileNotFound ErrorCode = "FILE_NOT_FOUND"
	ErrFileAccess   ErrorCode = "FILE_ACCESS"
	ErrFileWrite    ErrorCode = "FILE_WRITE"
)

// TinctError represents a structured error with code and details
type TinctError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *TinctError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *TinctError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *TinctError) Is(target error) bool {
	var targetErr *TinctError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new TinctError with the given code and message
func New(code ErrorCode, message string) *TinctError {
	return &TinctError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new TinctError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *TinctError {
	return &TinctError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a TinctError
func Wrap(err error, code ErrorCode, message string) *TinctError {
	if err == nil {
		return nil
	}
	return &TinctError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *TinctError {
	if err == nil {
		return nil
	}
	return &TinctError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *TinctError) WithDetail(key string, value interface{}) *TinctError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var tinctErr *TinctError
	if errors.As(err, &tinctErr) {
		return tinctErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a TinctError
func GetErrorCode(err error) ErrorCode {
	var tinctErr *TinctError
	if errors.As(err, &tinctErr) {
		return tinctErr.Code
	}
	return ErrUnknown
}
