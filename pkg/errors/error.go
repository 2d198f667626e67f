// Package errors provides structured error handling with typed error codes.
//
// Error codes are organized into categories:
//   - General errors (1-99): Unknown and general errors
//   - Validation errors (100-199): Invalid parameters, configuration, orders
//   - Transport errors (200-299): Unreachable remote, bad HTTP status, failed probe
//   - Command decoding errors (300-399): Malformed or unknown remote commands
//   - Terminal errors (400-499): Order submission and position close failures
//   - Session errors (500-599): Startup and handshake failures
//
// Usage:
//
//	// Create a new error
//	err := errors.New(errors.ErrCodeInvalidParameter, "invalid parameter value")
//
//	// Create a formatted error
//	err := errors.Newf(errors.ErrCodeUnknownCommand, "unknown command %q", name)
//
//	// Wrap an existing error
//	err := errors.Wrap(errors.ErrCodeTransportFailed, "failed to reach remote", originalErr)
//
//	// Check error code
//	if errors.HasCode(err, errors.ErrCodeTransportFailed) { ... }
package errors

import (
	"errors"
	"fmt"
)

// Error represents a structured error with an error code and message.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// New creates a new Error with the given code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   nil,
	}
}

// Newf creates a new Error with the given code and formatted message.
func Newf(code ErrorCode, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   nil,
	}
}

// Wrap wraps an existing error with a new Error containing the given code and message.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an existing error with a new Error containing the given code and formatted message.
func Wrapf(code ErrorCode, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Cause)
	}

	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether any error in err's chain matches target.
// This is a convenience wrapper around the standard errors.Is function.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
// This is a convenience wrapper around the standard errors.As function.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// GetCode extracts the ErrorCode from an error if it's an *Error type.
// Returns ErrCodeUnknown if the error is not an *Error type.
func GetCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}

	return ErrCodeUnknown
}

// HasCode checks if an error has a specific ErrorCode.
func HasCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}

// TradeError represents a failure reported by the trading terminal. It keeps
// the terminal's raw error code so operators can diagnose rejections without
// reproducing them.
type TradeError struct {
	// RawCode is the platform's last-error code, untranslated.
	RawCode int
	// Op is the terminal operation that failed ("submit", "close").
	Op string
	// Message is a human-readable description of the failure.
	Message string
}

// NewTradeError creates a new TradeError.
func NewTradeError(rawCode int, op, message string) *TradeError {
	return &TradeError{
		RawCode: rawCode,
		Op:      op,
		Message: message,
	}
}

// Error implements the error interface.
func (e *TradeError) Error() string {
	return fmt.Sprintf("%s: %s (code %d)", e.Op, e.Message, e.RawCode)
}

// IsTradeError checks if an error is a TradeError.
// It uses errors.As to check the error chain.
func IsTradeError(err error) bool {
	var tradeErr *TradeError

	return errors.As(err, &tradeErr)
}
