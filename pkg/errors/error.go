// Package errors provides structured error handling with typed error codes.
//
// Error codes are organized into categories:
//   - General errors (1-99): Unknown errors
//   - Configuration errors (100-199): Bad input shape or length, invalid config values
//   - Series access errors (200-299): Look-ahead reads and out-of-range indices
//   - Indicator errors (300-399): Registration, lookup and output shape errors
//   - Strategy errors (400-499): Strategy configuration, runtime and version errors
//   - Position errors (500-599): Ledger state violations
//   - Backtest errors (600-699): Engine lifecycle errors
//   - Data errors (700-799): Loading and persisting market data and results
//
// Usage:
//
//	err := errors.Newf(errors.ErrCodeLookAheadViolation, "index %d is beyond cursor %d", i, cur)
//
//	if errors.IsLookAheadViolation(err) { ... }
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
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// GetCode extracts the ErrorCode of the outermost *Error in the chain.
// Returns ErrCodeUnknown if the chain holds no *Error.
func GetCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}

	return ErrCodeUnknown
}

// HasCode reports whether any *Error in err's chain carries code.
// Engine errors wrap the leaf error, so the outermost code alone is not enough.
func HasCode(err error, code ErrorCode) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}

		if e.Code == code {
			return true
		}

		err = e.Cause
	}

	return false
}

// IsConfigurationError reports bad input shape, length or configuration.
func IsConfigurationError(err error) bool {
	return HasCode(err, ErrCodeInvalidConfiguration) ||
		HasCode(err, ErrCodeInvalidParameter) ||
		HasCode(err, ErrCodeSeriesLengthMismatch) ||
		HasCode(err, ErrCodeEmptySeries) ||
		HasCode(err, ErrCodeUnorderedTimestamps) ||
		HasCode(err, ErrCodeInvalidSessionTime)
}

// IsLookAheadViolation reports a read beyond the current cursor.
func IsLookAheadViolation(err error) bool {
	return HasCode(err, ErrCodeLookAheadViolation)
}

// IsOutOfRangeAccess reports an index before the series start or past its end.
func IsOutOfRangeAccess(err error) bool {
	return HasCode(err, ErrCodeOutOfRangeAccess) || HasCode(err, ErrCodeCursorRegression)
}

// IsPositionStateError reports a ledger violation.
func IsPositionStateError(err error) bool {
	return HasCode(err, ErrCodePositionState)
}

// IsIndicatorShapeError reports an indicator output whose length differs from the series.
func IsIndicatorShapeError(err error) bool {
	return HasCode(err, ErrCodeIndicatorShape)
}
