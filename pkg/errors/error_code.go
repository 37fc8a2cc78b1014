package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Configuration errors (100-199)
	ErrCodeInvalidConfiguration ErrorCode = 100
	ErrCodeInvalidParameter     ErrorCode = 101
	ErrCodeSeriesLengthMismatch ErrorCode = 102
	ErrCodeEmptySeries          ErrorCode = 103
	ErrCodeUnorderedTimestamps  ErrorCode = 104
	ErrCodeInvalidSessionTime   ErrorCode = 105

	// Series access errors (200-299)
	ErrCodeOutOfRangeAccess   ErrorCode = 200
	ErrCodeLookAheadViolation ErrorCode = 201
	ErrCodeCursorRegression   ErrorCode = 202

	// Indicator errors (300-399)
	ErrCodeIndicatorShape         ErrorCode = 300
	ErrCodeIndicatorNotFound      ErrorCode = 301
	ErrCodeIndicatorAlreadyExists ErrorCode = 302
	ErrCodeIndicatorCalculation   ErrorCode = 303

	// Strategy errors (400-499)
	ErrCodeStrategyConfigError  ErrorCode = 400
	ErrCodeStrategyRuntimeError ErrorCode = 401
	ErrCodeVersionMismatch      ErrorCode = 402

	// Position errors (500-599)
	ErrCodePositionState ErrorCode = 500

	// Backtest errors (600-699)
	ErrCodeBacktestState      ErrorCode = 600
	ErrCodeBacktestNoStrategy ErrorCode = 601

	// Data errors (700-799)
	ErrCodeDataSourceUnavailable ErrorCode = 700
	ErrCodeQueryFailed           ErrorCode = 701
	ErrCodeNoDataFound           ErrorCode = 702
	ErrCodeWriteFailed           ErrorCode = 703
)
