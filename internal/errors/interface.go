// Package errors provides coded errors. A code identifies the failure class
// independently of the message, so callers branch on codes and logs carry
// them as a field.
package errors

// ErrorCode identifies a failure class.
type ErrorCode string

// Error is an error carrying a code and optional context data.
type Error interface {
	error
	Code() ErrorCode
	WithMessage(msg string) Error
	WithData(data any) Error
	GetData() any
	Unwrap() error
}

// Factory creates coded errors.
type Factory interface {
	New(code ErrorCode) Error
	Wrap(code ErrorCode, err error) Error
	WithMessage(code ErrorCode, msg string) Error
	WithData(code ErrorCode, data any) Error
}
