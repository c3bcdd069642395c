package object

import (
	"errors"
	"fmt"
	"strconv"
)

// Error is a condition reported by a kernel operation.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Op names the operation that failed ("add", "subtract", "new").
	Op string

	// Details contains the operands involved.
	Details map[string]string

	// Err is the underlying cause, if any.
	Err error
}

// ErrorCode categorizes kernel errors.
type ErrorCode string

const (
	// ErrCodeArithmeticOverflow indicates an integer result outside int64.
	ErrCodeArithmeticOverflow ErrorCode = "ARITHMETIC_OVERFLOW"

	// ErrCodeIdentityExhausted indicates no identity could be allocated.
	ErrCodeIdentityExhausted ErrorCode = "IDENTITY_EXHAUSTED"
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s (op=%s)", e.Code, e.Message, e.Op)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsOverflow returns true if the error is an arithmetic overflow.
// Uses errors.As to handle wrapped errors.
func IsOverflow(err error) bool {
	var oe *Error
	if errors.As(err, &oe) {
		return oe.Code == ErrCodeArithmeticOverflow
	}
	return false
}

// IsExhausted returns true if the error reports identity exhaustion.
func IsExhausted(err error) bool {
	var oe *Error
	if errors.As(err, &oe) {
		return oe.Code == ErrCodeIdentityExhausted
	}
	return false
}

// Code extracts the ErrorCode from err, or "" if err is not a kernel error.
func Code(err error) ErrorCode {
	var oe *Error
	if errors.As(err, &oe) {
		return oe.Code
	}
	return ""
}

// newOverflowError creates an Error for an int64 overflow in op.
func newOverflowError(op string, x, y int64) *Error {
	return &Error{
		Code:    ErrCodeArithmeticOverflow,
		Message: "integer result out of range",
		Op:      op,
		Details: map[string]string{
			"receiver": strconv.FormatInt(x, 10),
			"argument": strconv.FormatInt(y, 10),
		},
	}
}

// newExhaustedError creates an Error for a failed identity allocation.
func newExhaustedError(kind Kind, cause error) *Error {
	return &Error{
		Code:    ErrCodeIdentityExhausted,
		Message: fmt.Sprintf("cannot allocate identity for %s", kind),
		Op:      "new",
		Err:     cause,
	}
}
