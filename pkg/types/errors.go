package types

import (
	"errors"
	"fmt"
)

// ErrorCode identifies the kind of an evaluation or rendering failure.
type ErrorCode string

// Error codes.
const (
	// R01xx: RPN syntax errors
	ErrInvalidToken         ErrorCode = "R0101"
	ErrInsufficientOperands ErrorCode = "R0102"
	ErrMalformedResult      ErrorCode = "R0103"

	// A02xx: arithmetic errors
	ErrOverflow           ErrorCode = "A0201"
	ErrDivisionByZero     ErrorCode = "A0202"
	ErrNonPositiveModulus ErrorCode = "A0203"
)

// Error represents a structured calculator error.
type Error struct {
	Code     ErrorCode
	Message  string
	Position int
	Token    string
	Err      error
}

// NewError creates a new error. Use a negative position when the failure
// is not tied to a single token.
func NewError(code ErrorCode, message string, position int) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Position: position,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Position >= 0 {
		return fmt.Sprintf("%s at position %d: %s", e.Code, e.Position, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithToken adds token information to the error.
func (e *Error) WithToken(token string) *Error {
	e.Token = token
	return e
}

// WithCause wraps another error.
func (e *Error) WithCause(err error) *Error {
	e.Err = err
	return e
}

// HasCode reports whether err, or any error it wraps, is an *Error with code.
func HasCode(err error, code ErrorCode) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Code == code
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
