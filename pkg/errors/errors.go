// Package errors provides coded errors shared by the board, the stores and
// every surface.
//
// A [Code] tells callers what went wrong without string matching. The CLI
// prints [UserMessage], the HTTP API maps codes onto statuses, and the store
// layer marks missing boards with NOT_FOUND:
//
//	err := errors.New(errors.ErrCodeInvalidSpan, "width must be positive, got %g", w)
//	if errors.Is(err, errors.ErrCodeInvalidSpan) {
//	    // reject the drag
//	}
//
// Codes survive wrapping with fmt.Errorf("...: %w") and with [Wrap].
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code is a machine-readable error category.
type Code string

const (
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidSpan   Code = "INVALID_SPAN"
	ErrCodeInvalidLane   Code = "INVALID_LANE"
	ErrCodeInvalidColor  Code = "INVALID_COLOR"
	ErrCodeInvalidDate   Code = "INVALID_DATE"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"

	ErrCodeNotFound       Code = "NOT_FOUND"
	ErrCodeLayoutConflict Code = "LAYOUT_CONFLICT"
	ErrCodeUnsupported    Code = "UNSUPPORTED"

	ErrCodeInternal Code = "INTERNAL_ERROR"
	ErrCodeStorage  Code = "STORAGE_ERROR"
)

// Invalid reports whether c is one of the INVALID_* input codes.
func (c Code) Invalid() bool {
	return strings.HasPrefix(string(c), "INVALID_")
}

// Error carries a code, a message for people, and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns an error with the given code whose cause is err.
func Wrap(code Code, err error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: err}
}

// NotFound reports a missing sprint, member, task or board.
func NotFound(kind, id string) *Error {
	return New(ErrCodeNotFound, "%s %q not found", kind, id)
}

// Is reports whether any coded error in err's chain has the given code, so a
// NOT_FOUND wrapped as STORAGE_ERROR still matches both.
func Is(err error, code Code) bool {
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

// GetCode returns the code of the outermost coded error in err's chain, or ""
// if there is none.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns err's text without the code prefix.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	if e == err {
		return e.Message
	}
	// Wrapped by fmt.Errorf: keep the added context, drop the code.
	return strings.Replace(err.Error(), string(e.Code)+": ", "", 1)
}
