package hunkstage

import (
	"errors"
	"fmt"
)

// Application error codes.
const (
	EINVALID   = "invalid"   // missing or unusable input, detected before spawning
	EMALFORMED = "malformed" // diff or blame text does not match the grammar
	ETOOL      = "tool"      // git ran and exited non-zero
	ESPAWN     = "spawn"     // git could not be started
	ECANCELED  = "canceled"  // caller canceled the operation
	ETIMEOUT   = "timeout"   // operation exceeded its deadline
)

// Error represents an application-specific error.
type Error struct {
	Code    string
	Message string
	Op      string // operation that failed, e.g. "apply"
	Err     error  // underlying error, if any
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Op != "" {
		return fmt.Sprintf("hunkstage: %s: %s", e.Op, msg)
	}
	return fmt.Sprintf("hunkstage: %s", msg)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error { return e.Err }

// Errorf is a helper function to return an Error with a given code and
// formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return an empty string.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors return the error text.
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		if e.Message != "" {
			return e.Message
		}
		if e.Err != nil {
			return e.Err.Error()
		}
	}
	return err.Error()
}

// Retryable reports whether retrying the failed operation can succeed
// without changing the input. A tool failure may clear up after the
// caller re-fetches the diff; a spawn failure will not.
func Retryable(err error) bool {
	switch ErrorCode(err) {
	case ETOOL, ETIMEOUT:
		return true
	default:
		return false
	}
}
