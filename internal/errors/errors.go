// Package errors tags rendering failures with a code. The HTTP handlers map
// codes to status codes and the CLI prints the message alone.
//
//	err := errors.New(errors.ErrCodeConfiguration, "invalid dot type %q", t)
//	if errors.Is(err, errors.ErrCodeConfiguration) {
//		// reject the request
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code classifies a failure.
type Code string

const (
	// ErrCodeConfiguration: the options do not resolve; nothing was drawn.
	ErrCodeConfiguration Code = "CONFIGURATION_ERROR"
	// ErrCodeEncoding: the data does not fit a QR code.
	ErrCodeEncoding Code = "ENCODING_ERROR"
	// ErrCodeRender: an output is missing or its format unsupported.
	ErrCodeRender Code = "RENDER_ERROR"
	// ErrCodePlugin: a plugin failed to load, render or unload.
	ErrCodePlugin Code = "PLUGIN_ERROR"
	// ErrCodeImage: the logo could not be read or decoded.
	ErrCodeImage Code = "IMAGE_ERROR"
)

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	s := string(e.Code) + ": " + e.Message
	if e.Cause != nil {
		s += ": " + e.Cause.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an error with code and a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap is New with a cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	e := New(code, format, args...)
	e.Cause = cause
	return e
}

// Is reports whether any *Error in err's tree carries code. Unlike
// errors.As it does not stop at the first *Error, so a wrapped code or a
// later member of a joined error still matches.
func Is(err error, code Code) bool {
	switch e := err.(type) {
	case nil:
		return false
	case *Error:
		if e == nil {
			return false
		}
		if e.Code == code {
			return true
		}
		return Is(e.Cause, code)
	case interface{ Unwrap() []error }:
		for _, inner := range e.Unwrap() {
			if Is(inner, code) {
				return true
			}
		}
		return false
	case interface{ Unwrap() error }:
		return Is(e.Unwrap(), code)
	}
	return false
}

// GetCode returns the code of the outermost *Error in err, or "" when there
// is none.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage is the message of the outermost *Error, without code or
// cause. Uncoded errors give their full text.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// Join combines errs into one error, dropping nils. It returns nil when
// nothing is left.
func Join(errs ...error) error {
	return errors.Join(errs...)
}
