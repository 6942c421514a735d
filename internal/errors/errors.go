package errors

import (
	"errors"
	"fmt"
	"runtime/debug"
)

// AppError is the error type carried through the whole application. Every
// adapter maps its platform-specific failures into one of these so the top
// level can decide what to show the operator.
type AppError struct {
	Code            Code
	Message         string
	IsUserFacing    bool
	SuggestedAction string
	WrappedError    error
	StackTrace      string
}

func (e *AppError) Error() string {
	if e.WrappedError != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.WrappedError)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.WrappedError
}

func New(code Code, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StackTrace: string(debug.Stack()),
	}
}

func Newf(code Code, format string, args ...any) *AppError {
	return New(code, fmt.Sprintf(format, args...))
}

// NewUserFacing builds an error whose message and suggestion are meant for
// the operator, e.g. a reserved name conflict with a remediation hint.
func NewUserFacing(code Code, message string, suggestion string) *AppError {
	return &AppError{
		Code:            code,
		Message:         message,
		IsUserFacing:    true,
		SuggestedAction: suggestion,
		StackTrace:      string(debug.Stack()),
	}
}

// Wrap annotates err with a code and message. An err that is already an
// AppError is returned unchanged so the original classification survives
// layers of wrapping.
func Wrap(err error, code Code, message string) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{
		Code:         code,
		Message:      message,
		WrappedError: err,
		StackTrace:   string(debug.Stack()),
	}
}

func Wrapf(err error, code Code, format string, args ...any) *AppError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// WrapUserFacing forces a user-facing message onto err at this layer while
// keeping the original chain for logs.
func WrapUserFacing(err error, code Code, message string, suggestion string) *AppError {
	if err == nil {
		return nil
	}
	stack := string(debug.Stack())
	var appErr *AppError
	if errors.As(err, &appErr) {
		stack = appErr.StackTrace
	}
	return &AppError{
		Code:            code,
		Message:         message,
		IsUserFacing:    true,
		SuggestedAction: suggestion,
		WrappedError:    err,
		StackTrace:      stack,
	}
}

func GetCode(err error) Code {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}

func Is(err error, code Code) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// GetUserFacingMessage walks the chain for the first user-facing error and
// returns its message and suggestion. The bool reports whether one was found.
func GetUserFacingMessage(err error) (string, string, bool) {
	for e := err; e != nil; e = errors.Unwrap(e) {
		var appErr *AppError
		if errors.As(e, &appErr) && appErr.IsUserFacing {
			return appErr.Message, appErr.SuggestedAction, true
		}
	}
	return "An unexpected error occurred.", "Check logs for more details.", false
}
