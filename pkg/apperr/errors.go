package apperr

import (
	"errors"
	"fmt"
)

// AppError is the typed result every store and service operation surfaces to the
// caller. The Code is what the UI layer switches on, the Cause keeps the store's
// original error reachable through errors.Unwrap.
type AppError struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Cause }

func New(code Code, message string) error {
	return &AppError{Code: code, Message: message}
}

func Wrap(code Code, message string, cause error) error {
	return &AppError{Code: code, Message: message, Cause: cause}
}

func InvalidArg(msg string) error    { return New(CodeInvalidArg, msg) }
func NotFound(msg string) error      { return New(CodeNotFound, msg) }
func AlreadyExists(msg string) error { return New(CodeAlreadyExists, msg) }
func NotAMember(msg string) error    { return New(CodeNotAMember, msg) }
func NotSender(msg string) error     { return New(CodeNotSender, msg) }
func Unauthorized(msg string) error  { return New(CodeUnauthorized, msg) }

// Transient marks a store availability failure. Reads and idempotent writes are
// safe to retry; a retried append after an ambiguous failure may duplicate a
// message, which is an accepted limitation.
func Transient(msg string, cause error) error {
	return Wrap(CodeTransient, msg, cause)
}

// CodeOf extracts the code from any error in the chain, CodeUnknown otherwise.
func CodeOf(err error) Code {
	var app *AppError
	if errors.As(err, &app) {
		return app.Code
	}
	return CodeUnknown
}

func HasCode(err error, code Code) bool {
	return CodeOf(err) == code
}
