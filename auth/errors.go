package auth

import "fmt"

// Code identifies a known authentication failure. Handlers map codes to
// localized user-facing messages; unknown codes fall back to a generic one.
type Code string

const (
	CodeEmailInUse      Code = "email-already-in-use"
	CodeInvalidEmail    Code = "invalid-email"
	CodeWeakPassword    Code = "weak-password"
	CodeUserNotFound    Code = "user-not-found"
	CodeWrongPassword   Code = "wrong-password"
	CodeTooManyRequests Code = "too-many-requests"
	CodeUnknown         Code = "unknown"
)

// Error is an authentication failure with a known code.
type Error struct {
	Code Code
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("auth: %s: %v", e.Code, e.Err)
	}
	return fmt.Sprintf("auth: %s", e.Code)
}

func (e *Error) Unwrap() error { return e.Err }

// MessageID returns the i18n message ID for the failure code.
func (e *Error) MessageID() string {
	switch e.Code {
	case CodeEmailInUse:
		return "auth_email_in_use"
	case CodeInvalidEmail:
		return "auth_invalid_email"
	case CodeWeakPassword:
		return "auth_weak_password"
	case CodeUserNotFound:
		return "auth_user_not_found"
	case CodeWrongPassword:
		return "auth_wrong_password"
	case CodeTooManyRequests:
		return "auth_too_many_requests"
	default:
		return "auth_unknown"
	}
}

func newError(code Code, err error) *Error {
	return &Error{Code: code, Err: err}
}

// AsError returns the *Error inside err, or wraps err as an unknown failure.
func AsError(err error) *Error {
	if authErr, ok := err.(*Error); ok {
		return authErr
	}
	return newError(CodeUnknown, err)
}
