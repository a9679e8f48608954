package domain

import "errors"

// Error kinds. Handlers map them to status codes with errors.Is.
var (
	ErrValidation   = errors.New("validation error")
	ErrDuplicate    = errors.New("already exists")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
)

// Error is a client-facing message attached to one of the kinds above.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Validation wraps msg as an ErrValidation.
func Validation(msg string) *Error {
	return newError(ErrValidation, msg)
}

var (
	ErrUsernameTaken      = newError(ErrDuplicate, "Username already registered")
	ErrEmailTaken         = newError(ErrDuplicate, "Email already registered")
	ErrInvalidCredentials = newError(ErrUnauthorized, "Incorrect username or password")
	ErrNotAuthenticated   = newError(ErrUnauthorized, "Not authenticated")
	ErrBadCredentials     = newError(ErrUnauthorized, "Could not validate credentials")
	ErrTaskNotFound       = newError(ErrNotFound, "Task not found")
	ErrUserNotFound       = newError(ErrNotFound, "User not found")
	ErrInvalidTitle       = newError(ErrValidation, "title must be between 1 and 200 characters")
)
