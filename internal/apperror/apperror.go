package apperror

import (
	"errors"
	"fmt"
)

// Sentinel errors for the domains this app actually has: registration,
// login, and task lookup. Handlers branch on these with errors.Is and
// translate them to flash messages or a 404 page.
var (
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation error")
	ErrDuplicateUsername  = errors.New("duplicate username")
	ErrDuplicateEmail     = errors.New("duplicate email")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type AppError struct {
	Err     error  // sentinel, reachable via errors.Is
	Message string // human-readable, safe to show to the user
	Field   string // optional: form field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// DuplicateUsername and DuplicateEmail carry fixed messages: the
// registration form flashes them verbatim, and echoing the submitted
// value back adds nothing the user doesn't already see in the form.

func DuplicateUsername() *AppError {
	return &AppError{
		Err:     ErrDuplicateUsername,
		Message: "Username already exists!",
		Field:   "username",
	}
}

func DuplicateEmail() *AppError {
	return &AppError{
		Err:     ErrDuplicateEmail,
		Message: "Email already registered!",
		Field:   "email",
	}
}

// InvalidCredentials covers both "no such username" and "wrong password".
// The two cases must be indistinguishable to the caller so login attempts
// can't be used to probe which usernames exist.
func InvalidCredentials() *AppError {
	return &AppError{
		Err:     ErrInvalidCredentials,
		Message: "Invalid username or password",
	}
}
