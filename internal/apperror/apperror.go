// Package apperror defines the application's error taxonomy.
//
// Every layer below the handlers returns one of these domain errors (wrapped
// or bare). The handlers translate them to HTTP status codes in exactly one
// place (handler/response.go). Anything that is NOT an apperror — a failed
// query, a lost connection — is a storage/server fault and surfaces as 500,
// never disguised as a domain error.
package apperror

import (
	"errors"
	"fmt"
)

// Sentinel errors. Check with errors.Is(err, apperror.ErrXxx) — the AppError
// wrapper implements Unwrap so the match works anywhere in the chain.
var (
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation failed")
	ErrConflict           = errors.New("conflict")
	ErrForbidden          = errors.New("forbidden")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type AppError struct {
	Err     error  // sentinel this error wraps
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
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

func Conflict(field, message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
		Field:   field,
	}
}

// Forbidden returns an AppError indicating the caller lacks permission.
// HTTP handlers map this to 403 Forbidden.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

// Unauthorized returns an AppError for requests with no valid identity
// (missing, expired, or tampered token). Maps to 401.
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}

// InvalidCredentials returns the single error used for EVERY login failure.
//
// Whether the username doesn't exist or the password is wrong, the caller
// sees the same error — revealing which half failed would let an attacker
// enumerate registered usernames.
func InvalidCredentials() *AppError {
	return &AppError{
		Err:     ErrInvalidCredentials,
		Message: "invalid username or password",
	}
}
