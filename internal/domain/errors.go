package domain

import "errors"

var (
	// ErrNotFound signals an unknown session or user id.
	ErrNotFound = errors.New("not found")

	// ErrEmailTaken signals a signup with an already-registered email.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials signals a failed login.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError reports a malformed request or a malformed collaborator
// response. It maps to a 4xx/5xx at the API boundary depending on origin.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// NewValidationError builds a ValidationError with the given reason.
func NewValidationError(reason string) *ValidationError {
	return &ValidationError{Reason: reason}
}
