package account

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateEmail is returned when another registered user already has the email.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrInvalidCredentials is returned by Login for an unknown email and for
	// a wrong password alike.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrValidation is matched by every *ValidationError.
	ErrValidation = errors.New("validation failed")

	// ErrNotLoggedIn is returned by UpdateProfile when no session exists.
	ErrNotLoggedIn = errors.New("not logged in")

	// ErrCorruptUsers is returned when the stored users collection cannot be
	// decoded. Nothing is written over it.
	ErrCorruptUsers = errors.New("stored users collection is corrupt")
)

// ValidationError names the field that failed.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
