package errors

import (
	"errors"
	"fmt"
)

// Common error types for the console
var (
	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrMissingCredentials = errors.New("email and password are required")
	ErrNotLoggedIn        = errors.New("user not logged in")

	// Request errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrTransport    = errors.New("backend unreachable")
	ErrBackend      = errors.New("backend request failed")
	ErrValidation   = errors.New("validation failed")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")

	// Configuration errors
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
