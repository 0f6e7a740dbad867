package errs

import (
	"errors"
	"fmt"
)

// Common error types for the session service
var (
	// Token errors
	ErrInvalidToken        = errors.New("invalid token")
	ErrTokenExpired        = errors.New("token expired")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrMissingRefreshToken = errors.New("refresh token is missing")

	// Configuration errors
	ErrMissingClientID     = errors.New("SSO client id is not configured")
	ErrMissingClientSecret = errors.New("SSO client secret is not configured")

	// Session errors
	ErrSessionNotFound  = errors.New("session not found")
	ErrPopupClosed      = errors.New("Popup closed")
	ErrLoginTimeout     = errors.New("login timed out")
	ErrAlreadyLoggedOut = errors.New("already logged out")

	// Staff errors
	ErrStaffUserNotFound = errors.New("staff user not found")
	ErrStaffUserArchived = errors.New("staff user is archived")
	ErrLocationNotFound  = errors.New("location not found")

	// General errors
	ErrNotFound = errors.New("not found")
	ErrInternal = errors.New("internal error")
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
