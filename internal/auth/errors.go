package auth

import "errors"

// User-input failures. Handlers report these to the caller as-is.
var (
	ErrMissingFields      = errors.New("missing required fields")
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid password or email")
)

// Infrastructure failures. They wrap the underlying cause.
var (
	ErrDirectoryUnavailable = errors.New("account directory unavailable")
	ErrSigningFailure       = errors.New("token signing failed")
	ErrHashFailure          = errors.New("password hashing failed")
)

// Token verification failures.
var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("invalid token")
)

// IsUserError reports whether err was caused by the caller's input rather
// than by the system.
func IsUserError(err error) bool {
	return errors.Is(err, ErrMissingFields) ||
		errors.Is(err, ErrDuplicateEmail) ||
		errors.Is(err, ErrInvalidCredentials)
}
