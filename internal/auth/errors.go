package auth

import (
	"errors"
	"fmt"
	"time"
)

// MaxFailedAttempts is the number of consecutive failed logins after which an
// account is deactivated. Reactivation is manual.
const MaxFailedAttempts = 5

// DefaultSessionTTL is the lifetime of a session token
const DefaultSessionTTL = 24 * time.Hour

var (
	// ErrAccountExists indicates the username is already registered
	ErrAccountExists = errors.New("account already exists")
	// ErrAccountNotFound indicates no account matches the lookup
	ErrAccountNotFound = errors.New("account not found")
	// ErrDeactivated indicates the account was deactivated before this attempt
	ErrDeactivated = errors.New("account is deactivated")
	// ErrLockedOut indicates this attempt exhausted the allowed failures
	ErrLockedOut = errors.New("account locked after too many failed attempts")
	// ErrInvalidCredentials is matched by every *InvalidCredentialsError
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrPasswordTooLong indicates the password exceeds what bcrypt accepts
	ErrPasswordTooLong = errors.New("password too long")
	// ErrStorage wraps any failure of the account store
	ErrStorage = errors.New("storage failure")
	// ErrInvalidToken indicates the token is invalid
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired indicates the token has expired
	ErrTokenExpired = errors.New("token expired")
)

// InvalidCredentialsError reports a password mismatch on an account that is
// still active
type InvalidCredentialsError struct {
	RemainingAttempts int
}

func (e *InvalidCredentialsError) Error() string {
	return fmt.Sprintf("invalid credentials: %d attempts remaining", e.RemainingAttempts)
}

func (e *InvalidCredentialsError) Unwrap() error {
	return ErrInvalidCredentials
}

func storageError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}
