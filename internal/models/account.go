package models

import (
	"time"

	"github.com/google/uuid"
)

// Account represents an administrator able to sign in to the admin area
type Account struct {
	ID                  uuid.UUID  `json:"id"`
	Username            string     `json:"username"`
	PasswordHash        string     `json:"-"`
	IsActive            bool       `json:"is_active"`
	FailedLoginAttempts int        `json:"failed_login_attempts"`
	LastLoginAttempt    *time.Time `json:"last_login_attempt,omitempty"`
	IPAddress           *string    `json:"ip_address,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// SignupRequest represents the request to create a new account
type SignupRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50,nospaces" example:"admin"`
	Password string `json:"password" binding:"required,max=72" example:"s3cret"`
}

// LoginRequest represents the login credentials
type LoginRequest struct {
	Username string `json:"username" binding:"required,max=50" example:"admin"`
	Password string `json:"password" binding:"required,max=72" example:"s3cret"`
}
