package models

// LoginResponse represents the response to a successful login.
// The session token itself travels in the HTTP-only cookie.
type LoginResponse struct {
	Message string   `json:"message"`
	Account *Account `json:"account"`
}

// LoginErrorResponse represents a rejected login
type LoginErrorResponse struct {
	Error             string `json:"error"`
	RemainingAttempts *int   `json:"remaining_attempts,omitempty"`
}

// VerifyTokenResponse reports whether the session cookie is still valid
type VerifyTokenResponse struct {
	IsValid bool     `json:"is_valid"`
	Account *Account `json:"account,omitempty"`
}
