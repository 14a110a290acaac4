package repository

import "errors"

var (
	// Common errors
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")

	// Account errors
	ErrAccountNotFound = errors.New("account not found")
	ErrUsernameExists  = errors.New("username already exists")

	// Post errors
	ErrPostNotFound = errors.New("post not found")

	// Contact errors
	ErrContactNotFound = errors.New("contact not found")
)
