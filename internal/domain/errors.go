package domain

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by services and the HTTP layer
var (
	ErrValidation        = errors.New("validation failed")          // 400
	ErrUnauthorized      = errors.New("unauthorized")               // 401
	ErrInvalidCredential = errors.New("invalid credentials")        // 401
	ErrForbidden         = errors.New("forbidden")                  // 403
	ErrNotFound          = errors.New("not found")                  // 404
	ErrConflict          = errors.New("conflict")                   // 409
	ErrInsufficientFunds = errors.New("insufficient funds")         // 400
	ErrNegativeBalance   = errors.New("balance cannot be negative") // 400
	ErrRegistration      = errors.New("registration failed")        // 400
)

// ConflictError is returned when a write collides with a unique index
type ConflictError struct {
	Field string // Column that collided, e.g. "email"
}

// Error implements error
func (e *ConflictError) Error() string {
	if e.Field == "" {
		return "field already exists"
	}
	return fmt.Sprintf("%s already exists", e.Field)
}

// Unwrap lets errors.Is match ErrConflict
func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// NotFoundError names the missing resource
type NotFoundError struct {
	Resource string // e.g. "User", "Book"
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// NotFound builds a NotFoundError for resource
func NotFound(resource string) error {
	return &NotFoundError{Resource: resource}
}
