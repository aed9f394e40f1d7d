package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a stored entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a unique constraint is violated.
	ErrAlreadyExists = errors.New("already exists")

	ErrEmptyCategoryName    = errors.New("category name is empty")
	ErrCategoryExists       = errors.New("category already exists")
	ErrCategoryLimit        = errors.New("category limit reached")
	ErrCategoryNotFound     = errors.New("category not found")
	ErrSignInRequired       = errors.New("sign in required")
	ErrToolFieldsRequired   = errors.New("tool name and url are required")
	ErrConfirmationRequired = errors.New("confirmation required")
	ErrExportDisabled       = errors.New("export is disabled")
)

// AuthErrorCode enumerates identity provider failure codes.
type AuthErrorCode string

const (
	AuthEmailAlreadyInUse AuthErrorCode = "auth/email-already-in-use"
	AuthWeakPassword      AuthErrorCode = "auth/weak-password"
	AuthInvalidEmail      AuthErrorCode = "auth/invalid-email"
	AuthInvalidCredential AuthErrorCode = "auth/invalid-credential"
	AuthInternal          AuthErrorCode = "auth/internal-error"
)

// AuthError is returned by the identity provider for sign-up and sign-in failures.
type AuthError struct {
	Code AuthErrorCode
	Err  error
}

// NewAuthError creates an AuthError with an optional cause.
func NewAuthError(code AuthErrorCode, err error) *AuthError {
	return &AuthError{Code: code, Err: err}
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	return string(e.Code)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}
