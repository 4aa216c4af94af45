// Package common defines sentinel errors shared across the layers of authd.
// Callers match them with errors.Is; layers may wrap them with extra context.
package common

import "errors"

var (
	// Store-level errors.
	ErrNotFound          = errors.New("not found")
	ErrDuplicateIdentity = errors.New("identity already exists")
	ErrPersistence       = errors.New("persistence failure")

	// Input validation.
	ErrValidation = errors.New("validation failure")

	// Authentication. Deliberately carries no detail about which check failed.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Generic internal flow control.
	ErrInternal = errors.New("internal error")

	// Token errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
