// Package models holds the durable data shapes of the server.
package models

import "time"

// Identity is the externally visible representation of a registered user.
// It deliberately has no field for the password digest: any code holding an
// Identity is safe to serialize on any return path. The digest-carrying
// counterpart lives in the identity package and never leaves it.
type Identity struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"isActive"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"createdAt"`
}

// Draft carries the input for creating an Identity. Password is the submitted
// plaintext; it is digested once at creation and never persisted as-is.
// Roles may be empty, in which case the store assigns the baseline role.
type Draft struct {
	Email    string
	Name     string
	Password string
	Roles    []string
}
