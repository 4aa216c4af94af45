// Package identity implements the credential store and the authentication
// service built on top of it: registration, credential verification and
// token issuance.
package identity

import (
	"context"

	"authd/internal/server/models"
)

// Credential couples an Identity with its stored password digest. It exists
// only on the path between the store and the authentication service, for
// recompute-and-compare verification; the digest never travels further.
type Credential struct {
	Identity       models.Identity
	PasswordDigest string
}

// Store is the credential store contract. Create and FindByID/ListAll return
// models.Identity, which structurally cannot carry a digest; FindByEmail is
// the single digest-inclusive read path.
type Store interface {
	Create(ctx context.Context, draft *models.Draft) (*models.Identity, error)
	FindByEmail(ctx context.Context, email string) (*Credential, error)
	FindByID(ctx context.Context, id string) (*models.Identity, error)
	ListAll(ctx context.Context) ([]models.Identity, error)
}
