package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"authd/internal/common"
	"authd/internal/dbx"
	"authd/internal/server/models"
)

// pgUniqueViolation is the PostgreSQL error code for unique_violation.
const pgUniqueViolation = "23505"

// BaselineRole is assigned when a draft carries no roles.
const BaselineRole = "user"

// PostgresStore is the PostgreSQL-backed credential store. The email
// uniqueness constraint lives in the schema, so two concurrent creates with
// the same email cannot both succeed.
type PostgresStore struct {
	db dbx.DBTX
}

func NewPostgresStore(db dbx.DBTX) *PostgresStore {
	return &PostgresStore{db: db}
}

// Create validates the draft, digests the password and inserts the identity.
// The digest goes to storage and nowhere else: the returned Identity cannot
// carry it. A unique violation on email surfaces as
// common.ErrDuplicateIdentity; any other storage error as a wrapped
// common.ErrPersistence.
func (s *PostgresStore) Create(ctx context.Context, draft *models.Draft) (*models.Identity, error) {

	digest, err := HashPassword(draft.Password)
	if err != nil {
		return nil, err
	}

	roles := draft.Roles
	if len(roles) == 0 {
		roles = []string{BaselineRole}
	}

	identity := &models.Identity{
		ID:       uuid.NewString(),
		Email:    draft.Email,
		Name:     draft.Name,
		IsActive: true,
		Roles:    roles,
	}

	query :=
		`INSERT INTO identities (id, email, name, password_digest, is_active, roles)
         VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at
		 `

	err = s.db.QueryRowContext(ctx, query,
		identity.ID, identity.Email, identity.Name, digest, identity.IsActive, pq.Array(identity.Roles)).
		Scan(&identity.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %s", common.ErrDuplicateIdentity, draft.Email)
		}
		return nil, fmt.Errorf("%w: %v", common.ErrPersistence, err)
	}

	return identity, nil
}

// FindByEmail returns the matching record together with its digest. It is
// the only digest-inclusive read path and exists solely so the
// authentication service can compare credentials. Emails are matched
// exactly, with no normalization.
func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*Credential, error) {
	query :=
		`SELECT id, email, name, password_digest, is_active, roles, created_at
		 FROM identities
		 WHERE email = $1
		 `

	cred := &Credential{}
	err := s.db.QueryRowContext(ctx, query, email).Scan(
		&cred.Identity.ID, &cred.Identity.Email, &cred.Identity.Name,
		&cred.PasswordDigest, &cred.Identity.IsActive,
		pq.Array(&cred.Identity.Roles), &cred.Identity.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", common.ErrPersistence, err)
	}

	return cred, nil
}

// FindByID returns the matching record. The digest is not selected.
func (s *PostgresStore) FindByID(ctx context.Context, id string) (*models.Identity, error) {
	query :=
		`SELECT id, email, name, is_active, roles, created_at
		 FROM identities
		 WHERE id = $1
		 `

	identity := &models.Identity{}
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&identity.ID, &identity.Email, &identity.Name,
		&identity.IsActive, pq.Array(&identity.Roles), &identity.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", common.ErrPersistence, err)
	}

	return identity, nil
}

// ListAll returns every identity record. The digest is not selected.
func (s *PostgresStore) ListAll(ctx context.Context) ([]models.Identity, error) {
	query :=
		`SELECT id, email, name, is_active, roles, created_at
		 FROM identities
		 ORDER BY created_at
		 `

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrPersistence, err)
	}
	defer rows.Close()

	identities := []models.Identity{}
	for rows.Next() {
		var identity models.Identity
		if err := rows.Scan(
			&identity.ID, &identity.Email, &identity.Name,
			&identity.IsActive, pq.Array(&identity.Roles), &identity.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrPersistence, err)
		}
		identities = append(identities, identity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrPersistence, err)
	}

	return identities, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
