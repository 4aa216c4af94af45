package identity

import (
	"context"
	"errors"

	"authd/internal/common"
	"authd/internal/logging"
	"authd/internal/server/auth"
	"authd/internal/server/models"
)

// Session bundles the identity returned to the caller with the bearer token
// minted for it.
type Session struct {
	Identity *models.Identity
	Token    string
}

// Service is the authentication service:
// - Register: create an identity and mint a token for it
// - Login: verify credentials and mint a token
// - FindByID / ListAll: digest-free reads through the store
//
// A token is minted only after the store reports a successful create or the
// submitted password matches the stored digest. There is no other path that
// produces one.
type Service struct {
	store  Store
	signer *auth.Signer
	logger logging.Logger
}

// NewService constructs a Service. Store and signer are injected; the
// service never builds its own.
func NewService(store Store, signer *auth.Signer, logger logging.Logger) *Service {
	return &Service{
		store:  store,
		signer: signer,
		logger: logger.With("module", "auth_service"),
	}
}

// Register creates a new identity from the draft and mints a token bound to
// its id. Any create failure propagates unchanged and no token is issued.
func (s *Service) Register(ctx context.Context, draft *models.Draft) (*Session, error) {
	identity, err := s.store.Create(ctx, draft)
	if err != nil {
		return nil, err
	}

	token, err := s.IssueToken(identity.ID)
	if err != nil {
		s.logger.Error(ctx, "token signing failed", "identity_id", identity.ID, "error", err)
		return nil, common.ErrInternal
	}

	return &Session{Identity: identity, Token: token}, nil
}

// Login verifies the submitted password against the stored digest and mints
// a token on match. An unknown email and a wrong password are
// indistinguishable to the caller: both yield common.ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	cred, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, err
	}

	if !VerifyPassword(cred.PasswordDigest, password) {
		return nil, common.ErrInvalidCredentials
	}

	identity := cred.Identity

	token, err := s.IssueToken(identity.ID)
	if err != nil {
		s.logger.Error(ctx, "token signing failed", "identity_id", identity.ID, "error", err)
		return nil, common.ErrInternal
	}

	return &Session{Identity: &identity, Token: token}, nil
}

// IssueToken signs a token asserting the given identity id. No side effects
// beyond the signing operation.
func (s *Service) IssueToken(identityID string) (string, error) {
	return s.signer.Sign(identityID)
}

// FindByID reads through to the store. The store never selects the digest on
// this path, so no stripping happens here.
func (s *Service) FindByID(ctx context.Context, id string) (*models.Identity, error) {
	return s.store.FindByID(ctx, id)
}

// ListAll passes through to the store.
func (s *Service) ListAll(ctx context.Context) ([]models.Identity, error) {
	return s.store.ListAll(ctx)
}
