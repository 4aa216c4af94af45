// Package auth implements the token signer: it mints and verifies the
// signed, self-contained bearer tokens that assert an identity's id.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"authd/internal/common"
)

// Claims is the token payload: standard registered claims plus the id of the
// identity the token was issued for.
type Claims struct {
	jwt.RegisteredClaims
	IdentityID string `json:"id"`
}

// Signer mints HS256 tokens with a fixed validity and verifies presented
// ones. It is a capability injected into the authentication service; nothing
// else holds the secret.
type Signer struct {
	secret   []byte
	validity time.Duration
}

func NewSigner(secret []byte, validity time.Duration) *Signer {
	return &Signer{secret: secret, validity: validity}
}

// Sign produces a signed token asserting the given identity id, expiring
// after the configured validity. Pure apart from reading the clock.
func (s *Signer) Sign(identityID string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.validity)),
		},
		IdentityID: identityID,
	})

	return token.SignedString(s.secret)
}

// IdentityID verifies a presented token and extracts the identity id from its
// claims. Expired tokens yield common.ErrTokenExpired; anything else that
// fails verification yields common.ErrInvalidToken.
func (s *Signer) IdentityID(tokenString string) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrInvalidToken
	}

	if !token.Valid {
		return "", common.ErrInvalidToken
	}

	return claims.IdentityID, nil
}
