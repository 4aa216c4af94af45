package identity

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"authd/internal/common"
)

const (
	// MinPasswordLength is enforced before any digest is computed.
	MinPasswordLength = 6

	// DigestCost is the bcrypt work factor. Raising it slows registration
	// and login alike.
	DigestCost = 10
)

// HashPassword turns a plaintext password into a bcrypt digest. The salt is
// generated per call and embedded in the digest, so two digests of the same
// password differ. Passwords shorter than MinPasswordLength are rejected
// with common.ErrValidation.
func HashPassword(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", fmt.Errorf("%w: password must be at least %d characters", common.ErrValidation, MinPasswordLength)
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(password), DigestCost)
	if err != nil {
		return "", err
	}

	return string(digest), nil
}

// VerifyPassword reports whether password matches the stored digest. The
// digest is never decrypted; bcrypt recomputes with the embedded salt and
// compares.
func VerifyPassword(digest, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
