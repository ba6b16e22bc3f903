package security

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// ResetTokenTTL is how long a password-reset token stays redeemable.
const ResetTokenTTL = 10 * time.Minute

// ResetToken is a single-use password-reset credential. Plain goes to the
// user by email; only Digest is stored, so a database leak does not expose
// redeemable tokens.
type ResetToken struct {
	Plain     string
	Digest    string
	ExpiresAt time.Time
}

// NewResetToken generates a fresh reset token.
func NewResetToken() (ResetToken, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return ResetToken{}, err
	}
	plain := hex.EncodeToString(buf)
	return ResetToken{
		Plain:     plain,
		Digest:    HashResetToken(plain),
		ExpiresAt: time.Now().Add(ResetTokenTTL),
	}, nil
}

// HashResetToken derives the stored digest from a plaintext reset token.
func HashResetToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}
