package user

import (
	"crypto/hmac"
	"crypto/sha256"
	"time"

	"github.com/google/uuid"

	"github.com/vaaniprep/vaani/core"
)

var (
	salt    = []byte("vaani.core.user.reset_token")
	nowFunc = time.Now // mockable
)

// ResetToken is the stored form of a password-reset token: only the salted
// hash of the plaintext ever touches the database. Single-use and time-bounded.
type ResetToken struct {
	TokenHash []byte
	UserID    int
	ExpiresAt time.Time // UTC
}

func (t ResetToken) Expired() bool {
	return nowFunc().UTC().After(t.ExpiresAt)
}

// makeResetToken generates the plaintext token (mailed to the user) and its
// stored counterpart.
func makeResetToken(conf *core.Config, usr User) (string, ResetToken) {
	plain := uuid.NewString()
	return plain, ResetToken{
		TokenHash: HashToken(conf.SecretKey, plain),
		UserID:    usr.ID,
		ExpiresAt: nowFunc().UTC().Add(conf.Server.PasswordResetTimeout),
	}
}

// HashToken computes the salted HMAC-SHA256 of a plaintext token.
func HashToken(secretKey []byte, plain string) []byte {
	key := sha256.Sum256(append(salt, secretKey...))
	h := hmac.New(sha256.New, key[:])
	h.Write([]byte(plain))
	return h.Sum(nil)
}
