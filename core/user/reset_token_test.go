package user

import (
	"bytes"
	"testing"
	"time"

	"github.com/vaaniprep/vaani/core"
)

func TestMakeResetToken(t *testing.T) {
	conf := &core.Config{
		SecretKey: []byte("secret"),
		Server:    core.ServerConfig{PasswordResetTimeout: time.Hour},
	}
	usr := User{ID: 1, Name: "T", Username: "t", Email: "t@test.test"}

	plain, token := makeResetToken(conf, usr)
	if plain == "" {
		t.Fatal("makeResetToken() returned empty plaintext")
	}
	if token.UserID != usr.ID {
		t.Errorf("UserID = %d, want %d", token.UserID, usr.ID)
	}
	if !bytes.Equal(token.TokenHash, HashToken(conf.SecretKey, plain)) {
		t.Error("stored hash does not match the plaintext's hash")
	}
	if token.Expired() {
		t.Error("fresh token reported expired")
	}

	// a second issuance never repeats the plaintext or the hash
	plain2, token2 := makeResetToken(conf, usr)
	if plain == plain2 {
		t.Error("two issuances produced the same plaintext")
	}
	if bytes.Equal(token.TokenHash, token2.TokenHash) {
		t.Error("two issuances produced the same hash")
	}

	// different secret keys never produce the same hash
	if bytes.Equal(HashToken([]byte("other"), plain), token.TokenHash) {
		t.Error("different keys produced the same hash")
	}
}

func TestResetTokenExpired(t *testing.T) {
	conf := &core.Config{
		SecretKey: []byte("secret"),
		Server:    core.ServerConfig{PasswordResetTimeout: time.Hour},
	}
	usr := User{ID: 1, Email: "t@test.test"}

	nowFunc = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	_, expired := makeResetToken(conf, usr)
	nowFunc = time.Now // reset

	if !expired.Expired() {
		t.Error("token issued 2h ago with a 1h timeout not reported expired")
	}
}
