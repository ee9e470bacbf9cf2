package auth

import (
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/dmitrijs2005/gophbank/internal/common"
	"github.com/google/uuid"
	"golang.org/x/crypto/hkdf"
)

const signingKeySize = 32

// SigningKey is the HMAC key tokens are signed with, plus the identifier
// placed in the token header as "kid".
type SigningKey struct {
	ID     string
	Secret []byte
}

// NewSigningKey generates a fresh random key. Tokens signed with it stop
// validating once the process exits.
func NewSigningKey() (SigningKey, error) {
	secret, err := common.GenerateRandByteArray(signingKeySize)
	if err != nil {
		return SigningKey{}, fmt.Errorf("generate signing key: %w", err)
	}
	return SigningKey{ID: uuid.NewString(), Secret: secret}, nil
}

// DeriveSigningKey expands a configured secret into a signing key. The same
// secret always yields the same key and key id, so tokens survive restarts.
func DeriveSigningKey(secret string) (SigningKey, error) {
	if secret == "" {
		return SigningKey{}, fmt.Errorf("empty secret")
	}
	key := make([]byte, signingKeySize)
	r := hkdf.New(sha256.New, []byte(secret), nil, []byte("gophbank access token"))
	if _, err := io.ReadFull(r, key); err != nil {
		return SigningKey{}, fmt.Errorf("derive signing key: %w", err)
	}
	return SigningKey{ID: uuid.NewSHA1(uuid.NameSpaceOID, key).String(), Secret: key}, nil
}

// SigningKeyFromConfig derives the key from secret when set, otherwise
// generates a random one.
func SigningKeyFromConfig(secret string) (SigningKey, error) {
	if secret != "" {
		return DeriveSigningKey(secret)
	}
	return NewSigningKey()
}
