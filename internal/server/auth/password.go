package auth

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophbank/internal/common"
	"golang.org/x/crypto/argon2"
)

// Argon2id cost parameters for newly written hashes.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
	argonSaltLen = 16
)

const argonPrefix = "$argon2id$"

// Bounds accepted when verifying stored argon2id hashes.
const (
	argonMaxMemory = 1024 * 1024 // KiB
	argonMaxTime   = 16
	argonMaxKeyLen = 128
)

// Hasher turns a plaintext secret into its stored form.
type Hasher interface {
	Hash(plaintext string) (string, error)
}

// SHA512Hasher stores hex(SHA-512(plaintext)). Unsalted and deterministic,
// kept so rows written by earlier deployments still verify.
type SHA512Hasher struct{}

func (SHA512Hasher) Hash(plaintext string) (string, error) {
	return HashSHA512(plaintext), nil
}

// HashSHA512 returns the lowercase hex SHA-512 digest of plaintext.
func HashSHA512(plaintext string) string {
	sum := sha512.Sum512([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}

// Argon2Hasher stores a salted argon2id digest in PHC string format.
type Argon2Hasher struct{}

func (Argon2Hasher) Hash(plaintext string) (string, error) {
	salt, err := common.GenerateRandByteArray(argonSaltLen)
	if err != nil {
		return "", err
	}
	return encodeArgon2(plaintext, salt, argonTime, argonMemory, argonThreads), nil
}

func encodeArgon2(plaintext string, salt []byte, t, m uint32, p uint8) string {
	key := argon2.IDKey([]byte(plaintext), salt, t, m, p, argonKeyLen)
	b64 := base64.RawStdEncoding
	return fmt.Sprintf("%sv=%d$m=%d,t=%d,p=%d$%s$%s",
		argonPrefix, argon2.Version, m, t, p, b64.EncodeToString(salt), b64.EncodeToString(key))
}

// NewHasher returns the hasher for a configured scheme name.
func NewHasher(scheme string) (Hasher, error) {
	switch scheme {
	case "", "sha512":
		return SHA512Hasher{}, nil
	case "argon2id":
		return Argon2Hasher{}, nil
	}
	return nil, fmt.Errorf("unknown hash scheme %q", scheme)
}

// VerifySecret reports whether plaintext matches stored. The scheme is taken
// from stored itself so rows hashed under either scheme keep working.
func VerifySecret(plaintext, stored string) bool {
	if strings.HasPrefix(stored, argonPrefix) {
		return verifyArgon2(plaintext, stored)
	}
	return subtle.ConstantTimeCompare([]byte(HashSHA512(plaintext)), []byte(stored)) == 1
}

func verifyArgon2(plaintext, stored string) bool {
	// "", "argon2id", "v=19", "m=..,t=..,p=..", salt, key
	parts := strings.Split(stored, "$")
	if len(parts) != 6 {
		return false
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false
	}

	var m, t uint32
	var p uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &m, &t, &p); err != nil {
		return false
	}
	if t < 1 || t > argonMaxTime || p < 1 || m < 8*uint32(p) || m > argonMaxMemory {
		return false
	}

	b64 := base64.RawStdEncoding
	salt, err := b64.DecodeString(parts[4])
	if err != nil {
		return false
	}
	want, err := b64.DecodeString(parts[5])
	if err != nil || len(want) == 0 || len(want) > argonMaxKeyLen {
		return false
	}

	got := argon2.IDKey([]byte(plaintext), salt, t, m, p, uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1
}
