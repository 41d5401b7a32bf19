package auth

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

// Credential is a stored password hash.
type Credential struct {
	hash []byte
}

// HashPassword returns the bcrypt hash of plain.
func HashPassword(plain string) (string, error) {
	if plain == "" {
		return "", errors.New("password must not be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// NewCredential hashes plain into a Credential.
func NewCredential(plain string) (Credential, error) {
	hash, err := HashPassword(plain)
	if err != nil {
		return Credential{}, err
	}
	return Credential{hash: []byte(hash)}, nil
}

// CredentialFromHash wraps an existing bcrypt hash.
func CredentialFromHash(hash string) Credential {
	return Credential{hash: []byte(hash)}
}

// Verify reports whether plain matches the credential. An empty credential
// matches nothing.
func (c Credential) Verify(plain string) bool {
	if len(c.hash) == 0 {
		return false
	}
	return bcrypt.CompareHashAndPassword(c.hash, []byte(plain)) == nil
}

// Hash returns the encoded bcrypt hash.
func (c Credential) Hash() string {
	return string(c.hash)
}

const passwordAlphabet = "abcdefghjkmnpqrstuvwxyz23456789"

// GeneratePassword returns a random lower-case password of length n that
// avoids easily confused characters.
func GeneratePassword(n int) (string, error) {
	b := make([]byte, n)
	limit := big.NewInt(int64(len(passwordAlphabet)))
	for i := range b {
		idx, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("generate password: %w", err)
		}
		b[i] = passwordAlphabet[idx.Int64()]
	}
	return string(b), nil
}
