package data

import (
	"crypto/rand"
	"encoding/base32"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ScorerKey authorizes changes to a match. Only the bcrypt hash is stored; the plaintext is
// handed out once when the match is created.
type ScorerKey struct {
	plaintext *string
	hash      []byte
}

func GenerateScorerKey() (string, error) {
	randomBytes := make([]byte, 16)
	_, err := rand.Read(randomBytes)
	if err != nil {
		return "", err
	}

	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(randomBytes), nil
}

func (k *ScorerKey) Set(plaintextKey string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintextKey), 12)
	if err != nil {
		return err
	}

	k.plaintext = &plaintextKey
	k.hash = hash

	return nil
}

func (k *ScorerKey) Matches(plaintextKey string) (bool, error) {
	err := bcrypt.CompareHashAndPassword(k.hash, []byte(plaintextKey))
	if err != nil {
		switch {
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			return false, nil
		default:
			return false, err
		}
	}

	return true, nil
}

// Plaintext is only available on a key set during this process.
func (k *ScorerKey) Plaintext() (string, bool) {
	if k.plaintext == nil {
		return "", false
	}
	return *k.plaintext, true
}
