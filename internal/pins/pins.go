package pins

import (
	"errors"
	"math/rand/v2"
	"strconv"
	"strings"
)

const (
	PinLength       = 6
	PinScopeMatches = "matches"
)

var (
	ErrDuplicatePin = errors.New("duplicate pin")
	letterRunes     = []rune("abcdefghijklmnopqrstuvwxyz1234567890")
)

// Pin is a short public identifier for a stored record. It marshals to its plain string.
type Pin struct {
	ID    int64
	Pin   string
	Scope string
}

func (p Pin) MarshalJSON() ([]byte, error) {
	jsonValue := strconv.Quote(p.Pin)
	return []byte(jsonValue), nil
}

func (p Pin) String() string {
	return p.Pin
}

func New(scope string) Pin {
	return Pin{Pin: GeneratePin(PinLength), Scope: scope}
}

func GeneratePin(l int) string {
	b := make([]rune, l)
	for i := range b {
		b[i] = letterRunes[rand.IntN(len(letterRunes))]
	}
	return string(b)
}

// Normalize lowercases a pin taken from a URL or query string.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func Valid(s string) bool {
	if len(s) != PinLength {
		return false
	}
	for _, r := range s {
		if !strings.ContainsRune(string(letterRunes), r) {
			return false
		}
	}
	return true
}
