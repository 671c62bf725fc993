package credentials

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base32"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Generator derives recoverable credentials for subjects and evaluators. The
// secret is deterministic in (key, email), so it can be recomputed for
// display later without storing plaintext: if the stored hash still matches
// the derived secret, the user has not changed their password yet.
type Generator struct {
	key    []byte
	length int
}

func NewGenerator(secret string, length int) *Generator {
	if length <= 0 {
		length = 10
	}
	return &Generator{key: []byte(secret), length: length}
}

// Generate derives the credential for an email address. Case and surrounding
// whitespace in the email do not affect the result.
func (g *Generator) Generate(email string) string {
	mac := hmac.New(sha256.New, g.key)
	mac.Write([]byte(strings.ToLower(strings.TrimSpace(email))))
	encoded := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(mac.Sum(nil))
	if len(encoded) > g.length {
		encoded = encoded[:g.length]
	}
	return encoded
}

// Hash returns the bcrypt hash to persist for a generated secret.
func (g *Generator) Hash(secret string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// IsGeneratedSecret reports whether the stored hash still corresponds to the
// credential derived from the email. False means the user has replaced the
// generated credential with their own password.
func (g *Generator) IsGeneratedSecret(email, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(g.Generate(email))) == nil
}
