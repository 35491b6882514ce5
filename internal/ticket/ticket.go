// Package ticket caches successful elevations so that repeated sudo
// invocations inside a short window do not re-prompt. A ticket is an
// HS256-signed token stored per user; anything wrong with it (missing,
// expired, tampered, unreadable secret) silently falls back to password
// authentication, so the cache can never widen access.
package ticket

import (
	"crypto/rand"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "userkit"

// Cache issues and checks elevation tickets. A zero Dir disables it.
type Cache struct {
	Dir        string
	SecretPath string
	TTL        time.Duration
}

// Enabled reports whether the cache is configured at all.
func (c *Cache) Enabled() bool {
	return c != nil && c.Dir != "" && c.SecretPath != ""
}

type claims struct {
	jwt.RegisteredClaims
}

// Issue records a successful elevation for user. Failures are returned
// so the caller can log them, but a caller may ignore them: a ticket
// that failed to write just means a prompt next time.
func (c *Cache) Issue(user string) error {
	if !c.Enabled() {
		return nil
	}
	secret, err := c.secret()
	if err != nil {
		return err
	}
	now := time.Now()
	cl := claims{jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   user,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.TTL)),
	}}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, cl).SignedString(secret)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(c.Dir, 0700); err != nil {
		return err
	}
	return os.WriteFile(c.path(user), []byte(tok), 0600)
}

// Valid reports whether user holds a live ticket. Any failure along the
// way reads as "no ticket".
func (c *Cache) Valid(user string) bool {
	if !c.Enabled() {
		return false
	}
	secret, err := c.secret()
	if err != nil {
		return false
	}
	b, err := os.ReadFile(c.path(user))
	if err != nil {
		return false
	}
	parsed, err := jwt.ParseWithClaims(string(b), &claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil || !parsed.Valid {
		return false
	}
	cl, ok := parsed.Claims.(*claims)
	return ok && cl.Subject == user
}

// Drop discards user's ticket, if any.
func (c *Cache) Drop(user string) {
	if c.Enabled() {
		_ = os.Remove(c.path(user))
	}
}

func (c *Cache) path(user string) string {
	return filepath.Join(c.Dir, user)
}

// secret reads the signing secret, creating it on first use.
func (c *Cache) secret() ([]byte, error) {
	b, err := os.ReadFile(c.SecretPath)
	if err == nil && len(b) > 0 {
		return b, nil
	}
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	b = make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(c.SecretPath), 0700); err != nil {
		return nil, err
	}
	if err := os.WriteFile(c.SecretPath, b, 0600); err != nil {
		return nil, err
	}
	return b, nil
}
