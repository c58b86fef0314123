package session

import (
	"strings"
	"sync"

	"github.com/tair/storefront/pkg/auth"
)

// CredentialStore is the password table kept apart from user records.
// Hashing happens before a record is stored so a bad password never reaches the table.
type CredentialStore interface {
	Verify(email, password string) bool
	SetHash(email, hash string) error
}

// MemoryCredentials holds bcrypt hashes keyed by email
type MemoryCredentials struct {
	mu     sync.RWMutex
	hashes map[string]string
}

// NewMemoryCredentials creates an empty credential table
func NewMemoryCredentials() *MemoryCredentials {
	return &MemoryCredentials{hashes: make(map[string]string)}
}

// Verify reports whether password matches the hash stored for email
func (c *MemoryCredentials) Verify(email, password string) bool {
	c.mu.RLock()
	hash, ok := c.hashes[credentialKey(email)]
	c.mu.RUnlock()
	if !ok {
		return false
	}
	return auth.CheckPassword(hash, password)
}

// Set hashes password and records it for email
func (c *MemoryCredentials) Set(email, password string) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	return c.SetHash(email, hash)
}

// SetHash records an already hashed password for email
func (c *MemoryCredentials) SetHash(email, hash string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hashes[credentialKey(email)] = hash
	return nil
}

// Seed records every email/password pair in passwords
func (c *MemoryCredentials) Seed(passwords map[string]string) error {
	for email, password := range passwords {
		if err := c.Set(email, password); err != nil {
			return err
		}
	}
	return nil
}

func credentialKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
