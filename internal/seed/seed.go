// Package seed loads the data a storefront process starts with.
package seed

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	orderdomain "github.com/tair/storefront/internal/order/domain"
	productdomain "github.com/tair/storefront/internal/product/domain"
	"github.com/tair/storefront/internal/store"
	userdomain "github.com/tair/storefront/internal/user/domain"
)

//go:embed seed.yaml
var defaultSeed []byte

// Credential is one entry of the password table
type Credential struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

// File is the seed document
type File struct {
	Users       []userdomain.User       `yaml:"users"`
	Products    []productdomain.Product `yaml:"products"`
	Orders      []orderdomain.Order     `yaml:"orders"`
	Credentials []Credential            `yaml:"credentials"`
}

// CredentialSeeder records plain passwords in a credential table
type CredentialSeeder interface {
	Seed(passwords map[string]string) error
}

// Default returns the embedded seed data
func Default() (*File, error) {
	return Parse(defaultSeed)
}

// Load reads a seed file from path, or the embedded seed when path is empty
func Load(path string) (*File, error) {
	if path == "" {
		return Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a seed document, rejecting unknown fields
func Parse(data []byte) (*File, error) {
	var f File
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to parse seed: %w", err)
	}
	return &f, nil
}

// Snapshot converts the seed into store contents
func (f *File) Snapshot() store.Snapshot {
	return store.Snapshot{
		Users:    f.Users,
		Products: f.Products,
		Orders:   f.Orders,
	}
}

// Passwords returns the credential table keyed by email
func (f *File) Passwords() map[string]string {
	out := make(map[string]string, len(f.Credentials))
	for _, c := range f.Credentials {
		out[c.Email] = c.Password
	}
	return out
}

// Apply imports the seed into s and records its credentials in creds
func Apply(f *File, s *store.Store, creds CredentialSeeder) error {
	if err := s.Import(f.Snapshot()); err != nil {
		return fmt.Errorf("failed to import seed: %w", err)
	}
	if creds != nil {
		if err := creds.Seed(f.Passwords()); err != nil {
			return fmt.Errorf("failed to seed credentials: %w", err)
		}
	}
	return nil
}
