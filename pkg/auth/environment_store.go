package auth

import (
	"os"
	"time"
)

// EnvironmentStore implements CredentialStore using environment variables
// This is primarily for backward compatibility
type EnvironmentStore struct{}

// NewEnvironmentStore creates a new environment-based credential store
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

// Store is not supported for environment variables
func (e *EnvironmentStore) Store(cred *Credential) error {
	return ErrStoreUnavailable
}

// Retrieve gets the API key from environment variables
func (e *EnvironmentStore) Retrieve(name string) (*Credential, error) {
	apiKey := os.Getenv("APODSAVER_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("NASA_API_KEY")
	}

	if apiKey == "" {
		return nil, ErrCredentialsNotFound
	}

	// Environment variables don't store a name, so we use "default" or the provided one
	if name == "" {
		name = DefaultCredentialName
	}

	return &Credential{
		Name:         name,
		APIKey:       apiKey,
		LastModified: time.Now(),
	}, nil
}

// List returns a single credential if environment variables are set
func (e *EnvironmentStore) List() ([]*Credential, error) {
	cred, err := e.Retrieve("")
	if err != nil {
		return []*Credential{}, nil
	}
	return []*Credential{cred}, nil
}

// Delete is not supported for environment variables
func (e *EnvironmentStore) Delete(name string) error {
	return ErrStoreUnavailable
}

// Exists checks if environment credentials exist
func (e *EnvironmentStore) Exists(name string) bool {
	return os.Getenv("APODSAVER_API_KEY") != "" || os.Getenv("NASA_API_KEY") != ""
}
