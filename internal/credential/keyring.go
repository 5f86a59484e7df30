package credential

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/99designs/keyring"
)

const (
	serviceName = "todo-client"
	tokenKey    = "access-token"
)

// ErrNoToken is returned when no session token has been saved.
var ErrNoToken = errors.New("not logged in")

// Store keeps the backend session token in a keyring.
type Store struct {
	ring keyring.Keyring
}

// New wraps an already opened keyring.
func New(ring keyring.Keyring) *Store {
	return &Store{ring: ring}
}

// Open opens the system keyring, falling back to an encrypted file under
// configDir when no native backend is available.
func Open(configDir string) (*Store, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  filepath.Join(configDir, "credentials"),
		FilePasswordFunc:         keyring.FixedStringPrompt("todo-client-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return New(ring), nil
}

// Token returns the saved token, or ErrNoToken.
func (s *Store) Token() (string, error) {
	item, err := s.ring.Get(tokenKey)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", ErrNoToken
	}
	if err != nil {
		return "", fmt.Errorf("getting credential %q: %w", tokenKey, err)
	}
	if len(item.Data) == 0 {
		return "", ErrNoToken
	}
	return string(item.Data), nil
}

// SaveToken stores the token, replacing any previous one.
func (s *Store) SaveToken(token string) error {
	err := s.ring.Set(keyring.Item{
		Key:         tokenKey,
		Data:        []byte(token),
		Label:       "todo-client session",
		Description: "bearer token for the task backend",
	})
	if err != nil {
		return fmt.Errorf("setting credential %q: %w", tokenKey, err)
	}
	return nil
}

// ClearToken removes the token. Clearing a missing token is not an error.
func (s *Store) ClearToken() error {
	err := s.ring.Remove(tokenKey)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("deleting credential %q: %w", tokenKey, err)
	}
	return nil
}
