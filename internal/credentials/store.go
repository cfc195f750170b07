// Package credentials stores passwords per user@dsn identity and provides the
// password sources used to connect.
package credentials

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vvka-141/blobloader/internal/config"
	"github.com/vvka-141/blobloader/pkg/blobloader"
)

// Store is a JSON credential file mapping "<user>@<dsn-or-LOCAL>" to a password.
// There is no file locking; concurrent saves can lose updates.
type Store struct {
	path string
}

// NewStore creates a Store backed by path. A leading "~" is expanded.
func NewStore(path string) (*Store, error) {
	abs, err := config.ExpandPath(path)
	if err != nil {
		return nil, err
	}
	return &Store{path: abs}, nil
}

// Path returns the absolute path of the credential file.
func (s *Store) Path() string {
	return s.path
}

// Save adds or replaces the entry for user@dsn, keeping all other entries.
func (s *Store) Save(user, dsn, password string) error {
	entries, err := s.load()
	if err != nil {
		return err
	}
	if entries == nil {
		entries = make(map[string]string)
	}
	entries[blobloader.IdentityKey(user, dsn)] = password

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return err
	}

	// Restricted permissions: the file holds plaintext passwords.
	if err := os.WriteFile(s.path, append(data, '\n'), 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.path, err)
	}
	return nil
}

// Read returns the password for user@dsn. found is false with a nil error
// when the credential file does not exist. A file without the entry yields
// ErrCredentialNotFound.
func (s *Store) Read(user, dsn string) (password string, found bool, err error) {
	entries, err := s.load()
	if err != nil {
		return "", false, err
	}
	if entries == nil {
		return "", false, nil
	}

	key := blobloader.IdentityKey(user, dsn)
	password, ok := entries[key]
	if !ok {
		return "", false, fmt.Errorf("%s in %s: %w", key, s.path, blobloader.ErrCredentialNotFound)
	}
	return password, true, nil
}

// load returns nil, nil when the file does not exist.
func (s *Store) load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}

	entries := make(map[string]string)
	if len(data) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("credential file %s is not valid JSON: %w", s.path, err)
	}
	return entries, nil
}
