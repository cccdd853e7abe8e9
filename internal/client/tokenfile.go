package client

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// TokenFile keeps the bearer token on disk so a login survives process
// restarts: saved on login, removed on logout or when the server reports
// the session expired.
type TokenFile struct {
	path string
}

func NewTokenFile(path string) *TokenFile {
	return &TokenFile{path: path}
}

// DefaultTokenPath is the per-user location of the saved token.
func DefaultTokenPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "tasker", "token"), nil
}

// Load returns the saved token, or "" when none is saved.
func (f *TokenFile) Load() (string, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// Save writes the token, readable only by the owner.
func (f *TokenFile) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(f.path, []byte(token+"\n"), 0o600)
}

// Clear removes the saved token. Clearing an already-absent token is fine.
func (f *TokenFile) Clear() error {
	err := os.Remove(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
