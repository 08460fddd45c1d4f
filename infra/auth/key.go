// Package auth supplies the public API key sent with every data-store
// request. The key identifies the project, not the user.
package auth

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
)

// ErrNoKey is returned when no API key is configured.
var ErrNoKey = errors.New("no api key configured")

// KeyProvider supplies the API key.
type KeyProvider interface {
	APIKey() (string, error)
}

// StaticKey is a key given directly in configuration.
type StaticKey string

// APIKey returns the key, or ErrNoKey when blank.
func (k StaticKey) APIKey() (string, error) {
	key := strings.TrimSpace(string(k))
	if key == "" {
		return "", ErrNoKey
	}
	return key, nil
}

// FileKeyProvider reads the key from a file on first use and caches it.
type FileKeyProvider struct {
	path string

	once sync.Once
	key  string
	err  error
}

// NewFileKeyProvider creates a KeyProvider that reads from path.
func NewFileKeyProvider(path string) *FileKeyProvider {
	return &FileKeyProvider{path: path}
}

// APIKey reads and returns the key, trimming whitespace.
func (f *FileKeyProvider) APIKey() (string, error) {
	f.once.Do(func() {
		data, err := os.ReadFile(f.path)
		if err != nil {
			f.err = fmt.Errorf("reading api key from %s: %w", f.path, err)
			return
		}
		f.key = strings.TrimSpace(string(data))
		if f.key == "" {
			f.err = fmt.Errorf("api key file %s is empty", f.path)
		}
	})
	return f.key, f.err
}

// Resolve picks the inline key when set, else the key file, else nil.
func Resolve(key, keyFile string) KeyProvider {
	switch {
	case strings.TrimSpace(key) != "":
		return StaticKey(key)
	case strings.TrimSpace(keyFile) != "":
		return NewFileKeyProvider(keyFile)
	}
	return nil
}
