package session

import (
	"os"
	"path/filepath"
	"strings"
)

// Storage keys, one file each under the session directory.
const (
	userKey   = "skvt_user"
	expiryKey = "skvt_session_expiry"
)

// Store is the durable key-value storage behind the session: a directory with
// one small file per key.
type Store struct {
	dir string
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Get(key string) (string, bool) {
	raw, err := os.ReadFile(filepath.Join(s.dir, key))
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(string(raw)), true
}

func (s *Store) Set(key, value string) error {
	return os.WriteFile(filepath.Join(s.dir, key), []byte(value), 0o600)
}

func (s *Store) Delete(key string) {
	_ = os.Remove(filepath.Join(s.dir, key))
}
