package session

import (
	"encoding/json" // JSON encoding of the session record
	"errors"        // Error inspection
	"os"            // File access
	"path/filepath" // Default record location
	"sync"          // Guarding the single-writer assumption in-process
)

// FileStore keeps the session record in a JSON file, the console's analog
// of durable key-value browser storage.
type FileStore struct {
	mu   sync.RWMutex
	path string // Location of the record
}

// NewFileStore opens a file-backed store. An empty path places the record
// under the user config directory.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, "wallet_console", "session.json")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return &FileStore{path: path}, nil
}

// Login writes the identity record
func (s *FileStore) Login(id Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := json.MarshalIndent(id, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, b, 0o600)
}

// Logout removes the record; a missing record is not an error
func (s *FileStore) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Current reads the record; any unreadable or empty record counts as absent
func (s *FileStore) Current() (Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, err := os.ReadFile(s.path)
	if err != nil {
		return Identity{}, false
	}
	var id Identity
	if err := json.Unmarshal(b, &id); err != nil {
		return Identity{}, false
	}
	if id.CustomerID == "" && !id.Admin {
		return Identity{}, false
	}
	return id, true
}
