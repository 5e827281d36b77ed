// Package storage provides the durable key-value state used by the client:
// the bearer token and the serialized current user. Values are kept in a
// single JSON state file and every mutation is written through synchronously,
// last write wins.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Keys shared between the HTTP client and the session store. Both are
// cleared together on logout and on a 401 response.
const (
	KeyCurrentUser = "currentUser"
	KeyAuthToken   = "auth-token"
)

const stateFile = "state.json"

// ErrKeyNotFound is returned when a key has no stored value.
var ErrKeyNotFound = errors.New("storage: key not found")

// Store is a file-backed string-to-JSON map. Safe for concurrent use.
type Store struct {
	mu     sync.Mutex
	path   string
	values map[string]json.RawMessage
}

// Open loads (or initializes) the state file under dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}

	s := &Store{
		path:   filepath.Join(dir, stateFile),
		values: make(map[string]json.RawMessage),
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state file: %w", err)
	}
	if err := json.Unmarshal(data, &s.values); err != nil {
		return nil, fmt.Errorf("parse state file %s: %w", s.path, err)
	}
	return s, nil
}

// Get returns the string value stored under key.
func (s *Store) Get(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok := s.values[key]
	if !ok {
		return "", ErrKeyNotFound
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", fmt.Errorf("decode value for %q: %w", key, err)
	}
	return v, nil
}

// GetJSON decodes the value stored under key into out.
func (s *Store) GetJSON(key string, out interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok := s.values[key]
	if !ok {
		return ErrKeyNotFound
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode value for %q: %w", key, err)
	}
	return nil
}

// Set stores a string value under key.
func (s *Store) Set(key, value string) error {
	raw, _ := json.Marshal(value)
	return s.setRaw(key, raw)
}

// SetJSON stores the JSON encoding of v under key.
func (s *Store) SetJSON(key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode value for %q: %w", key, err)
	}
	return s.setRaw(key, raw)
}

func (s *Store) setRaw(key string, raw json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = raw
	return s.persist()
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.values[key]; !ok {
		return nil
	}
	delete(s.values, key)
	return s.persist()
}

// Has reports whether key currently holds a value.
func (s *Store) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.values[key]
	return ok
}

// Clear removes all keys.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values = make(map[string]json.RawMessage)
	return s.persist()
}

// persist writes the state file atomically. Callers must hold s.mu.
func (s *Store) persist() error {
	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}
