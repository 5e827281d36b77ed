// Package session holds the authenticated identity for the running client.
// The store is an explicit object constructed at application start and
// threaded to its consumers; it rehydrates once from durable storage after a
// restart and is torn down by Logout. There is no package-level singleton.
package session

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/mediconnect/mediconnect/internal/platform/storage"
)

var (
	// ErrUserNotFound is returned by Login for an unknown email.
	ErrUserNotFound = errors.New("session: user not found")
	// ErrInvalidCredentials is returned when password verification is
	// enabled and the password does not match.
	ErrInvalidCredentials = errors.New("session: invalid credentials")
)

// KV is the durable storage surface the session store writes through.
// *storage.Store satisfies it.
type KV interface {
	Set(key, value string) error
	SetJSON(key string, v interface{}) error
	GetJSON(key string, out interface{}) error
	Delete(key string) error
}

// Store manages at most one authenticated user at a time. All mutating
// operations write through to durable storage synchronously.
type Store struct {
	mu      sync.Mutex
	dir     *Directory
	kv      KV
	current *User
	loaded  bool

	// verifyPasswords turns on bcrypt credential checking. The default is
	// off to match the demo contract, where any password is accepted for a
	// known email. Real deployments must enable it.
	verifyPasswords bool
}

// Option customizes a Store.
type Option func(*Store)

// WithPasswordVerification makes Login compare the given password against
// the directory's bcrypt hash.
func WithPasswordVerification() Option {
	return func(s *Store) { s.verifyPasswords = true }
}

// New builds a session store over a user directory and a durable store.
func New(dir *Directory, kv KV, opts ...Option) *Store {
	s := &Store{dir: dir, kv: kv}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login authenticates by email. Unknown emails fail with ErrUserNotFound
// and leave persisted state untouched. On success the user and a synthetic
// role token are persisted and the user is returned.
func (s *Store) Login(email, password string) (*User, error) {
	user, hash, ok := s.dir.FindByEmail(email)
	if !ok {
		return nil, ErrUserNotFound
	}
	if s.verifyPasswords {
		if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
			return nil, ErrInvalidCredentials
		}
	}
	return s.establish(user)
}

// Register adds the user to the directory with the next sequential id and
// logs them in immediately.
func (s *Store) Register(u User, password string) (*User, error) {
	created, err := s.dir.Add(u, password)
	if err != nil {
		return nil, fmt.Errorf("register user: %w", err)
	}
	return s.establish(created)
}

func (s *Store) establish(user User) (*User, error) {
	if err := s.kv.SetJSON(storage.KeyCurrentUser, user); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}
	if err := s.kv.Set(storage.KeyAuthToken, Token(user.Role)); err != nil {
		// The two keys live and die together; roll back the user record
		// rather than leave a half-written session behind.
		_ = s.kv.Delete(storage.KeyCurrentUser)
		return nil, fmt.Errorf("persist token: %w", err)
	}

	s.mu.Lock()
	s.current = &user
	s.loaded = true
	s.mu.Unlock()
	return &user, nil
}

// CurrentUser returns the signed-in user, rehydrating once from durable
// storage on the first access after a restart. Returns nil when nobody is
// signed in.
func (s *Store) CurrentUser() *User {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil && !s.loaded {
		s.loaded = true
		var u User
		if err := s.kv.GetJSON(storage.KeyCurrentUser, &u); err == nil {
			s.current = &u
		}
	}
	if s.current == nil {
		return nil
	}
	u := *s.current
	return &u
}

// Logout drops the in-memory identity and removes both persisted keys.
func (s *Store) Logout() error {
	s.mu.Lock()
	s.current = nil
	s.loaded = true
	s.mu.Unlock()

	if err := s.kv.Delete(storage.KeyCurrentUser); err != nil {
		return err
	}
	return s.kv.Delete(storage.KeyAuthToken)
}

// IsAuthenticated reports whether a user is signed in.
func (s *Store) IsAuthenticated() bool {
	return s.CurrentUser() != nil
}

// HasRole reports whether the signed-in user holds role.
func (s *Store) HasRole(role Role) bool {
	u := s.CurrentUser()
	return u != nil && u.Role == role
}
