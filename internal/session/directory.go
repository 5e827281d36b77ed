package session

import (
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

type directoryEntry struct {
	user         User
	passwordHash []byte
}

// Directory is the in-memory user registry backing the session store. It
// stands in for the backend's user table; a real integration replaces it
// with a network lookup while the Store contract stays unchanged.
type Directory struct {
	mu      sync.Mutex
	entries []directoryEntry
	nextID  int
}

// NewDirectory returns an empty directory.
func NewDirectory() *Directory {
	return &Directory{nextID: 1}
}

// DemoDirectory returns the seeded demo registry: one patient, one validated
// doctor, one admin. All three accept the password "demo123" when
// verification is enabled.
func DemoDirectory() *Directory {
	validated := true
	d := NewDirectory()
	d.Add(User{
		Nom:       "Diallo",
		Prenom:    "Amadou",
		Email:     "patient@test.com",
		Telephone: "+225 07 12 34 56 78",
		Role:      RolePatient,
		Adresse:   "Cocody, Abidjan",
		Ville:     "Abidjan",
	}, "demo123")
	d.Add(User{
		Nom:        "Kouassi",
		Prenom:     "Dr. Marie",
		Email:      "medecin@test.com",
		Telephone:  "+225 01 23 45 67 89",
		Role:       RoleMedecin,
		Specialite: "Cardiologie",
		Validated:  &validated,
		Ville:      "Abidjan",
	}, "demo123")
	d.Add(User{
		Nom:       "Admin",
		Prenom:    "Système",
		Email:     "admin@test.com",
		Telephone: "+225 05 67 89 01 23",
		Role:      RoleAdmin,
		Ville:     "Abidjan",
	}, "demo123")
	return d
}

// Add assigns the next sequential id and registers the user. Email
// uniqueness is intentionally not enforced, matching the backend mock.
func (d *Directory) Add(u User, password string) (User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	u.ID = d.nextID
	d.nextID++
	d.entries = append(d.entries, directoryEntry{user: u, passwordHash: hash})
	return u, nil
}

// FindByEmail returns the first user registered under email.
func (d *Directory) FindByEmail(email string) (User, []byte, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, e := range d.entries {
		if strings.EqualFold(e.user.Email, email) {
			return e.user, e.passwordHash, true
		}
	}
	return User{}, nil, false
}

// Len returns the number of registered users.
func (d *Directory) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.entries)
}
