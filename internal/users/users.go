// Package users registers users and checks their credentials.
//
// Passwords are kept as bcrypt hashes only.
package users

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/lomoval/event-organizer/internal/storage"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidUser        = errors.New("username and password are required")
)

type User struct {
	ID       storage.UserID
	Username string
	hash     []byte
}

type credentials struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

type Manager struct {
	mu       sync.RWMutex
	byName   map[string]*User
	byID     map[storage.UserID]*User
	idSeq    storage.UserID
	cost     int
	validate *validator.Validate
}

type Option func(m *Manager)

// WithCost sets the bcrypt cost, bcrypt.DefaultCost if not set.
func WithCost(cost int) Option {
	return func(m *Manager) {
		m.cost = cost
	}
}

func New(opts ...Option) *Manager {
	m := &Manager{
		byName:   make(map[string]*User),
		byID:     make(map[storage.UserID]*User),
		cost:     bcrypt.DefaultCost,
		validate: validator.New(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) Register(username, password string) (storage.UserID, error) {
	username = strings.TrimSpace(username)
	if err := m.validate.Struct(credentials{Username: username, Password: password}); err != nil {
		return storage.Anonymous, fmt.Errorf("failed to register %q: %w", username, ErrInvalidUser)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), m.cost)
	if err != nil {
		return storage.Anonymous, fmt.Errorf("failed to hash password: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byName[username]; ok {
		return storage.Anonymous, fmt.Errorf("failed to register %q: %w", username, ErrDuplicateUsername)
	}
	m.idSeq++
	u := &User{ID: m.idSeq, Username: username, hash: hash}
	m.byName[username] = u
	m.byID[u.ID] = u
	return u.ID, nil
}

func (m *Manager) Authenticate(username, password string) (storage.UserID, error) {
	m.mu.RLock()
	u, ok := m.byName[strings.TrimSpace(username)]
	m.mu.RUnlock()
	if !ok {
		return storage.Anonymous, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(u.hash, []byte(password)); err != nil {
		return storage.Anonymous, ErrInvalidCredentials
	}
	return u.ID, nil
}

func (m *Manager) Exists(username string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.byName[strings.TrimSpace(username)]
	return ok
}

// Lookup returns the ID of username.
func (m *Manager) Lookup(username string) (storage.UserID, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.byName[strings.TrimSpace(username)]
	if !ok {
		return storage.Anonymous, false
	}
	return u.ID, true
}

// Username returns the name of user id or an empty string.
func (m *Manager) Username(id storage.UserID) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if u, ok := m.byID[id]; ok {
		return u.Username
	}
	return ""
}
