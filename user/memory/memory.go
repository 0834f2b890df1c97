// Package memory provides an in-memory user store for development and tests.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/kbukum/authd/errors"
	"github.com/kbukum/authd/user"
)

// Store is an in-memory implementation of user.Store.
// The mutex is the serialization point for the uniqueness guarantee.
type Store struct {
	mu      sync.RWMutex
	byName  map[string]*user.User // keyed by normalized username
	byEmail map[string]*user.User // keyed by lowercased email
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		byName:  make(map[string]*user.User),
		byEmail: make(map[string]*user.User),
	}
}

// Create stores a new user, enforcing username and email uniqueness.
func (s *Store) Create(ctx context.Context, u *user.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := user.NormalizeUsername(u.Username)
	emailKey := strings.ToLower(u.Email)

	var fields []apperrors.FieldError
	if _, exists := s.byName[key]; exists {
		fields = append(fields, apperrors.FieldError{
			Code:        user.CodeDuplicateUserName,
			Description: fmt.Sprintf("Username '%s' is already taken.", u.Username),
		})
	}
	if _, exists := s.byEmail[emailKey]; exists {
		fields = append(fields, apperrors.FieldError{
			Code:        user.CodeDuplicateEmail,
			Description: fmt.Sprintf("Email '%s' is already taken.", u.Email),
		})
	}
	if len(fields) > 0 {
		return &user.DuplicateError{Fields: fields}
	}

	stored := *u
	if stored.ID == "" {
		stored.ID = uuid.New().String()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}

	s.byName[key] = &stored
	s.byEmail[emailKey] = &stored

	*u = stored
	return nil
}

// FindByUsername looks up a user by username, case-insensitively.
func (s *Store) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	u, exists := s.byName[user.NormalizeUsername(username)]
	if !exists {
		return nil, user.ErrNotFound
	}

	out := *u
	return &out, nil
}

// Count returns the number of stored users.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byName)
}
