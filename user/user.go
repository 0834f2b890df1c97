// Package user defines the identity record and the store contract authd
// reads and writes through. Persistence itself lives behind the Store
// interface; the core never touches a database directly.
package user

import (
	"context"
	"errors"
	"strings"
	"time"

	apperrors "github.com/kbukum/authd/errors"
)

// User is a stored identity record. The password hash is opaque to everything
// except the password.Hasher that produced it.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// ErrNotFound is returned by FindByUsername when no record matches.
var ErrNotFound = errors.New("user: not found")

// DuplicateError reports a uniqueness conflict on create. The store is the
// authority on uniqueness; concurrent registrations are serialized by it.
type DuplicateError struct {
	Fields []apperrors.FieldError
}

func (e *DuplicateError) Error() string {
	codes := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		codes = append(codes, f.Code)
	}
	return "user: duplicate: " + strings.Join(codes, ", ")
}

// Duplicate field error codes.
const (
	CodeDuplicateUserName = "DuplicateUserName"
	CodeDuplicateEmail    = "DuplicateEmail"
)

// Store is the persistence contract for identity records.
// Implementations must be safe for concurrent use. Lookups are
// case-insensitive on username.
type Store interface {
	// Create durably stores a new user. Returns *DuplicateError if the
	// username or email is already taken.
	Create(ctx context.Context, u *User) error

	// FindByUsername returns the record for the given username,
	// or ErrNotFound.
	FindByUsername(ctx context.Context, username string) (*User, error)
}

// NormalizeUsername folds a username for case-insensitive comparison.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
