package storage

import (
	"context"

	"github.com/louisbranch/facelogin/internal/platform/errors"
	"github.com/louisbranch/facelogin/internal/services/auth/user"
)

var (
	// ErrNotFound indicates a requested record is missing.
	ErrNotFound = errors.New(errors.CodeNotFound, "record not found")
	// ErrUsernameTaken indicates a registration for an existing username.
	ErrUsernameTaken = errors.New(errors.CodeUsernameTaken, "username already exists")
)

// UserStore persists registered users.
type UserStore interface {
	// PutUser inserts u, failing with ErrUsernameTaken when the username is
	// registered.
	PutUser(ctx context.Context, u user.User) error
	GetUserByUsername(ctx context.Context, username string) (user.User, error)
	// GetUserByFaceDigest returns the earliest registered user with digest.
	GetUserByFaceDigest(ctx context.Context, digest string) (user.User, error)
}
