// Package api serves the auth JSON HTTP API.
package api

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/louisbranch/facelogin/internal/platform/errors"
	"github.com/louisbranch/facelogin/internal/services/auth/storage"
	"github.com/louisbranch/facelogin/internal/services/auth/user"
)

var (
	errUserNotFound      = apperrors.New(apperrors.CodeUserNotFound, "user not found")
	errFaceNotRecognized = apperrors.New(apperrors.CodeFaceNotRecognized, "face not recognized")
)

// Service implements registration and login over a user store.
type Service struct {
	users       storage.UserStore
	now         func() time.Time
	idGenerator func() (string, error)
}

// NewService builds a Service over users.
func NewService(users storage.UserStore) (*Service, error) {
	if users == nil {
		return nil, errors.New("user store is required")
	}
	return &Service{users: users, now: time.Now, idGenerator: user.NewID}, nil
}

// Register creates a user for username with the given snapshot.
func (s *Service) Register(ctx context.Context, username, faceData string) (user.User, error) {
	created, err := user.CreateUser(user.CreateUserInput{Username: username, FaceData: faceData}, s.now, s.idGenerator)
	if err != nil {
		return user.User{}, err
	}
	if err := s.users.PutUser(ctx, created); err != nil {
		if errors.Is(err, storage.ErrUsernameTaken) {
			return user.User{}, apperrors.WithMetadata(apperrors.CodeUsernameTaken, err.Error(), map[string]string{"Username": created.Username})
		}
		return user.User{}, fmt.Errorf("register user: %w", err)
	}
	return created, nil
}

// Login resolves the user behind a snapshot. With a username, any snapshot
// of a registered user is accepted. Without one, the snapshot must match a
// registered snapshot exactly.
func (s *Service) Login(ctx context.Context, username, faceData string) (user.User, error) {
	if strings.TrimSpace(faceData) == "" {
		return user.User{}, user.ErrFaceDataRequired
	}
	if username = user.NormalizeUsername(username); username != "" {
		found, err := s.users.GetUserByUsername(ctx, username)
		if errors.Is(err, storage.ErrNotFound) {
			return user.User{}, errUserNotFound
		}
		if err != nil {
			return user.User{}, fmt.Errorf("login by username: %w", err)
		}
		return found, nil
	}

	found, err := s.users.GetUserByFaceDigest(ctx, user.FaceDigest(faceData))
	if errors.Is(err, storage.ErrNotFound) {
		return user.User{}, errFaceNotRecognized
	}
	if err != nil {
		return user.User{}, fmt.Errorf("login by face: %w", err)
	}
	return found, nil
}
