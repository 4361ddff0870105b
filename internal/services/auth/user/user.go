package user

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/louisbranch/facelogin/internal/platform/errors"
	"golang.org/x/crypto/blake2b"
)

var (
	// ErrRegisterFieldsRequired indicates a registration without username or
	// face data.
	ErrRegisterFieldsRequired = apperrors.New(apperrors.CodeRegisterFieldsRequired, "username and face data are required")
	// ErrFaceDataRequired indicates a login without face data.
	ErrFaceDataRequired = apperrors.New(apperrors.CodeFaceDataRequired, "face data is required")
)

// User represents a registered identity record.
type User struct {
	ID         string
	Username   string
	FaceDigest string
	CreatedAt  time.Time
}

// CreateUserInput describes the data needed to register a user.
type CreateUserInput struct {
	Username string
	FaceData string
}

// NormalizeUsername trims surrounding whitespace. Usernames are otherwise
// case sensitive.
func NormalizeUsername(s string) string {
	return strings.TrimSpace(s)
}

// FaceDigest returns the hex BLAKE2b-256 digest of an encoded snapshot.
func FaceDigest(faceData string) string {
	sum := blake2b.Sum256([]byte(strings.TrimSpace(faceData)))
	return hex.EncodeToString(sum[:])
}

// NewID returns a random user id.
func NewID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// CreateUser creates a user record from registration input.
func CreateUser(input CreateUserInput, now func() time.Time, idGenerator func() (string, error)) (User, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = NewID
	}

	username := NormalizeUsername(input.Username)
	if username == "" || strings.TrimSpace(input.FaceData) == "" {
		return User{}, ErrRegisterFieldsRequired
	}

	userID, err := idGenerator()
	if err != nil {
		return User{}, fmt.Errorf("generate user id: %w", err)
	}

	return User{
		ID:         userID,
		Username:   username,
		FaceDigest: FaceDigest(input.FaceData),
		CreatedAt:  now().UTC(),
	}, nil
}
