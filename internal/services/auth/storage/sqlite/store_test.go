package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/louisbranch/facelogin/internal/services/auth/storage"
	"github.com/louisbranch/facelogin/internal/services/auth/user"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "auth.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	if _, err := Open(" "); err == nil {
		t.Fatal("Open() error = nil, want error")
	}
}

func TestPutAndGetUser(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	u := user.User{ID: "user-1", Username: "ana", FaceDigest: "digest-a", CreatedAt: created}
	if err := store.PutUser(ctx, u); err != nil {
		t.Fatalf("PutUser() error = %v", err)
	}

	got, err := store.GetUserByUsername(ctx, "ana")
	if err != nil {
		t.Fatalf("GetUserByUsername() error = %v", err)
	}
	if got != u {
		t.Fatalf("GetUserByUsername() = %+v, want %+v", got, u)
	}
	if _, err := store.GetUserByUsername(ctx, "Ana"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("GetUserByUsername(Ana) error = %v, want %v", err, storage.ErrNotFound)
	}
}

func TestPutUserRejectsDuplicateUsername(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()
	if err := store.PutUser(ctx, user.User{ID: "user-1", Username: "ana", FaceDigest: "a", CreatedAt: time.Now()}); err != nil {
		t.Fatalf("PutUser() error = %v", err)
	}
	err := store.PutUser(ctx, user.User{ID: "user-2", Username: "ana", FaceDigest: "b", CreatedAt: time.Now()})
	if !errors.Is(err, storage.ErrUsernameTaken) {
		t.Fatalf("PutUser() error = %v, want %v", err, storage.ErrUsernameTaken)
	}
}

func TestGetUserByFaceDigestReturnsEarliest(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, u := range []user.User{
		{ID: "user-2", Username: "bia", FaceDigest: "same", CreatedAt: base.Add(time.Minute)},
		{ID: "user-1", Username: "ana", FaceDigest: "same", CreatedAt: base},
	} {
		if err := store.PutUser(ctx, u); err != nil {
			t.Fatalf("PutUser(%s) error = %v", u.ID, err)
		}
	}

	got, err := store.GetUserByFaceDigest(ctx, "same")
	if err != nil {
		t.Fatalf("GetUserByFaceDigest() error = %v", err)
	}
	if got.Username != "ana" {
		t.Fatalf("Username = %q, want %q", got.Username, "ana")
	}
	if _, err := store.GetUserByFaceDigest(ctx, "other"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("GetUserByFaceDigest(other) error = %v, want %v", err, storage.ErrNotFound)
	}
}

func TestReopenKeepsUsers(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "auth.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := store.PutUser(context.Background(), user.User{ID: "user-1", Username: "ana", FaceDigest: "a", CreatedAt: time.Now()}); err != nil {
		t.Fatalf("PutUser() error = %v", err)
	}
	_ = store.Close()

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("Open() again error = %v", err)
	}
	defer reopened.Close()
	if _, err := reopened.GetUserByUsername(context.Background(), "ana"); err != nil {
		t.Fatalf("GetUserByUsername() after reopen error = %v", err)
	}
}
