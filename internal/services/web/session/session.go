// Package session holds the authenticated identity of one browser client and
// mirrors it to durable storage so it survives reloads.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
)

// StorageKey is the durable key holding the serialized Identity.
const StorageKey = "facialAuthUser"

// Identity is the user returned by the authentication service.
type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Valid reports whether both identity fields are set.
func (i Identity) Valid() bool {
	return strings.TrimSpace(i.ID) != "" && strings.TrimSpace(i.Username) != ""
}

// Storage is the durable key/value space of one client.
type Storage interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Put(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Store is the per-client session. The zero value is not usable; build one
// with NewStore.
type Store struct {
	storage Storage

	mu       sync.RWMutex
	identity Identity
	present  bool
}

// NewStore builds an empty Store over storage. Call Load to restore a
// previously persisted identity.
func NewStore(storage Storage) (*Store, error) {
	if storage == nil {
		return nil, errors.New("session storage is required")
	}
	return &Store{storage: storage}, nil
}

// Load restores the persisted identity. A value that does not decode into a
// valid Identity is deleted and the session stays absent. Read failures are
// logged and leave the session absent.
func (s *Store) Load(ctx context.Context) {
	raw, ok, err := s.storage.Get(ctx, StorageKey)
	if err != nil {
		log.Printf("session: load: %v", err)
		s.reset()
		return
	}
	if !ok {
		s.reset()
		return
	}

	var identity Identity
	if err := json.Unmarshal([]byte(raw), &identity); err != nil || !identity.Valid() {
		log.Printf("session: discarding unreadable stored identity")
		if err := s.storage.Delete(ctx, StorageKey); err != nil {
			log.Printf("session: delete unreadable identity: %v", err)
		}
		s.reset()
		return
	}

	s.mu.Lock()
	s.identity = identity
	s.present = true
	s.mu.Unlock()
}

// Set installs identity and persists it, overwriting any previous one. The
// in-memory identity is installed even when persistence fails.
func (s *Store) Set(ctx context.Context, identity Identity) error {
	if !identity.Valid() {
		return errors.New("identity requires id and username")
	}
	s.mu.Lock()
	s.identity = identity
	s.present = true
	s.mu.Unlock()

	encoded, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("encode identity: %w", err)
	}
	if err := s.storage.Put(ctx, StorageKey, string(encoded)); err != nil {
		return fmt.Errorf("persist identity: %w", err)
	}
	return nil
}

// Clear forgets the identity in memory and in storage. Clearing an absent
// session is a no-op.
func (s *Store) Clear(ctx context.Context) error {
	s.reset()
	if err := s.storage.Delete(ctx, StorageKey); err != nil {
		return fmt.Errorf("delete identity: %w", err)
	}
	return nil
}

// Current returns the identity and whether one is present.
func (s *Store) Current() (Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity, s.present
}

func (s *Store) reset() {
	s.mu.Lock()
	s.identity = Identity{}
	s.present = false
	s.mu.Unlock()
}
