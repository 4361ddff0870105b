package app

import (
	"container/list"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/louisbranch/facelogin/internal/services/web/capture"
	"github.com/louisbranch/facelogin/internal/services/web/session"
	"github.com/louisbranch/facelogin/internal/services/web/storage"
)

// client is the in-memory state of one browser.
type client struct {
	id       string
	session  *session.Store
	verifier capture.Verifier

	mu   sync.Mutex
	flow *capture.Flow
}

// activeFlow returns the flow currently bound to the client.
func (c *client) activeFlow() *capture.Flow {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.flow
}

// resetFlow abandons the active flow and installs a fresh one in mode.
func (c *client) resetFlow(mode capture.Mode) error {
	flow, err := capture.New(mode, c.verifier, c.session)
	if err != nil {
		return err
	}
	c.mu.Lock()
	previous := c.flow
	c.flow = flow
	c.mu.Unlock()
	if previous != nil {
		previous.Abandon()
	}
	return nil
}

const (
	// maxClients bounds the clients held in memory.
	maxClients = 1024
	// clientIdleTTL is how long an untouched client stays in memory.
	clientIdleTTL = 30 * time.Minute
)

// registry maps client ids to their state, creating it on first use. It keeps
// at most capacity clients and forgets those idle for longer than idleTTL;
// a forgotten client restores its session from durable storage on return.
type registry struct {
	store    storage.Store
	verifier capture.Verifier
	capacity int
	idleTTL  time.Duration
	now      func() time.Time

	mu      sync.Mutex
	clients map[string]*list.Element
	// recent orders clients by last use, most recent first.
	recent *list.List
}

type registryEntry struct {
	client   *client
	lastSeen time.Time
}

func newRegistry(store storage.Store, verifier capture.Verifier) (*registry, error) {
	if store == nil {
		return nil, errors.New("client storage is required")
	}
	if verifier == nil {
		return nil, errors.New("capture verifier is required")
	}
	return &registry{
		store:    store,
		verifier: verifier,
		capacity: maxClients,
		idleTTL:  clientIdleTTL,
		now:      time.Now,
		clients:  make(map[string]*list.Element),
		recent:   list.New(),
	}, nil
}

// lookup returns the client for id. A new client starts on the login screen;
// when restore is set it first loads its session from durable storage.
func (r *registry) lookup(ctx context.Context, id string, restore bool) (*client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	if elem, ok := r.clients[id]; ok {
		entry := elem.Value.(*registryEntry)
		entry.lastSeen = now
		r.recent.MoveToFront(elem)
		return entry.client, nil
	}

	values, err := storage.Scoped(r.store, id)
	if err != nil {
		return nil, fmt.Errorf("scope client storage: %w", err)
	}
	sessions, err := session.NewStore(values)
	if err != nil {
		return nil, err
	}
	if restore {
		sessions.Load(ctx)
	}

	created := &client{id: id, session: sessions, verifier: r.verifier}
	if err := created.resetFlow(capture.ModeLogin); err != nil {
		return nil, fmt.Errorf("start capture flow: %w", err)
	}
	r.clients[id] = r.recent.PushFront(&registryEntry{client: created, lastSeen: now})
	r.evictLocked(now)
	return created, nil
}

// size reports how many clients are held in memory.
func (r *registry) size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recent.Len()
}

// evictLocked drops clients past capacity and clients idle past idleTTL,
// oldest first, abandoning their flows.
func (r *registry) evictLocked(now time.Time) {
	for elem := r.recent.Back(); elem != nil; elem = r.recent.Back() {
		entry := elem.Value.(*registryEntry)
		overCapacity := r.capacity > 0 && r.recent.Len() > r.capacity
		idle := r.idleTTL > 0 && now.Sub(entry.lastSeen) > r.idleTTL
		if !overCapacity && !idle {
			return
		}
		r.recent.Remove(elem)
		delete(r.clients, entry.client.id)
		if flow := entry.client.activeFlow(); flow != nil {
			flow.Abandon()
		}
	}
}
