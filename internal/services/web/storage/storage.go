// Package storage declares the durable per-client key/value persistence that
// backs web session survival across reloads and restarts.
package storage

import (
	"context"
	"errors"
	"strings"
)

// ErrScopeRequired reports a Scoped view built without a client id.
var ErrScopeRequired = errors.New("storage scope is required")

// Store persists string values keyed by client scope and key.
type Store interface {
	Get(ctx context.Context, scope, key string) (string, bool, error)
	Put(ctx context.Context, scope, key, value string) error
	Delete(ctx context.Context, scope, key string) error
}

// Values is a Store view bound to one client scope.
type Values struct {
	store Store
	scope string
}

// Scoped binds store to the given client scope.
func Scoped(store Store, scope string) (Values, error) {
	scope = strings.TrimSpace(scope)
	if store == nil {
		return Values{}, errors.New("storage store is required")
	}
	if scope == "" {
		return Values{}, ErrScopeRequired
	}
	return Values{store: store, scope: scope}, nil
}

// Get reads key within the bound scope.
func (v Values) Get(ctx context.Context, key string) (string, bool, error) {
	return v.store.Get(ctx, v.scope, key)
}

// Put writes key within the bound scope, replacing any previous value.
func (v Values) Put(ctx context.Context, key, value string) error {
	return v.store.Put(ctx, v.scope, key, value)
}

// Delete removes key within the bound scope. Missing keys are not an error.
func (v Values) Delete(ctx context.Context, key string) error {
	return v.store.Delete(ctx, v.scope, key)
}
