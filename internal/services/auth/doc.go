// Package auth is the face authentication service the web UI talks to.
//
// It owns the user registry and answers the register, login and status
// calls over a small JSON HTTP API.
//
// Subpackages:
//   - app: auth server wiring and lifecycle
//   - api: JSON HTTP handlers
//   - storage: persistence interfaces and SQLite implementations
//   - user: user domain model and helpers
package auth
