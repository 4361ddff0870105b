// Package sqlite provides SQLite-backed auth persistence.
package sqlite
