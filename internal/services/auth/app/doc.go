// Package server composes and runs the auth process boundary.
//
// It hosts the JSON HTTP API and a gRPC health endpoint, both backed by the
// same SQLite user registry.
package server
