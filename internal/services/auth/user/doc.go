// Package user defines the auth user model and the face digest used to match
// login snapshots against registered users.
package user
