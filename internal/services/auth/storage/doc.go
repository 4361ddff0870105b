// Package storage defines persistence contracts for registered users.
package storage
