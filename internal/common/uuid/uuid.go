// Package uuid generates the random identifiers used for anonymous Theia Cloud users
// and for request ids. It wraps github.com/google/uuid.
package uuid

import (
	"github.com/google/uuid"
)

// UUID represents a UUID, aliased from github.com/google/uuid.UUID
type UUID = uuid.UUID

// NewString returns the canonical string form of a new random (version 4) UUID.
// Panics if the random source fails.
func NewString() string {
	return uuid.NewString()
}

// Parse parses a UUID string into a UUID value. Returns an error if the string is not a valid UUID.
func Parse(s string) (UUID, error) {
	return uuid.Parse(s)
}
