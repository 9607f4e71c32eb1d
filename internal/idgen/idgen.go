package idgen

import "github.com/google/uuid"

// NewFunc returns a new session identifier.
var NewFunc = func() string { return uuid.Must(uuid.NewV7()).String() }

// New returns a new session identifier.
func New() string { return NewFunc() }

// Valid reports whether id is a well-formed session identifier.
func Valid(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
