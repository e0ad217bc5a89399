package session

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for store operations.
var (
	// ErrExpired is returned when a session exists but has exceeded its TTL.
	ErrExpired = errors.New("session expired")
)

// DefaultTTL is the default session duration. Sessions are live widget state,
// not archives: once a session expires the participant starts over.
const DefaultTTL = 24 * time.Hour

// Store is the interface for session state backends.
type Store interface {
	// Get retrieves a session snapshot by ID.
	// Returns nil, nil if the session doesn't exist.
	// Returns nil, ErrExpired if the session exists but has expired.
	Get(ctx context.Context, id string) (*State, error)

	// Set stores a session snapshot.
	Set(ctx context.Context, st *State) error

	// Delete removes a session.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired sessions (may be a no-op for Redis).
	Cleanup(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}
