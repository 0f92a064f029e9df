package storage

import (
	"context"
	"time"
)

// Storage holds short-lived per-client submission locks
// Registrations themselves are never stored; they go straight to the remote API.
type Storage interface {
	// AcquireSubmission takes the in-flight lock for a client under token.
	// Returns false if the client already holds an unexpired lock.
	AcquireSubmission(ctx context.Context, clientID, token string, ttl time.Duration) (bool, error)

	// ReleaseSubmission drops the client's lock if it is still held under token.
	// Releasing a free, expired or re-acquired lock is a no-op.
	ReleaseSubmission(ctx context.Context, clientID, token string) error

	// Ping reports whether the backend is reachable
	Ping(ctx context.Context) error
}
