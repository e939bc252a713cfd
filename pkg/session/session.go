// Package session provides enumeration session management for the HTTP API.
//
// A session pins one partition enumeration to an ID so that stateless HTTP
// clients can step through partitions one request at a time. Only the
// cursor snapshot is externalized; the cursor itself is rebuilt per request
// from the snapshot, which keeps stores backend-agnostic.
//
// Implementations for different backends:
//   - memory: In-memory storage for development/testing and single instances
//   - file: File-based storage that survives restarts
//   - redis: Redis-backed storage for multi-instance deployments
//
// # Usage
//
// Create a session store:
//
//	// Development
//	store := session.NewMemoryStore()
//
//	// Production
//	store, err := session.NewRedisStore(ctx, session.RedisConfig{
//	    Addr: "localhost:6379",
//	})
//
// Manage sessions:
//
//	sess := session.New(cursor, session.DefaultTTL)
//	store.Set(ctx, sess)
//
//	sess, err := store.Get(ctx, sessionID)
//	if err != nil {
//	    return err
//	}
//	if sess == nil {
//	    // Session not found
//	}
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Torito9609/stirling-partitions-simulation/pkg/partition"
)

// Sentinel errors for session operations.
var (
	// ErrNotFound is returned when a session does not exist.
	ErrNotFound = errors.New("not found")

	// ErrExpired is returned when a session has exceeded its TTL.
	ErrExpired = errors.New("expired")
)

// Session stores one enumeration's request and cursor snapshot.
type Session struct {
	ID        string            `json:"id"`
	Request   partition.Request `json:"request"`
	State     partition.State   `json:"state"`
	CreatedAt time.Time         `json:"created_at"`
	ExpiresAt time.Time         `json:"expires_at"`
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Cursor rebuilds the enumeration cursor from the stored snapshot.
func (s *Session) Cursor() (*partition.Cursor, error) {
	return partition.Restore(s.Request, s.State)
}

// Update records the cursor's current position in the session.
func (s *Session) Update(c *partition.Cursor) {
	s.State = c.State()
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns nil, nil if the session doesn't exist.
	// Returns nil, ErrExpired if the session exists but has expired.
	Get(ctx context.Context, sessionID string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, session *Session) error

	// Delete removes a session.
	Delete(ctx context.Context, sessionID string) error

	// Cleanup removes expired sessions (optional, may be no-op for Redis).
	Cleanup(ctx context.Context) error
}

// DefaultTTL is the default session duration. Enumeration sessions are
// interactive; an hour of inactivity means the client is gone.
const DefaultTTL = time.Hour

// New creates a session for the cursor's enumeration with a fresh ID.
func New(c *partition.Cursor, ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		Request:   c.Request(),
		State:     c.State(),
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}
