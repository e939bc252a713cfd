package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-memory session store. Safe for concurrent use; data
// is lost on restart.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemoryStore creates a new in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*Session)}
}

func (s *MemoryStore) Get(ctx context.Context, sessionID string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	if sess.IsExpired() {
		s.mu.Lock()
		delete(s.sessions, sessionID)
		s.mu.Unlock()
		return nil, ErrExpired
	}
	cp := *sess
	return &cp, nil
}

func (s *MemoryStore) Set(ctx context.Context, sess *Session) error {
	cp := *sess
	s.mu.Lock()
	s.sessions[sess.ID] = &cp
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Cleanup(ctx context.Context) error {
	now := time.Now()
	s.mu.Lock()
	for id, sess := range s.sessions {
		if now.After(sess.ExpiresAt) {
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()
	return nil
}
