package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryStore is the default volatile store. All records are lost on
// process restart.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Record
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{sessions: make(map[string]*Record)}
}

func (s *InMemoryStore) Put(_ context.Context, rec Record) (Record, error) {
	now := time.Now().UTC()
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.LastActivityAt = now
	if rec.Data == nil {
		rec.Data = map[string]any{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.sessions[rec.ID]; ok {
		rec.CreatedAt = existing.CreatedAt
	}
	s.sessions[rec.ID] = clone(&rec)
	return rec, nil
}

func (s *InMemoryStore) Get(_ context.Context, sessionID string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.sessions[sessionID]
	if !ok {
		return Record{}, ErrNotFound
	}
	return *clone(rec), nil
}

func (s *InMemoryStore) Touch(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.sessions[sessionID]
	if !ok {
		return ErrNotFound
	}
	rec.LastActivityAt = time.Now().UTC()
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sessionID]; !ok {
		return ErrNotFound
	}
	delete(s.sessions, sessionID)
	return nil
}

func (s *InMemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions), nil
}

func (s *InMemoryStore) Close() error { return nil }

func clone(rec *Record) *Record {
	c := *rec
	if rec.Data != nil {
		c.Data = make(map[string]any, len(rec.Data))
		for k, v := range rec.Data {
			c.Data[k] = v
		}
	}
	return &c
}
