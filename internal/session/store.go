package session

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("session not found")

// Record is one ephemeral conversation session. Data carries arbitrary
// key-value state owned by the assistant integration.
type Record struct {
	ID             string         `json:"session_id"`
	Data           map[string]any `json:"data"`
	CreatedAt      time.Time      `json:"created_at"`
	LastActivityAt time.Time      `json:"last_activity_at"`
}

// Store persists and retrieves session records. Implementations must be safe
// for concurrent use by HTTP handlers.
type Store interface {
	Put(ctx context.Context, rec Record) (Record, error)
	Get(ctx context.Context, sessionID string) (Record, error)
	Touch(ctx context.Context, sessionID string) error
	Delete(ctx context.Context, sessionID string) error
	Count(ctx context.Context) (int, error)
	Close() error
}
