package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps session records in PostgreSQL so they survive restarts.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := initSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

func initSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS voice_sessions (
			id TEXT PRIMARY KEY,
			data JSONB NOT NULL DEFAULT '{}'::jsonb,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			last_activity_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_voice_sessions_last_activity ON voice_sessions (last_activity_at);`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema failed on %q: %w", stmt, err)
		}
	}
	return nil
}

func (s *PostgresStore) Put(ctx context.Context, rec Record) (Record, error) {
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

	payload, err := json.Marshal(rec.Data)
	if err != nil {
		return Record{}, fmt.Errorf("encode session data: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO voice_sessions (id, data, created_at, last_activity_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, last_activity_at = EXCLUDED.last_activity_at`,
		rec.ID,
		payload,
		rec.CreatedAt,
		rec.LastActivityAt,
	)
	if err != nil {
		return Record{}, fmt.Errorf("save session: %w", err)
	}
	return rec, nil
}

func (s *PostgresStore) Get(ctx context.Context, sessionID string) (Record, error) {
	var (
		rec     Record
		payload []byte
	)
	err := s.pool.QueryRow(ctx,
		`SELECT id, data, created_at, last_activity_at FROM voice_sessions WHERE id = $1`,
		sessionID,
	).Scan(&rec.ID, &payload, &rec.CreatedAt, &rec.LastActivityAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("query session: %w", err)
	}

	if err := json.Unmarshal(payload, &rec.Data); err != nil {
		return Record{}, fmt.Errorf("decode session data: %w", err)
	}
	return rec, nil
}

func (s *PostgresStore) Touch(ctx context.Context, sessionID string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE voice_sessions SET last_activity_at = now() WHERE id = $1`,
		sessionID,
	)
	if err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, sessionID string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM voice_sessions WHERE id = $1`, sessionID)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM voice_sessions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
