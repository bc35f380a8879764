// Package postgres provides a PostgreSQL-backed implementation of the storage.Store interface.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/mmynk/billsplit/internal/models"
	"github.com/mmynk/billsplit/internal/storage"
)

var _ storage.Store = (*PostgresStore)(nil)

// Data is kept as TEXT rather than JSONB so documents come back byte for byte.
const schema = `
CREATE TABLE IF NOT EXISTS sessions (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    data TEXT NOT NULL,
    created_at BIGINT NOT NULL,
    updated_at BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sessions_updated_at ON sessions(updated_at);
`

// PostgresStore implements storage.Store using PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// New connects to PostgreSQL using the given DSN and ensures the schema exists.
func New(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// Close closes the database connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// CreateSession persists a new session.
func (s *PostgresStore) CreateSession(ctx context.Context, session *models.Session) error {
	storage.PrepareNew(session, time.Now())

	query := `
		INSERT INTO sessions (id, title, data, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := s.db.ExecContext(ctx, query,
		session.ID, session.Title, string(session.Data), session.CreatedAt, session.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

// GetSession retrieves a session by ID.
func (s *PostgresStore) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	session := &models.Session{}
	var data string
	query := `
		SELECT id, title, data, created_at, updated_at
		FROM sessions
		WHERE id = $1`
	err := s.db.QueryRowContext(ctx, query, sessionID).
		Scan(&session.ID, &session.Title, &data, &session.CreatedAt, &session.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, sessionID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	session.Data = []byte(data)
	return session, nil
}

// UpdateSession replaces the title and data of an existing session.
func (s *PostgresStore) UpdateSession(ctx context.Context, session *models.Session) error {
	session.UpdatedAt = time.Now().Unix()

	query := `
		UPDATE sessions
		SET title = $1, data = $2, updated_at = $3
		WHERE id = $4`
	result, err := s.db.ExecContext(ctx, query,
		session.Title, string(session.Data), session.UpdatedAt, session.ID)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	return checkAffected(result, session.ID)
}

// DeleteSession removes a session by ID.
func (s *PostgresStore) DeleteSession(ctx context.Context, sessionID string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return checkAffected(result, sessionID)
}

// PruneSessions deletes sessions last updated before the given time.
func (s *PostgresStore) PruneSessions(ctx context.Context, before time.Time) (int, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE updated_at < $1`, before.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to prune sessions: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned sessions: %w", err)
	}
	return int(n), nil
}

func checkAffected(result sql.Result, sessionID string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", storage.ErrNotFound, sessionID)
	}
	return nil
}
