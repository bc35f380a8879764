// Package storage provides abstractions for persistent session storage.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/mmynk/billsplit/internal/models"
)

// ErrNotFound is returned (wrapped) when a session does not exist.
var ErrNotFound = errors.New("session not found")

// Store defines the interface for session storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, Badger)
// without changing the service layer.
type Store interface {
	// CreateSession persists a new session.
	// ID, Title, CreatedAt and UpdatedAt are populated by the store when empty.
	CreateSession(ctx context.Context, session *models.Session) error

	// GetSession retrieves a session by its ID.
	// Returns an error wrapping ErrNotFound if the session does not exist.
	GetSession(ctx context.Context, sessionID string) (*models.Session, error)

	// UpdateSession replaces the title and data of an existing session and
	// bumps UpdatedAt. Returns an error wrapping ErrNotFound if it does not exist.
	UpdateSession(ctx context.Context, session *models.Session) error

	// DeleteSession removes a session.
	// Returns an error wrapping ErrNotFound if it does not exist.
	DeleteSession(ctx context.Context, sessionID string) error

	// PruneSessions deletes every session last updated before the given time
	// and reports how many were removed.
	PruneSessions(ctx context.Context, before time.Time) (int, error)

	// Close releases any resources held by the store.
	Close() error
}
