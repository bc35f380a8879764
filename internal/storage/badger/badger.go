// Package badger provides an embedded BadgerDB implementation of the storage.Store interface.
//
// Sessions are stored as JSON records under the "session/" key prefix. This
// backend needs no external database, which makes it a good fit for single-node
// deployments where SQLite's file locking is undesirable.
package badger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/mmynk/billsplit/internal/models"
	"github.com/mmynk/billsplit/internal/storage"
)

var _ storage.Store = (*BadgerStore)(nil)

const keyPrefix = "session/"

// Config holds configuration for the BadgerDB instance.
type Config struct {
	// Path is the directory for BadgerDB files. Ignored when InMemory is true.
	Path string

	// InMemory enables in-memory mode (no disk persistence). Useful for testing.
	InMemory bool

	// Logger receives BadgerDB's internal logs. If nil, they are discarded.
	Logger *slog.Logger
}

// record is the on-disk representation of a session.
type record struct {
	Title     string `json:"title"`
	Data      string `json:"data"` // string keeps the document byte for byte
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}

// BadgerStore implements storage.Store using BadgerDB.
type BadgerStore struct {
	db *badger.DB
}

// badgerLogger adapts slog.Logger to BadgerDB's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// New opens a BadgerDB-backed store.
func New(cfg Config) (*BadgerStore, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for persistent database")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}

	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

// Close closes the database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

func sessionKey(id string) []byte {
	return []byte(keyPrefix + id)
}

// CreateSession persists a new session.
func (s *BadgerStore) CreateSession(ctx context.Context, session *models.Session) error {
	storage.PrepareNew(session, time.Now())

	value, err := json.Marshal(toRecord(session))
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(sessionKey(session.ID), value)
	})
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

// GetSession retrieves a session by ID.
func (s *BadgerStore) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	var rec record
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(sessionKey(sessionID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, sessionID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return fromRecord(sessionID, rec), nil
}

// UpdateSession replaces the title and data of an existing session.
func (s *BadgerStore) UpdateSession(ctx context.Context, session *models.Session) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(sessionKey(session.ID))
		if err != nil {
			return err
		}
		var existing record
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &existing)
		}); err != nil {
			return err
		}

		session.CreatedAt = existing.CreatedAt
		session.UpdatedAt = time.Now().Unix()
		value, err := json.Marshal(toRecord(session))
		if err != nil {
			return err
		}
		return txn.Set(sessionKey(session.ID), value)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("%w: %s", storage.ErrNotFound, session.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	return nil
}

// DeleteSession removes a session by ID.
func (s *BadgerStore) DeleteSession(ctx context.Context, sessionID string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(sessionKey(sessionID)); err != nil {
			return err
		}
		return txn.Delete(sessionKey(sessionID))
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("%w: %s", storage.ErrNotFound, sessionID)
	}
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// PruneSessions deletes sessions last updated before the given time.
func (s *BadgerStore) PruneSessions(ctx context.Context, before time.Time) (int, error) {
	cutoff := before.Unix()

	var stale [][]byte
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(keyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := it.Item()
			var rec record
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return err
			}
			if rec.UpdatedAt < cutoff {
				stale = append(stale, item.KeyCopy(nil))
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to scan sessions: %w", err)
	}

	if len(stale) == 0 {
		return 0, nil
	}

	wb := s.db.NewWriteBatch()
	for _, key := range stale {
		if err := wb.Delete(key); err != nil {
			wb.Cancel()
			return 0, fmt.Errorf("failed to prune sessions: %w", err)
		}
	}
	if err := wb.Flush(); err != nil {
		return 0, fmt.Errorf("failed to prune sessions: %w", err)
	}
	return len(stale), nil
}

func toRecord(session *models.Session) record {
	return record{
		Title:     session.Title,
		Data:      string(session.Data),
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
	}
}

func fromRecord(id string, rec record) *models.Session {
	return &models.Session{
		ID:        id,
		Title:     rec.Title,
		Data:      []byte(rec.Data),
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
}
