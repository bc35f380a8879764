package badger

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/billsplit/internal/models"
	"github.com/mmynk/billsplit/internal/storage"
)

func newTestStore(t *testing.T) *BadgerStore {
	t.Helper()
	store, err := New(Config{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestNew_RequiresPath(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestBadgerStore_CreateAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	raw := `{"dishes": [ {"id":"d1","price":12.5} ]}`
	session := &models.Session{Data: json.RawMessage(raw)}
	require.NoError(t, store.CreateSession(ctx, session))

	assert.NotEmpty(t, session.ID)
	assert.NotEmpty(t, session.Title)
	assert.NotZero(t, session.CreatedAt)

	got, err := store.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, got.ID)
	assert.Equal(t, session.Title, got.Title)
	assert.Equal(t, raw, string(got.Data))
	assert.Equal(t, session.CreatedAt, got.CreatedAt)
}

func TestBadgerStore_GetMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetSession(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestBadgerStore_Update(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	session := &models.Session{Title: "Lunch", Data: json.RawMessage(`{"v":1}`)}
	require.NoError(t, store.CreateSession(ctx, session))
	createdAt := session.CreatedAt

	require.NoError(t, store.UpdateSession(ctx, &models.Session{
		ID:    session.ID,
		Title: "Late lunch",
		Data:  json.RawMessage(`{"v":2}`),
	}))

	got, err := store.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, "Late lunch", got.Title)
	assert.Equal(t, `{"v":2}`, string(got.Data))
	assert.Equal(t, createdAt, got.CreatedAt)

	err = store.UpdateSession(ctx, &models.Session{ID: "missing", Data: json.RawMessage(`{}`)})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestBadgerStore_Delete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	session := &models.Session{Data: json.RawMessage(`{}`)}
	require.NoError(t, store.CreateSession(ctx, session))
	require.NoError(t, store.DeleteSession(ctx, session.ID))

	_, err := store.GetSession(ctx, session.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, store.DeleteSession(ctx, session.ID), storage.ErrNotFound)
}

func TestBadgerStore_Prune(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	stale := &models.Session{Data: json.RawMessage(`{}`), CreatedAt: now.Add(-72 * time.Hour).Unix()}
	fresh := &models.Session{Data: json.RawMessage(`{}`)}
	require.NoError(t, store.CreateSession(ctx, stale))
	require.NoError(t, store.CreateSession(ctx, fresh))

	n, err := store.PruneSessions(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = store.GetSession(ctx, stale.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = store.GetSession(ctx, fresh.ID)
	assert.NoError(t, err)

	n, err = store.PruneSessions(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Zero(t, n)
}
