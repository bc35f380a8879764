package retention

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/billsplit/internal/storage"
)

// fakeStore records prune calls. Other Store methods are not implemented.
type fakeStore struct {
	storage.Store

	mu      sync.Mutex
	befores []time.Time
	pruned  int
	err     error
}

func (f *fakeStore) PruneSessions(ctx context.Context, before time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.befores = append(f.befores, before)
	return f.pruned, f.err
}

func TestPruneOnce(t *testing.T) {
	store := &fakeStore{pruned: 3}
	p, err := NewPruner(store, 24*time.Hour, "@every 1h")
	require.NoError(t, err)

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return now }

	n, err := p.PruneOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	require.Len(t, store.befores, 1)
	assert.Equal(t, now.Add(-24*time.Hour), store.befores[0])
}

func TestPruneOnce_StoreError(t *testing.T) {
	store := &fakeStore{err: errors.New("disk full")}
	p, err := NewPruner(store, time.Hour, "@every 1h")
	require.NoError(t, err)

	_, err = p.PruneOnce(context.Background())
	assert.ErrorContains(t, err, "disk full")
}

func TestNewPruner_Invalid(t *testing.T) {
	_, err := NewPruner(&fakeStore{}, time.Hour, "not a schedule")
	assert.Error(t, err)

	_, err = NewPruner(&fakeStore{}, 0, "@every 1h")
	assert.Error(t, err)
}

func TestRun_StopsOnCancel(t *testing.T) {
	p, err := NewPruner(&fakeStore{}, time.Hour, "@every 1h")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
