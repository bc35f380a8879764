// Package retention deletes sessions that have not been touched for a while.
package retention

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mmynk/billsplit/internal/storage"
)

// pruneTimeout bounds a single scheduled prune.
const pruneTimeout = time.Minute

// Pruner periodically removes sessions last updated before now - retention.
type Pruner struct {
	store     storage.Store
	retention time.Duration
	cron      *cron.Cron
	now       func() time.Time
}

// NewPruner schedules pruning on a cron spec such as "@every 1h" or "0 3 * * *".
func NewPruner(store storage.Store, retention time.Duration, schedule string) (*Pruner, error) {
	if retention <= 0 {
		return nil, errors.New("retention must be positive")
	}

	p := &Pruner{
		store:     store,
		retention: retention,
		cron:      cron.New(),
		now:       time.Now,
	}
	if _, err := p.cron.AddFunc(schedule, p.runScheduled); err != nil {
		return nil, fmt.Errorf("invalid prune schedule %q: %w", schedule, err)
	}
	return p, nil
}

// PruneOnce deletes every expired session and returns how many were removed.
func (p *Pruner) PruneOnce(ctx context.Context) (int, error) {
	cutoff := p.now().Add(-p.retention)
	n, err := p.store.PruneSessions(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune sessions: %w", err)
	}
	if n > 0 {
		slog.Info("Pruned expired sessions", "count", n, "cutoff", cutoff.UTC().Format(time.RFC3339))
	}
	return n, nil
}

func (p *Pruner) runScheduled() {
	ctx, cancel := context.WithTimeout(context.Background(), pruneTimeout)
	defer cancel()
	if _, err := p.PruneOnce(ctx); err != nil {
		slog.Error("Scheduled prune failed", "error", err)
	}
}

// Run starts the schedule and blocks until ctx is cancelled, then waits for
// any running prune to finish.
func (p *Pruner) Run(ctx context.Context) error {
	slog.Info("Session pruner started", "retention", p.retention.String())
	p.cron.Start()
	<-ctx.Done()
	<-p.cron.Stop().Done()
	slog.Info("Session pruner stopped")
	return nil
}
