package scheduler

import (
	"context"
	"log/slog"
	"time"
)

// Pruner deletes records older than a cutoff.
type Pruner interface {
	Prune(ctx context.Context, before time.Time) (int64, error)
}

// PruneJob returns a job that deletes entries older than retention.
func PruneJob(p Pruner, retention time.Duration, log *slog.Logger) JobFunc {
	return pruneJob(p, retention, log, time.Now)
}

func pruneJob(p Pruner, retention time.Duration, log *slog.Logger, now func() time.Time) JobFunc {
	return func(ctx context.Context) error {
		cutoff := now().Add(-retention)
		n, err := p.Prune(ctx, cutoff)
		if err != nil {
			return err
		}
		if n > 0 && log != nil {
			log.InfoContext(ctx, "journal pruned", slog.Int64("removed", n), slog.Time("before", cutoff))
		}
		return nil
	}
}
