package core

// scheduler.go runs the retention job that prunes old validation runs from
// the history store. The job is long-running and context-aware for graceful
// shutdown; individual prune failures are logged but never fatal.

import (
	"context"
	"log/slog"
	"time"
)

// RetentionConfig holds settings for the retention scheduler.
type RetentionConfig struct {
	RetentionDays int           // Days to keep run history (default: 90)
	PruneInterval time.Duration // How often to prune (default: 24h)
}

// StartRetentionScheduler starts a background loop that prunes runs older
// than the retention window. It runs immediately on start, then every
// PruneInterval, and stops when the context is cancelled.
func (s *Service) StartRetentionScheduler(ctx context.Context, cfg RetentionConfig) {
	if cfg.RetentionDays <= 0 {
		cfg.RetentionDays = 90
	}
	if cfg.PruneInterval <= 0 {
		cfg.PruneInterval = 24 * time.Hour
	}

	slog.Info("retention scheduler started",
		"retention_days", cfg.RetentionDays,
		"prune_interval", cfg.PruneInterval,
	)

	s.pruneOldRuns(ctx, cfg.RetentionDays)

	ticker := time.NewTicker(cfg.PruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("retention scheduler stopped")
			return
		case <-ticker.C:
			s.pruneOldRuns(ctx, cfg.RetentionDays)
		}
	}
}

// pruneOldRuns performs one prune cycle.
func (s *Service) pruneOldRuns(ctx context.Context, retentionDays int) {
	start := time.Now()
	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	pruned, err := s.store.PruneRuns(ctx, cutoff)
	if err != nil {
		slog.Error("prune failed", "error", err)
		return
	}
	if pruned > 0 {
		slog.Info("pruned old validation runs",
			"runs_pruned", pruned,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}
