package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/verdica/case-governance/pkg/baseline"
)

// RetentionWorker periodically removes audit events older than the configured
// retention window.
type RetentionWorker struct {
	store    *baseline.AuditStore
	days     int
	interval time.Duration
	logger   *slog.Logger
}

// NewRetentionWorker creates a retention worker. A non-positive days value
// disables cleanup entirely.
func NewRetentionWorker(store *baseline.AuditStore, days int, logger *slog.Logger) *RetentionWorker {
	if logger == nil {
		logger = slog.Default()
	}
	return &RetentionWorker{
		store:    store,
		days:     days,
		interval: 24 * time.Hour,
		logger:   logger,
	}
}

// Run blocks until ctx is cancelled, running one cleanup immediately and then
// once per interval.
func (w *RetentionWorker) Run(ctx context.Context) {
	if w.store == nil || w.days <= 0 {
		w.logger.Info("audit retention disabled")
		return
	}

	w.cleanup()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("audit retention worker stopping")
			return
		case <-ticker.C:
			w.cleanup()
		}
	}
}

func (w *RetentionWorker) cleanup() {
	cutoff := time.Now().AddDate(0, 0, -w.days)
	deleted, err := w.store.DeleteOlderThan(cutoff)
	if err != nil {
		w.logger.Error("audit retention cleanup failed", "error", err)
		return
	}
	if deleted > 0 {
		w.logger.Info("audit retention cleanup complete",
			"deleted", deleted,
			"cutoff", cutoff.Format(time.RFC3339))
	}
}
