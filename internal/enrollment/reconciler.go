package enrollment

import (
	"context"
	"time"

	"gymbook/internal/logger"
	"gymbook/internal/metrics"
)

// ReconcileCounters rewrites the stored attendee count of every class that
// disagrees with its enrollment rows and returns how many were fixed.
func ReconcileCounters(ctx context.Context, repo Repository) (int64, error) {
	ids, err := repo.FindDriftedClasses(ctx)
	if err != nil {
		return 0, err
	}

	var repaired int64
	for _, id := range ids {
		ok, err := repo.RepairCounter(ctx, id)
		if err != nil {
			metrics.RecordCounterRepairs(repaired)
			return repaired, err
		}
		if ok {
			logger.Warn("class attendee count repaired", "class_id", id)
			repaired++
		}
	}

	metrics.RecordCounterRepairs(repaired)
	return repaired, nil
}

// StartCounterReconciler runs ReconcileCounters every interval until ctx is
// done. A non-positive interval disables it.
func StartCounterReconciler(ctx context.Context, repo Repository, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := ReconcileCounters(ctx, repo)
				if err != nil {
					logger.Error("failed to reconcile class counters", "error", err)
					continue
				}
				if n > 0 {
					logger.Info("reconciled class counters", "repaired", n)
				}
			}
		}
	}()
}
