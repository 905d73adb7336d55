package services

import (
	"context"
	"time"

	"github.com/01moynul/storefront-api/internal/apperror"
	"github.com/01moynul/storefront-api/internal/store"
	"go.uber.org/zap"
)

const sweepBatchSize = 100

// Sweeper cancels orders left pending longer than TTL, releasing their stock.
type Sweeper struct {
	Orders   *OrderService
	Store    *store.Store
	TTL      time.Duration
	Interval time.Duration
	Log      *zap.Logger
}

// Run sweeps once per Interval until ctx is cancelled.
func (w *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()

	w.Log.Info("Background worker started: monitoring for stale pending orders",
		zap.Duration("ttl", w.TTL), zap.Duration("interval", w.Interval))

	for {
		select {
		case <-ctx.Done():
			w.Log.Info("Background worker stopped")
			return
		case <-ticker.C:
			if n, err := w.SweepOnce(ctx); err != nil {
				w.Log.Error("pending order sweep failed", zap.Error(err))
			} else if n > 0 {
				w.Log.Info("pending orders expired", zap.Int("cancelled", n))
			}
		}
	}
}

// SweepOnce cancels every pending order older than TTL and returns how many it cancelled.
// Orders that changed state in the meantime are skipped.
func (w *Sweeper) SweepOnce(ctx context.Context) (int, error) {
	cutoff := time.Now().Add(-w.TTL)
	cancelled := 0
	for {
		ids, err := w.Store.StalePendingOrderIDs(ctx, cutoff, sweepBatchSize)
		if err != nil {
			return cancelled, err
		}
		progressed := false
		for _, id := range ids {
			if _, err := w.Orders.CancelOrder(ctx, id); err != nil {
				if apperror.Is(err, apperror.KindConflict) || apperror.Is(err, apperror.KindBusinessLogic) {
					continue
				}
				return cancelled, err
			}
			cancelled++
			progressed = true
		}
		if len(ids) < sweepBatchSize || !progressed {
			return cancelled, nil
		}
	}
}
