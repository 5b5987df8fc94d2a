// Package jobs contains background workers that keep the payment ledger
// current without operator intervention.
package jobs

import (
	"context"
	"time"

	"github.com/AHADKHATTAK1/zaidan-gym/internal/clock"
	"github.com/AHADKHATTAK1/zaidan-gym/internal/logger"
	"github.com/AHADKHATTAK1/zaidan-gym/internal/services"
)

// Rollover periodically materializes the current year's ledger rows for every
// active member, so a year boundary never leaves the fees grid empty. Each
// pass is insert-only and idempotent, so overlapping runs (or a concurrent
// manual EnsureYearRows) are harmless.
type Rollover struct {
	payments services.PaymentServicer
	clk      clock.Clock
	interval time.Duration
}

// NewRollover creates a rollover job with the given pass interval.
func NewRollover(payments services.PaymentServicer, clk clock.Clock, interval time.Duration) *Rollover {
	return &Rollover{payments: payments, clk: clk, interval: interval}
}

// RunOnce executes a single rollover pass for the clock's current year.
func (r *Rollover) RunOnce() error {
	year := r.clk.Now().Year()
	start := time.Now()
	if err := r.payments.EnsureYearRowsForAll(year); err != nil {
		return err
	}
	logger.Get().Infow("rollover pass complete",
		"year", year,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// Start runs rollover passes until the context is cancelled. Failures are
// logged and the ticker keeps going; the next pass retries from scratch.
func (r *Rollover) Start(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Get().Infow("rollover job stopped")
			return
		case <-ticker.C:
			if err := r.RunOnce(); err != nil {
				logger.Get().Errorw("rollover pass failed", "error", err)
			}
		}
	}
}
