package app

import (
	"context"
	"log/slog"
	"time"
)

const (
	defaultPollInterval = time.Minute
	maxBackoff          = 30 * time.Second
)

// offerSyncer refreshes the offer list without touching the UI state.
type offerSyncer interface {
	SyncOffers(ctx context.Context) error
}

// StartPoller launches a background goroutine that refreshes the offers at a
// fixed cadence, backing off after failures. It returns immediately.
func StartPoller(ctx context.Context, syncer offerSyncer, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	go poll(ctx, syncer, interval, logger)
}

func poll(ctx context.Context, syncer offerSyncer, interval time.Duration, logger *slog.Logger) {
	failures := 0
	timer := time.NewTimer(interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		if err := syncer.SyncOffers(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			failures++
			wait := calculateBackoff(failures, interval)
			logger.Warn("offer sync failed", "error", err, "failures", failures, "retry_in", wait)
			timer.Reset(wait)
			continue
		}
		if failures > 0 {
			logger.Info("offer sync recovered", "after_failures", failures)
		}
		failures = 0
		timer.Reset(interval)
	}
}

// calculateBackoff doubles base for every consecutive failure, capped at
// maxBackoff. A base at or above the cap is returned unchanged.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 || base >= maxBackoff {
		return base
	}
	backoff := base
	for i := 0; i < failures; i++ {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}
