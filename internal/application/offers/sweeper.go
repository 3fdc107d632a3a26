package offers

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Sweeper periodically flips stale active offers to expired. Reads already
// filter on expiresAt, so a missed sweep never exposes an expired offer.
type Sweeper struct {
	Service  *Service
	Interval time.Duration
}

// Run blocks until ctx is cancelled. A non-positive interval returns at once.
func (w *Sweeper) Run(ctx context.Context) error {
	if w.Interval <= 0 {
		log.Info().Msg("offer expiry sweeper disabled")
		return nil
	}
	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()

	w.sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *Sweeper) sweep(ctx context.Context) {
	n, err := w.Service.ExpireStale(ctx)
	if err != nil {
		if ctx.Err() == nil {
			log.Error().Err(err).Msg("offer expiry sweep failed")
		}
		return
	}
	if n > 0 {
		log.Info().Int64("expired", n).Msg("marked stale offers expired")
	}
}
