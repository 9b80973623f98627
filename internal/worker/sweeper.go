package worker

import (
	"context"
	"sync"
	"time"

	"cycle-kart/internal/metrics"
	"cycle-kart/internal/repository"

	"github.com/rs/zerolog"
)

// Sweeper periodically removes expired sessions.
type Sweeper struct {
	sessions repository.SessionRepository
	interval time.Duration
	logger   zerolog.Logger

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// NewSweeper creates a sweeper that runs every interval.
func NewSweeper(sessions repository.SessionRepository, interval time.Duration, logger zerolog.Logger) *Sweeper {
	return &Sweeper{
		sessions: sessions,
		interval: interval,
		logger:   logger.With().Str("component", "sweeper").Logger(),
	}
}

// Start runs the sweep loop in the background until ctx is done or Stop is called.
func (s *Sweeper) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.logger.Info().Dur("interval", s.interval).Msg("session sweeper started")
		for {
			select {
			case <-ctx.Done():
				s.logger.Info().Msg("session sweeper stopped")
				return
			case <-ticker.C:
				s.SweepOnce(ctx)
			}
		}
	}()
}

// Stop cancels the loop and waits for an in-flight sweep to finish.
func (s *Sweeper) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

// SweepOnce removes expired sessions and returns how many were removed.
func (s *Sweeper) SweepOnce(ctx context.Context) int {
	removed, err := s.sessions.Sweep(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("session sweep failed")
		return 0
	}

	if removed > 0 {
		metrics.SessionsSweptTotal.Add(float64(removed))
		s.logger.Info().Int("removed", removed).Msg("expired sessions removed")
	}
	return removed
}
