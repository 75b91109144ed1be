package exportstore

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Sweeper runs Store.Sweep on a cron schedule.
type Sweeper struct {
	store     *Store
	retention time.Duration
	cron      *cron.Cron
	logger    zerolog.Logger
}

// NewSweeper parses schedule (standard cron or a descriptor such as
// "@every 1h") and returns a stopped sweeper.
func NewSweeper(store *Store, schedule string, retention time.Duration, logger zerolog.Logger) (*Sweeper, error) {
	s := &Sweeper{
		store:     store,
		retention: retention,
		cron:      cron.New(),
		logger:    logger.With().Str("component", "export_sweeper").Logger(),
	}
	if _, err := s.cron.AddFunc(schedule, s.RunOnce); err != nil {
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", schedule, err)
	}
	return s, nil
}

// RunOnce performs a single sweep.
func (s *Sweeper) RunOnce() {
	n, err := s.store.Sweep(s.retention)
	if err != nil {
		s.logger.Error().Err(err).Int("removed", n).Msg("export sweep failed")
		return
	}
	if n > 0 {
		s.logger.Info().Int("removed", n).Dur("retention", s.retention).Msg("expired exports removed")
	}
}

func (s *Sweeper) Start() {
	s.cron.Start()
}

// Stop halts the schedule and waits for a running sweep, or until ctx is
// done.
func (s *Sweeper) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
