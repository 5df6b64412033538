// Package scheduler runs the reservation sweep on a cron schedule in addition to the lazy
// sweep every read performs.
package scheduler

import (
	"context"
	"fmt"
	"salon/config"
	"salon/infras/otel"
	"salon/shared/constant"
	"salon/shared/timezone"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Sweeper is the part of the booking engine the scheduler drives.
type Sweeper interface {
	Sweep(ctx context.Context) (int, error)
}

type Scheduler struct {
	cron    *cron.Cron
	sweeper Sweeper
	otel    otel.Otel
	spec    string
	ctx     context.Context
	cancel  context.CancelFunc
	once    sync.Once
}

func New(cfg *config.Config, sweeper Sweeper, otel otel.Otel) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		cron:    cron.New(cron.WithLocation(timezone.GetLocation()), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		sweeper: sweeper,
		otel:    otel,
		spec:    cfg.Booking.SweepSchedule,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start registers the sweep and starts the cron loop. An empty schedule leaves the
// scheduler idle.
func (s *Scheduler) Start() error {
	if s.spec == constant.Empty {
		log.Info().Msg("periodic sweep disabled")

		return nil
	}

	if _, err := s.cron.AddFunc(s.spec, s.RunOnce); err != nil {
		return fmt.Errorf("invalid sweep schedule %q: %w", s.spec, err)
	}

	s.cron.Start()

	log.Info().Str("schedule", s.spec).Msg("periodic sweep started")

	return nil
}

// RunOnce performs a single sweep.
func (s *Scheduler) RunOnce() {
	ctx, scope := s.otel.NewScope(s.ctx, constant.OtelSchedulerScopeName, constant.OtelSchedulerScopeName+".Sweep")
	defer scope.End()

	count, err := s.sweeper.Sweep(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("periodic sweep failed")

		return
	}

	log.Debug().Int("count", count).Msg("periodic sweep finished")
}

// Stop waits for a running sweep to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	s.once.Do(func() {
		done := s.cron.Stop()

		select {
		case <-done.Done():
		case <-ctx.Done():
			log.Warn().Msg("periodic sweep still running at shutdown")
		}

		s.cancel()
	})
}
