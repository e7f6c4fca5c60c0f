package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// CycleFunc is invoked once per polling interval.
type CycleFunc func(ctx context.Context, start time.Time) error

// Options tune scheduler behaviour.
type Options struct {
	Interval     time.Duration
	AlignToStart bool
	StartupDelay time.Duration
}

// Scheduler drives the fixed-interval polling loop. One cycle runs at a
// time; a cycle that overruns its interval simply delays the next one.
type Scheduler struct {
	opts   Options
	logger zerolog.Logger
}

// New constructs a Scheduler instance.
func New(opts Options, logger zerolog.Logger) *Scheduler {
	if opts.Interval <= 0 {
		panic("scheduler interval must be positive")
	}
	return &Scheduler{opts: opts, logger: logger.With().Str("component", "scheduler").Logger()}
}

// Run blocks, invoking the cycle function at each interval until ctx is
// cancelled. The first cycle runs immediately after the startup delay; a
// cycle error is logged, never fatal; the next cycle is the retry.
func (s *Scheduler) Run(ctx context.Context, cycle CycleFunc) error {
	if s.opts.StartupDelay > 0 {
		timer := time.NewTimer(s.opts.StartupDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	if err := s.runOnce(ctx, cycle); err != nil {
		return err
	}

	for {
		next := s.nextTick(time.Now().UTC())
		timer := time.NewTimer(time.Until(next))
		s.logger.Debug().Time("next_cycle", next).Msg("waiting for next cycle")

		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
			timer.Stop()
		}

		if err := s.runOnce(ctx, cycle); err != nil {
			return err
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context, cycle CycleFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now().UTC()
	s.logger.Info().Time("cycle_start", start).Msg("executing cycle")

	if err := cycle(ctx, start); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.logger.Error().Err(err).Time("cycle_start", start).Msg("cycle failed")
	}
	return nil
}

func (s *Scheduler) nextTick(now time.Time) time.Time {
	if !s.opts.AlignToStart {
		return now.Add(s.opts.Interval)
	}
	next := now.Truncate(s.opts.Interval)
	if !next.After(now) {
		next = next.Add(s.opts.Interval)
	}
	return next
}
