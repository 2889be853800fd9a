// Package schedule repeats a job on a cron schedule in the calling goroutine.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	appLog "geocal/internal/log"
)

// Parse parses a standard five-field cron expression or a descriptor such as
// "@hourly" or "@every 90s". An empty expression yields a nil schedule.
func Parse(expr string) (cron.Schedule, error) {
	if expr == "" {
		return nil, nil
	}
	s, err := cron.ParseStandard(expr)
	if err != nil {
		return nil, fmt.Errorf("schedule: parse %q: %w", expr, err)
	}
	return s, nil
}

// Runner runs a job immediately and then at every activation of a schedule.
type Runner struct {
	// Now and After default to time.Now and time.After.
	Now   func() time.Time
	After func(time.Duration) <-chan time.Time
}

// Run calls job once, then once per activation of s until ctx is canceled or
// job fails. A nil schedule runs job exactly once. Cancellation returns nil.
func (r Runner) Run(ctx context.Context, s cron.Schedule, job func(context.Context) error) error {
	now, after := r.Now, r.After
	if now == nil {
		now = time.Now
	}
	if after == nil {
		after = time.After
	}

	for {
		if err := job(ctx); err != nil {
			return err
		}
		if s == nil || ctx.Err() != nil {
			return nil
		}

		t := now()
		next := s.Next(t)
		if next.IsZero() {
			return errors.New("schedule: no further activations")
		}
		appLog.Debug("next refresh", "at", next.Format(time.RFC3339))

		select {
		case <-ctx.Done():
			return nil
		case <-after(next.Sub(t)):
		}
	}
}
