package schedule

import (
	"context"
	"time"

	"github.com/vnykmshr/taskpool/pkg/pool"
)

// BackoffJob wraps a job with retry logic. Each failed attempt doubles
// the delay before the next one, capped at MaxDelay.
type BackoffJob struct {
	Job          pool.Job
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
}

// Run implements pool.Job with exponential backoff.
func (b BackoffJob) Run(ctx context.Context) error {
	var lastErr error
	delay := b.InitialDelay

	for attempt := 0; attempt <= b.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}

			delay *= 2
			if b.MaxDelay > 0 && delay > b.MaxDelay {
				delay = b.MaxDelay
			}
		}

		lastErr = b.Job.Run(ctx)
		if lastErr == nil {
			return nil
		}
	}

	return lastErr
}
