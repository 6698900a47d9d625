package queue

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	tperrors "github.com/vnykmshr/taskpool/pkg/common/errors"
	"github.com/vnykmshr/taskpool/pkg/pool"
)

// Handler processes a single dequeued payload.
type Handler func(ctx context.Context, payload []byte) error

// Consumer drains a Queue into a worker pool. Each payload becomes one
// job running the configured handler.
type Consumer struct {
	queue   *Queue
	pool    pool.Pool
	handler Handler
}

// NewConsumer binds a queue, a destination pool and a payload handler.
func NewConsumer(q *Queue, p pool.Pool, h Handler) (*Consumer, error) {
	// Explicit nil checks: typed nils would slip past an interface check.
	if q == nil {
		return nil, tperrors.NewValidationError("queue", "queue", nil, "cannot be nil")
	}
	if p == nil {
		return nil, tperrors.NewValidationError("queue", "pool", nil, "cannot be nil")
	}
	if h == nil {
		return nil, tperrors.NewValidationError("queue", "handler", nil, "cannot be nil")
	}
	return &Consumer{queue: q, pool: p, handler: h}, nil
}

// Run polls the queue and submits handler jobs to the pool until ctx is
// canceled, the pool is shut down, or a Redis operation fails. It
// returns the terminating error; ctx.Err() on cancellation.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		payload, err := c.queue.pop(ctx)
		if errors.Is(err, redis.Nil) {
			// Empty queue, poll again.
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return &RedisError{"brpop", err}
		}

		job := pool.JobFunc(func(jctx context.Context) error {
			return c.handler(jctx, payload)
		})

		// A closed pool ends the consumer; the payload stays dequeued,
		// so callers that need redelivery should re-enqueue on error.
		if err := c.pool.Submit(job); err != nil {
			return err
		}
	}
}
