package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vnykmshr/taskpool/pkg/common/validation"
)

// Config holds configuration for a Redis-backed job queue.
type Config struct {
	// Redis client used for all queue operations.
	Redis redis.UniversalClient

	// Key is the Redis list key holding the queued payloads.
	Key string

	// PopTimeout is the blocking-pop timeout per poll. Defaults to 1s.
	// Shorter values make consumers react faster to context cancellation.
	PopTimeout time.Duration

	// OpTimeout bounds non-blocking Redis operations. Defaults to 500ms.
	OpTimeout time.Duration
}

const (
	defaultPopTimeout = time.Second
	defaultOpTimeout  = 500 * time.Millisecond
)

// RedisError wraps a failed Redis operation with the operation name.
type RedisError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *RedisError) Error() string {
	return fmt.Sprintf("queue: redis %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying Redis error.
func (e *RedisError) Unwrap() error {
	return e.Err
}

// Queue is a durable FIFO of job payloads backed by a Redis list.
// Producers push with Enqueue; a Consumer drains payloads into a worker
// pool. Payloads survive process restarts as long as Redis does.
type Queue struct {
	config Config
}

// New creates a queue over the given Redis client and list key.
func New(config Config) (*Queue, error) {
	if err := validation.ValidateNotNil("queue", "Redis", config.Redis); err != nil {
		return nil, err
	}
	if err := validation.ValidateNotEmpty("queue", "Key", config.Key); err != nil {
		return nil, err
	}

	if config.PopTimeout <= 0 {
		config.PopTimeout = defaultPopTimeout
	}
	if config.OpTimeout <= 0 {
		config.OpTimeout = defaultOpTimeout
	}

	return &Queue{config: config}, nil
}

// Key returns the Redis list key this queue operates on.
func (q *Queue) Key() string {
	return q.config.Key
}

// Enqueue pushes a payload onto the queue.
func (q *Queue) Enqueue(ctx context.Context, payload []byte) error {
	ctx, cancel := q.opContext(ctx)
	defer cancel()

	if err := q.config.Redis.LPush(ctx, q.config.Key, payload).Err(); err != nil {
		return &RedisError{"lpush", err}
	}
	return nil
}

// EnqueueJSON marshals v as JSON and pushes it onto the queue.
func (q *Queue) EnqueueJSON(ctx context.Context, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("queue: marshal payload: %w", err)
	}
	return q.Enqueue(ctx, payload)
}

// Len returns the number of payloads currently queued.
func (q *Queue) Len(ctx context.Context) (int64, error) {
	ctx, cancel := q.opContext(ctx)
	defer cancel()

	n, err := q.config.Redis.LLen(ctx, q.config.Key).Result()
	if err != nil {
		return 0, &RedisError{"llen", err}
	}
	return n, nil
}

// Purge removes every queued payload.
func (q *Queue) Purge(ctx context.Context) error {
	ctx, cancel := q.opContext(ctx)
	defer cancel()

	if err := q.config.Redis.Del(ctx, q.config.Key).Err(); err != nil {
		return &RedisError{"del", err}
	}
	return nil
}

// pop blocks for up to PopTimeout waiting for a payload. It returns
// redis.Nil when the timeout elapses with an empty queue.
func (q *Queue) pop(ctx context.Context) ([]byte, error) {
	res, err := q.config.Redis.BRPop(ctx, q.config.PopTimeout, q.config.Key).Result()
	if err != nil {
		return nil, err
	}
	// BRPOP returns [key, value].
	if len(res) != 2 {
		return nil, &RedisError{"brpop", fmt.Errorf("unexpected reply length %d", len(res))}
	}
	return []byte(res[1]), nil
}

func (q *Queue) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, q.config.OpTimeout)
}
