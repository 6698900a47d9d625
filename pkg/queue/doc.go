/*
Package queue provides a durable job feed over a Redis list.

Producers push payloads with Enqueue or EnqueueJSON; a Consumer drains the
list with blocking pops and submits each payload, wrapped in a handler job,
to a worker pool. Because the payloads live in Redis, they survive process
restarts and can be produced and consumed by separate processes.

	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	q, _ := queue.New(queue.Config{Redis: client, Key: "jobs"})

	p, _ := pool.New(4, 100)
	c, _ := queue.NewConsumer(q, p, func(ctx context.Context, payload []byte) error {
		return process(payload)
	})

	// Blocks until ctx is canceled or the pool shuts down.
	err := c.Run(ctx)

Delivery is at-most-once: a payload is removed from Redis when popped, so a
handler failure does not put it back. Handlers that need redelivery should
re-enqueue explicitly (BackoffJob from the schedule package is a useful
wrapper for in-process retries).
*/
package queue
