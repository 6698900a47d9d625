/*
Package taskpool provides a worker pool for background job execution, with
scheduling, durable queuing, and Prometheus instrumentation.

Worker Pool (pkg/pool):
  - pool: fixed worker set draining a shared job queue, graceful shutdown,
    panic recovery, optional Prometheus metrics

Scheduling (pkg/schedule):
  - schedule: one-shot, fixed-interval, and cron dispatch onto a pool
  - BackoffJob: capped exponential retry wrapper

Queuing (pkg/queue):
  - queue: Redis-list-backed durable job feed with a pool-draining consumer

Configuration (pkg/config):
  - config: YAML/JSON file configuration for all components

Example usage:

	import (
		"github.com/vnykmshr/taskpool/pkg/pool"
		"github.com/vnykmshr/taskpool/pkg/schedule"
	)

	p, _ := pool.New(4, 100) // 4 workers, queue capacity 100
	s, _ := schedule.NewWithConfig(schedule.Config{Pool: p})

	_ = p.Submit(job)
	_ = s.Every("cleanup", time.Minute, cleanupJob)
*/
package taskpool
