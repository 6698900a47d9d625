/*
Package pool provides a fixed-size worker pool for executing background jobs.

A pool owns a set of long-lived worker goroutines that take jobs from a shared
queue, one at a time, and run them to completion. Every submitted job is
delivered to exactly one worker; workers are created at construction and joined
at shutdown.

Basic usage:

	p, err := pool.New(4, 100) // 4 workers, queue capacity 100
	if err != nil {
		log.Fatal(err)
	}

	job := pool.JobFunc(func(ctx context.Context) error {
		// Do work
		return nil
	})

	if err := p.Submit(job); err != nil {
		log.Printf("submit failed: %v", err)
	}

	<-p.Shutdown() // drains queued jobs, then joins all workers

Shutdown semantics:

Shutdown closes the submission queue; any later Submit returns errors.ErrClosed.
The workers finish their in-flight jobs, drain everything still queued, and
exit. The channel returned by Shutdown closes only after the last worker has
exited, so receiving from it is a completion barrier for all submitted work.

Failure semantics:

A job that returns an error is counted in Stats and reported through the
OnJobDone hook. A job that panics is recovered: the panic is wrapped in a
*PanicError carrying the stack trace, the optional PanicHandler is invoked,
and the worker returns to its loop. Worker capacity never shrinks because of
a misbehaving job.

Instrumentation:

NewWithMetrics wraps a pool so that submissions, completions, failures,
execution durations and queue depth are recorded as Prometheus metrics,
labelled by pool name. See the metrics package for the metric set.
*/
package pool
