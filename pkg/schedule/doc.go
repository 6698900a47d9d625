/*
Package schedule dispatches jobs to a worker pool at scheduled times.

A Scheduler supports three kinds of entries: one-shot deferred jobs (After),
fixed-interval repeating jobs (Every), and cron-expression jobs (Cron, using
the standard five-field format plus descriptors like @hourly). Due entries
are submitted to the configured pool by a ticker-driven loop; jobs never run
on the scheduler's own goroutine.

	p, _ := pool.New(4, 100)
	s, _ := schedule.NewWithConfig(schedule.Config{Pool: p})
	_ = s.Every("cleanup", time.Minute, cleanupJob)
	_ = s.Cron("report", "0 9 * * 1-5", reportJob)
	_ = s.Start()
	...
	<-s.Stop()
	<-p.Shutdown()

If no pool is supplied, the scheduler creates one sized to the number of
CPUs and shuts it down when Stop is called.

BackoffJob wraps any job with capped exponential retry and can be used with
a scheduler or submitted to a pool directly.
*/
package schedule
