package pool

import (
	"context"
	"time"
)

// run is the main loop for a worker. It takes jobs from the shared queue
// until the queue is closed and drained, then exits.
func (w *worker) run() {
	p := w.pool
	defer p.workerWg.Done()

	if p.config.OnWorkerStart != nil {
		p.config.OnWorkerStart(w.id)
	}
	if p.config.OnWorkerStop != nil {
		defer p.config.OnWorkerStop(w.id)
	}

	for job := range p.jobs {
		w.execute(job)
	}
}

// execute runs a single job, recovering panics so the worker survives
// misbehaving jobs and the pool never silently loses capacity.
func (w *worker) execute(job Job) {
	p := w.pool
	p.inFlight.Add(1)

	start := time.Now()
	var err error

	defer func() {
		if r := recover(); r != nil {
			err = newPanicError(r)
			if p.config.PanicHandler != nil {
				p.config.PanicHandler(job, r)
			}
		}

		p.inFlight.Add(-1)
		p.completed.Add(1)
		if err != nil {
			p.failed.Add(1)
		}

		if p.config.OnJobDone != nil {
			p.config.OnJobDone(w.id, job, err, time.Since(start))
		}
	}()

	ctx := context.Background()
	if p.config.JobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.config.JobTimeout)
		defer cancel()
	}

	err = job.Run(ctx)
}
