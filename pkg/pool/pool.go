package pool

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	tperrors "github.com/vnykmshr/taskpool/pkg/common/errors"
	"github.com/vnykmshr/taskpool/pkg/common/validation"
)

// Job represents a unit of work that can be executed by a worker.
type Job interface {
	// Run executes the job with the given context.
	// It should respect context cancellation and return any error encountered.
	Run(ctx context.Context) error
}

// JobFunc is a function type that implements the Job interface.
type JobFunc func(ctx context.Context) error

// Run implements the Job interface for JobFunc.
func (f JobFunc) Run(ctx context.Context) error {
	return f(ctx)
}

// Stats is a point-in-time snapshot of pool activity.
type Stats struct {
	Submitted  int64 // total jobs accepted by Submit
	Completed  int64 // jobs finished (success + failure)
	Failed     int64 // jobs that returned an error or panicked
	InFlight   int64 // jobs currently executing
	QueueDepth int   // jobs waiting in the queue
	Workers    int   // worker count (fixed at creation)
}

// Pool executes submitted jobs on a fixed set of worker goroutines.
type Pool interface {
	// Submit enqueues a job for execution by exactly one worker.
	// It blocks while the queue is full and returns errors.ErrClosed
	// once shutdown has begun.
	Submit(job Job) error

	// SubmitWithContext enqueues a job, honoring ctx for the queuing
	// operation. The context does not bound the job's execution.
	SubmitWithContext(ctx context.Context, job Job) error

	// TrySubmit enqueues a job without blocking. It returns
	// errors.ErrCapacityExceeded when the queue is full.
	TrySubmit(job Job) error

	// Shutdown closes the queue and lets the workers drain it. The
	// returned channel closes after every queued job has executed and
	// all workers have exited. Shutdown is idempotent.
	Shutdown() <-chan struct{}

	// Size returns the number of workers in the pool.
	Size() int

	// QueueDepth returns the number of jobs waiting for execution.
	QueueDepth() int

	// ActiveWorkers returns the number of workers currently executing jobs.
	ActiveWorkers() int

	// Stats returns a snapshot of pool counters.
	Stats() Stats
}

// Config holds configuration options for creating a worker pool.
type Config struct {
	// Workers is the number of worker goroutines. Must be greater than 0.
	Workers int

	// QueueSize is the job queue buffer capacity.
	// If 0, a default of Workers * 64 is used.
	QueueSize int

	// JobTimeout bounds the execution of each job. Zero means no timeout.
	JobTimeout time.Duration

	// PanicHandler is called when a job panics. The worker recovers and
	// keeps running regardless; the handler is for reporting only.
	PanicHandler func(job Job, recovered any)

	// OnWorkerStart is called when a worker starts.
	// Useful for per-worker initialization.
	OnWorkerStart func(workerID int)

	// OnWorkerStop is called when a worker exits.
	OnWorkerStop func(workerID int)

	// OnJobDone is called after each job completes, with the worker that
	// ran it, the job's error (nil on success, *PanicError on panic) and
	// the execution duration.
	OnJobDone func(workerID int, job Job, err error, elapsed time.Duration)
}

const defaultQueueFactor = 64

// workerPool implements the Pool interface.
type workerPool struct {
	config  Config
	jobs    chan Job
	workers []worker

	mu     sync.RWMutex
	closed bool

	done         chan struct{}
	shutdownOnce sync.Once
	workerWg     sync.WaitGroup

	submitted atomic.Int64
	completed atomic.Int64
	failed    atomic.Int64
	inFlight  atomic.Int64
}

// worker represents a single worker in the pool.
type worker struct {
	id   int
	pool *workerPool
}

// New creates a worker pool with the given worker count and queue capacity.
// A queueSize of 0 selects the default buffer. It returns an error if
// workers is not positive or queueSize is negative.
func New(workers, queueSize int) (Pool, error) {
	return NewWithConfig(Config{
		Workers:   workers,
		QueueSize: queueSize,
	})
}

// NewWithConfig creates a worker pool with the given configuration.
// Workers begin waiting on the shared queue immediately.
func NewWithConfig(config Config) (Pool, error) {
	if err := validation.ValidatePositive("pool", "Workers", config.Workers); err != nil {
		return nil, err
	}
	if err := validation.ValidateNonNegative("pool", "QueueSize", config.QueueSize); err != nil {
		return nil, err
	}
	if config.JobTimeout < 0 {
		return nil, tperrors.NewValidationError("pool", "JobTimeout", config.JobTimeout, "cannot be negative")
	}

	queueSize := config.QueueSize
	if queueSize == 0 {
		queueSize = config.Workers * defaultQueueFactor
	}

	p := &workerPool{
		config: config,
		jobs:   make(chan Job, queueSize),
		done:   make(chan struct{}),
	}

	p.workers = make([]worker, config.Workers)
	for i := range p.workers {
		p.workers[i] = worker{id: i, pool: p}
		p.workerWg.Add(1)
		go p.workers[i].run()
	}

	return p, nil
}

// Submit adds a job to the pool for execution.
func (p *workerPool) Submit(job Job) error {
	return p.SubmitWithContext(context.Background(), job)
}

// SubmitWithContext adds a job to the pool, honoring ctx while queuing.
func (p *workerPool) SubmitWithContext(ctx context.Context, job Job) error {
	if err := validation.ValidateNotNil("pool", "job", job); err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	// Reject pre-canceled contexts deterministically before queuing.
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	// The read lock is held across the send so Shutdown cannot close
	// the channel between the closed check and the send.
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return tperrors.ErrClosed
	}

	select {
	case p.jobs <- job:
		p.submitted.Add(1)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TrySubmit adds a job without blocking on a full queue.
func (p *workerPool) TrySubmit(job Job) error {
	if err := validation.ValidateNotNil("pool", "job", job); err != nil {
		return err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return tperrors.ErrClosed
	}

	select {
	case p.jobs <- job:
		p.submitted.Add(1)
		return nil
	default:
		return tperrors.ErrCapacityExceeded
	}
}

// Shutdown closes submission and waits, via the returned channel, for the
// workers to drain the queue and exit.
func (p *workerPool) Shutdown() <-chan struct{} {
	p.shutdownOnce.Do(func() {
		p.mu.Lock()
		p.closed = true
		close(p.jobs)
		p.mu.Unlock()

		go func() {
			p.workerWg.Wait()
			close(p.done)
		}()
	})

	return p.done
}

// Size returns the number of workers in the pool.
func (p *workerPool) Size() int {
	return p.config.Workers
}

// QueueDepth returns the current number of queued jobs.
func (p *workerPool) QueueDepth() int {
	return len(p.jobs)
}

// ActiveWorkers returns the number of workers currently executing jobs.
func (p *workerPool) ActiveWorkers() int {
	return int(p.inFlight.Load())
}

// Stats returns a snapshot of pool counters.
func (p *workerPool) Stats() Stats {
	return Stats{
		Submitted:  p.submitted.Load(),
		Completed:  p.completed.Load(),
		Failed:     p.failed.Load(),
		InFlight:   p.inFlight.Load(),
		QueueDepth: len(p.jobs),
		Workers:    p.config.Workers,
	}
}
