package schedule

import (
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	tperrors "github.com/vnykmshr/taskpool/pkg/common/errors"
	"github.com/vnykmshr/taskpool/pkg/common/validation"
	"github.com/vnykmshr/taskpool/pkg/pool"
)

// Entry describes a registered schedule entry.
type Entry struct {
	ID       string
	NextRun  time.Time
	Interval time.Duration // zero for one-shot and cron entries
	Cron     string        // empty for non-cron entries
	Created  time.Time
}

// Scheduler dispatches jobs to a worker pool at scheduled times.
type Scheduler interface {
	// After runs the job once, delay from now.
	After(id string, delay time.Duration, job pool.Job) error

	// Every runs the job repeatedly at the given interval, starting one
	// interval from now.
	Every(id string, interval time.Duration, job pool.Job) error

	// Cron runs the job on a standard cron expression
	// ("minute hour day month weekday", plus descriptors like @hourly).
	Cron(id, expr string, job pool.Job) error

	// Cancel removes an entry. It reports whether the entry existed.
	Cancel(id string) bool

	// CancelAll removes every entry.
	CancelAll()

	// List returns a snapshot of registered entries, sorted by id.
	List() []Entry

	// Start begins dispatching. It fails if the scheduler is already
	// running or has been stopped.
	Start() error

	// Stop ceases dispatching. The returned channel closes once the
	// dispatch loop has exited; if the scheduler owns its pool, the pool
	// is shut down and drained first.
	Stop() <-chan struct{}
}

// Config holds scheduler configuration.
type Config struct {
	// Pool receives dispatched jobs. If nil, the scheduler creates and
	// owns a pool sized to the number of CPUs.
	Pool pool.Pool

	// Location for cron expression evaluation. Defaults to time.Local.
	Location *time.Location

	// TickInterval is how often due entries are checked. Default 50ms.
	TickInterval time.Duration

	// MaxEntries caps the number of registered entries. Default 10000.
	MaxEntries int

	// OnDispatchError is called when submitting a due job to the pool
	// fails, for example because the pool was shut down.
	OnDispatchError func(id string, err error)
}

type entry struct {
	id       string
	job      pool.Job
	runAt    time.Time
	interval time.Duration
	cronExpr string
	schedule cron.Schedule
	created  time.Time
}

type scheduler struct {
	pool         pool.Pool
	ownPool      bool
	location     *time.Location
	tickInterval time.Duration
	maxEntries   int
	onError      func(string, error)
	parser       cron.Parser

	mu      sync.RWMutex
	entries map[string]*entry
	running bool
	stopped bool

	done      chan struct{}
	loopDone  chan struct{}
	stopOnce  sync.Once
	stoppedCh chan struct{}
}

const (
	defaultTickInterval = 50 * time.Millisecond
	defaultMaxEntries   = 10000
)

// New creates a scheduler with default configuration and its own pool.
func New() (Scheduler, error) {
	return NewWithConfig(Config{})
}

// NewWithConfig creates a scheduler with custom configuration.
func NewWithConfig(cfg Config) (Scheduler, error) {
	p := cfg.Pool
	ownPool := false
	if p == nil {
		var err error
		p, err = pool.New(runtime.NumCPU(), 0)
		if err != nil {
			return nil, err
		}
		ownPool = true
	}

	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	tick := cfg.TickInterval
	if tick <= 0 {
		tick = defaultTickInterval
	}
	maxEntries := cfg.MaxEntries
	if maxEntries <= 0 {
		maxEntries = defaultMaxEntries
	}

	return &scheduler{
		pool:         p,
		ownPool:      ownPool,
		location:     loc,
		tickInterval: tick,
		maxEntries:   maxEntries,
		onError:      cfg.OnDispatchError,
		parser: cron.NewParser(
			cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
		),
		entries:  make(map[string]*entry),
		done:     make(chan struct{}),
		loopDone: make(chan struct{}),
	}, nil
}

// After runs the job once, delay from now.
func (s *scheduler) After(id string, delay time.Duration, job pool.Job) error {
	if delay < 0 {
		return tperrors.NewValidationError("schedule", "delay", delay, "cannot be negative")
	}
	return s.add(&entry{
		id:      id,
		job:     job,
		runAt:   time.Now().In(s.location).Add(delay),
		created: time.Now(),
	})
}

// Every runs the job repeatedly at the given interval.
func (s *scheduler) Every(id string, interval time.Duration, job pool.Job) error {
	if interval <= 0 {
		return tperrors.NewValidationError("schedule", "interval", interval, "must be positive")
	}
	return s.add(&entry{
		id:       id,
		job:      job,
		runAt:    time.Now().In(s.location).Add(interval),
		interval: interval,
		created:  time.Now(),
	})
}

// Cron runs the job on a cron expression.
func (s *scheduler) Cron(id, expr string, job pool.Job) error {
	if err := validation.ValidateNotEmpty("schedule", "expr", expr); err != nil {
		return err
	}
	sched, err := s.parser.Parse(expr)
	if err != nil {
		return tperrors.NewValidationError("schedule", "expr", expr, err.Error())
	}
	return s.add(&entry{
		id:       id,
		job:      job,
		runAt:    sched.Next(time.Now().In(s.location)),
		cronExpr: expr,
		schedule: sched,
		created:  time.Now(),
	})
}

func (s *scheduler) add(e *entry) error {
	if err := validation.ValidateNotEmpty("schedule", "id", e.id); err != nil {
		return err
	}
	if err := validation.ValidateNotNil("schedule", "job", e.job); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return tperrors.ErrClosed
	}
	if _, exists := s.entries[e.id]; exists {
		return fmt.Errorf("schedule: entry %q: %w", e.id, tperrors.ErrAlreadyExists)
	}
	if len(s.entries) >= s.maxEntries {
		return fmt.Errorf("schedule: %d entries: %w", s.maxEntries, tperrors.ErrCapacityExceeded)
	}

	s.entries[e.id] = e
	return nil
}

// Cancel removes an entry.
func (s *scheduler) Cancel(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[id]; !exists {
		return false
	}
	delete(s.entries, id)
	return true
}

// CancelAll removes every entry.
func (s *scheduler) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]*entry)
}

// List returns a snapshot of registered entries, sorted by id.
func (s *scheduler) List() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		list = append(list, Entry{
			ID:       e.id,
			NextRun:  e.runAt,
			Interval: e.interval,
			Cron:     e.cronExpr,
			Created:  e.created,
		})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

// Start begins the dispatch loop.
func (s *scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return tperrors.ErrClosed
	}
	if s.running {
		return fmt.Errorf("schedule: scheduler already running: %w", tperrors.ErrAlreadyExists)
	}
	s.running = true

	go s.loop()
	return nil
}

func (s *scheduler) loop() {
	defer close(s.loopDone)

	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case now := <-ticker.C:
			s.dispatchDue(now.In(s.location))
		}
	}
}

// dispatchDue submits every due entry to the pool and reschedules or
// removes it. Submission happens outside the lock so a full pool queue
// cannot block registration.
func (s *scheduler) dispatchDue(now time.Time) {
	s.mu.Lock()
	var due []*entry
	for _, e := range s.entries {
		if !e.runAt.After(now) {
			due = append(due, e)
			switch {
			case e.schedule != nil:
				e.runAt = e.schedule.Next(now)
			case e.interval > 0:
				e.runAt = now.Add(e.interval)
			default:
				delete(s.entries, e.id)
			}
		}
	}
	s.mu.Unlock()

	for _, e := range due {
		if err := s.pool.Submit(e.job); err != nil {
			if s.onError != nil {
				s.onError(e.id, err)
			}
		}
	}
}

// Stop ceases dispatching and, for an owned pool, drains it.
func (s *scheduler) Stop() <-chan struct{} {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		wasRunning := s.running
		s.running = false
		s.stopped = true
		stopped := make(chan struct{})
		s.stoppedCh = stopped
		s.mu.Unlock()

		close(s.done)
		go func() {
			if wasRunning {
				<-s.loopDone
			}
			if s.ownPool {
				<-s.pool.Shutdown()
			}
			close(stopped)
		}()
	})

	return s.stoppedCh
}
