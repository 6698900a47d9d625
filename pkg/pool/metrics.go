package pool

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vnykmshr/taskpool/pkg/metrics"
)

// MetricsPool wraps a Pool with Prometheus metrics collection.
type MetricsPool struct {
	pool     Pool
	name     string
	registry *metrics.Registry
	enabled  bool
}

// NewWithMetrics creates a worker pool that records metrics under the
// given name into its own Prometheus registry.
func NewWithMetrics(workers, queueSize int, name string) (Pool, error) {
	// A separate registry per metrics-enabled component avoids
	// duplicate-registration conflicts.
	registry := prometheus.NewRegistry()
	config := metrics.Config{
		Enabled:  true,
		Registry: registry,
	}

	return NewWithConfigAndMetrics(Config{
		Workers:   workers,
		QueueSize: queueSize,
	}, name, config)
}

// NewWithConfigAndMetrics creates a worker pool with custom config and metrics.
func NewWithConfigAndMetrics(config Config, name string, metricsConfig metrics.Config) (Pool, error) {
	registry := metrics.DefaultRegistry
	if metricsConfig.Registry != nil {
		registry = metrics.NewRegistry(metricsConfig.Registry)
	}

	mp := &MetricsPool{
		name:     name,
		registry: registry,
		enabled:  metricsConfig.Enabled,
	}

	// Observe job outcomes through the base pool's hook so panics and
	// errors are counted uniformly.
	userDone := config.OnJobDone
	config.OnJobDone = func(workerID int, job Job, err error, elapsed time.Duration) {
		mp.observe(err, elapsed)
		if userDone != nil {
			userDone(workerID, job, err, elapsed)
		}
	}

	basePool, err := NewWithConfig(config)
	if err != nil {
		return nil, err
	}
	mp.pool = basePool

	if !metricsConfig.Enabled {
		return basePool, nil
	}

	mp.updateGauges()
	return mp, nil
}

func (mp *MetricsPool) observe(err error, elapsed time.Duration) {
	if !mp.enabled {
		return
	}
	mp.registry.JobDuration.WithLabelValues(mp.name).Observe(elapsed.Seconds())
	if err != nil {
		mp.registry.JobsFailed.WithLabelValues(mp.name).Inc()
	} else {
		mp.registry.JobsCompleted.WithLabelValues(mp.name).Inc()
	}
	mp.updateGauges()
}

// updateGauges refreshes the current state gauges.
func (mp *MetricsPool) updateGauges() {
	if !mp.enabled {
		return
	}
	mp.registry.PoolSize.WithLabelValues(mp.name).Set(float64(mp.pool.Size()))
	mp.registry.PoolActive.WithLabelValues(mp.name).Set(float64(mp.pool.ActiveWorkers()))
	mp.registry.PoolQueued.WithLabelValues(mp.name).Set(float64(mp.pool.QueueDepth()))
}

// Submit adds a job to the pool for execution.
func (mp *MetricsPool) Submit(job Job) error {
	return mp.SubmitWithContext(context.Background(), job)
}

// SubmitWithContext adds a job to the pool, honoring ctx while queuing.
func (mp *MetricsPool) SubmitWithContext(ctx context.Context, job Job) error {
	err := mp.pool.SubmitWithContext(ctx, job)
	if err == nil && mp.enabled {
		mp.registry.JobsSubmitted.WithLabelValues(mp.name).Inc()
		mp.updateGauges()
	}
	return err
}

// TrySubmit adds a job without blocking on a full queue.
func (mp *MetricsPool) TrySubmit(job Job) error {
	err := mp.pool.TrySubmit(job)
	if err == nil && mp.enabled {
		mp.registry.JobsSubmitted.WithLabelValues(mp.name).Inc()
		mp.updateGauges()
	}
	return err
}

// Shutdown initiates graceful shutdown of the wrapped pool.
func (mp *MetricsPool) Shutdown() <-chan struct{} {
	return mp.pool.Shutdown()
}

// Size returns the number of workers in the pool.
func (mp *MetricsPool) Size() int {
	return mp.pool.Size()
}

// QueueDepth returns the current number of queued jobs.
func (mp *MetricsPool) QueueDepth() int {
	depth := mp.pool.QueueDepth()
	if mp.enabled {
		mp.registry.PoolQueued.WithLabelValues(mp.name).Set(float64(depth))
	}
	return depth
}

// ActiveWorkers returns the number of workers currently executing jobs.
func (mp *MetricsPool) ActiveWorkers() int {
	active := mp.pool.ActiveWorkers()
	if mp.enabled {
		mp.registry.PoolActive.WithLabelValues(mp.name).Set(float64(active))
	}
	return active
}

// Stats returns a snapshot of pool counters.
func (mp *MetricsPool) Stats() Stats {
	return mp.pool.Stats()
}

// EnableMetrics enables metrics collection.
func (mp *MetricsPool) EnableMetrics(config metrics.Config) error {
	mp.enabled = config.Enabled
	if config.Registry != nil {
		mp.registry = metrics.NewRegistry(config.Registry)
	}
	if mp.enabled {
		mp.updateGauges()
	}
	return nil
}

// DisableMetrics disables metrics collection.
func (mp *MetricsPool) DisableMetrics() {
	mp.enabled = false
}

// MetricsEnabled returns true if metrics are currently enabled.
func (mp *MetricsPool) MetricsEnabled() bool {
	return mp.enabled
}
