// Package metrics provides Prometheus instrumentation for taskpool components.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all metric instances for taskpool components.
type Registry struct {
	// Worker Pool Metrics
	JobsSubmitted *prometheus.CounterVec
	JobsCompleted *prometheus.CounterVec
	JobsFailed    *prometheus.CounterVec
	JobDuration   *prometheus.HistogramVec
	PoolSize      *prometheus.GaugeVec
	PoolActive    *prometheus.GaugeVec
	PoolQueued    *prometheus.GaugeVec

	// Scheduler Metrics
	ScheduleEntries    *prometheus.GaugeVec
	ScheduleDispatched *prometheus.CounterVec
	ScheduleErrors     *prometheus.CounterVec

	// Queue Metrics
	QueueEnqueued *prometheus.CounterVec
	QueueConsumed *prometheus.CounterVec
	QueueErrors   *prometheus.CounterVec
}

// DefaultRegistry is the default metrics registry used by taskpool components.
var DefaultRegistry *Registry

func init() {
	DefaultRegistry = NewRegistry(prometheus.DefaultRegisterer)
}

// NewRegistry creates a new metrics registry with the given Prometheus registerer.
func NewRegistry(reg prometheus.Registerer) *Registry {
	factory := promauto.With(reg)

	return &Registry{
		JobsSubmitted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "taskpool",
				Subsystem: "pool",
				Name:      "jobs_submitted_total",
				Help:      "Total number of jobs accepted by the pool",
			},
			[]string{"pool_name"},
		),

		JobsCompleted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "taskpool",
				Subsystem: "pool",
				Name:      "jobs_completed_total",
				Help:      "Total number of jobs completed successfully",
			},
			[]string{"pool_name"},
		),

		JobsFailed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "taskpool",
				Subsystem: "pool",
				Name:      "jobs_failed_total",
				Help:      "Total number of jobs that returned an error or panicked",
			},
			[]string{"pool_name"},
		),

		JobDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "taskpool",
				Subsystem: "pool",
				Name:      "job_duration_seconds",
				Help:      "Time spent executing jobs",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"pool_name"},
		),

		PoolSize: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "taskpool",
				Subsystem: "pool",
				Name:      "size",
				Help:      "Worker count of the pool",
			},
			[]string{"pool_name"},
		),

		PoolActive: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "taskpool",
				Subsystem: "pool",
				Name:      "active_workers",
				Help:      "Number of workers currently executing jobs",
			},
			[]string{"pool_name"},
		),

		PoolQueued: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "taskpool",
				Subsystem: "pool",
				Name:      "queued_jobs",
				Help:      "Number of jobs waiting in the pool queue",
			},
			[]string{"pool_name"},
		),

		ScheduleEntries: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "taskpool",
				Subsystem: "schedule",
				Name:      "entries",
				Help:      "Number of registered schedule entries",
			},
			[]string{"scheduler_name"},
		),

		ScheduleDispatched: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "taskpool",
				Subsystem: "schedule",
				Name:      "dispatched_total",
				Help:      "Total number of scheduled jobs dispatched to the pool",
			},
			[]string{"scheduler_name"},
		),

		ScheduleErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "taskpool",
				Subsystem: "schedule",
				Name:      "dispatch_errors_total",
				Help:      "Total number of failed dispatch attempts",
			},
			[]string{"scheduler_name"},
		),

		QueueEnqueued: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "taskpool",
				Subsystem: "queue",
				Name:      "enqueued_total",
				Help:      "Total number of payloads enqueued to Redis",
			},
			[]string{"queue_key"},
		),

		QueueConsumed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "taskpool",
				Subsystem: "queue",
				Name:      "consumed_total",
				Help:      "Total number of payloads consumed from Redis",
			},
			[]string{"queue_key"},
		),

		QueueErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "taskpool",
				Subsystem: "queue",
				Name:      "errors_total",
				Help:      "Total number of Redis queue operation errors",
			},
			[]string{"queue_key"},
		),
	}
}
