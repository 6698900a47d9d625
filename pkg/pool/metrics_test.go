package pool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/vnykmshr/taskpool/internal/testutil"
	tperrors "github.com/vnykmshr/taskpool/pkg/common/errors"
	"github.com/vnykmshr/taskpool/pkg/metrics"
)

func newMetricsPoolForTest(t *testing.T, workers, queueSize int, name string) (Pool, *prometheus.Registry) {
	t.Helper()

	reg := prometheus.NewRegistry()
	p, err := NewWithConfigAndMetrics(Config{
		Workers:   workers,
		QueueSize: queueSize,
	}, name, metrics.Config{
		Enabled:  true,
		Registry: reg,
	})
	testutil.AssertNoError(t, err)
	return p, reg
}

func TestMetricsPoolCounters(t *testing.T) {
	p, reg := newMetricsPoolForTest(t, 2, 10, "counters")

	var executed atomic.Int32
	for i := 0; i < 5; i++ {
		testutil.AssertNoError(t, p.Submit(&TestJob{Executed: &executed}))
	}
	testutil.AssertNoError(t, p.Submit(&TestJob{ShouldErr: true, Executed: &executed}))

	<-p.Shutdown()
	testutil.AssertEqual(t, executed.Load(), int32(6))

	mp := p.(*MetricsPool)
	submitted := promtestutil.ToFloat64(mp.registry.JobsSubmitted.WithLabelValues("counters"))
	completed := promtestutil.ToFloat64(mp.registry.JobsCompleted.WithLabelValues("counters"))
	failed := promtestutil.ToFloat64(mp.registry.JobsFailed.WithLabelValues("counters"))

	testutil.AssertEqual(t, submitted, 6.0)
	testutil.AssertEqual(t, completed, 5.0)
	testutil.AssertEqual(t, failed, 1.0)

	// The gauges must have been registered on the private registry.
	families, err := reg.Gather()
	testutil.AssertNoError(t, err)
	if len(families) == 0 {
		t.Error("no metric families registered")
	}
}

func TestMetricsPoolRejectsBadConfig(t *testing.T) {
	_, err := NewWithMetrics(0, 10, "bad")
	testutil.AssertErrorIs(t, err, tperrors.ErrInvalidConfiguration)
}

func TestMetricsPoolSubmitErrorsNotCounted(t *testing.T) {
	p, _ := newMetricsPoolForTest(t, 1, 1, "rejects")
	<-p.Shutdown()

	err := p.Submit(JobFunc(func(ctx context.Context) error { return nil }))
	if !errors.Is(err, tperrors.ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}

	mp := p.(*MetricsPool)
	submitted := promtestutil.ToFloat64(mp.registry.JobsSubmitted.WithLabelValues("rejects"))
	testutil.AssertEqual(t, submitted, 0.0)
}

func TestMetricsPoolDisable(t *testing.T) {
	p, _ := newMetricsPoolForTest(t, 1, 4, "toggle")
	mp := p.(*MetricsPool)

	testutil.AssertEqual(t, mp.MetricsEnabled(), true)
	mp.DisableMetrics()
	testutil.AssertEqual(t, mp.MetricsEnabled(), false)

	var executed atomic.Int32
	testutil.AssertNoError(t, p.Submit(&TestJob{Executed: &executed}))
	<-p.Shutdown()

	submitted := promtestutil.ToFloat64(mp.registry.JobsSubmitted.WithLabelValues("toggle"))
	testutil.AssertEqual(t, submitted, 0.0)
}
