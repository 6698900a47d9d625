package metrics_test

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vnykmshr/taskpool/pkg/metrics"
)

// Example demonstrates recording pool activity into a private registry.
func Example() {
	reg := prometheus.NewRegistry()
	r := metrics.NewRegistry(reg)

	r.JobsSubmitted.WithLabelValues("crawler").Add(10)
	r.JobsCompleted.WithLabelValues("crawler").Add(9)
	r.JobsFailed.WithLabelValues("crawler").Inc()
	r.PoolSize.WithLabelValues("crawler").Set(4)

	families, err := reg.Gather()
	if err != nil {
		fmt.Println("gather:", err)
		return
	}
	fmt.Printf("registered %d metric families\n", len(families))

	// Output: registered 4 metric families
}
