// Package metrics collects per-run suite metrics and writes them as a
// Prometheus text file next to the run log.
package metrics

import (
	"bytes"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// FileName is the metrics file written under the reports directory.
const FileName = "metrics.prom"

// Collector captures metrics for one go test process.
type Collector struct {
	registry     *prometheus.Registry
	testsTotal   *prometheus.CounterVec
	stepsTotal   *prometheus.CounterVec
	attempts     *prometheus.CounterVec
	testDuration *prometheus.HistogramVec
	runInfo      *prometheus.GaugeVec
}

// NewCollector initializes a new metrics registry.
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()
	c := &Collector{
		registry: registry,
		testsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "shoptest_tests_total", Help: "Total number of test cases by status"},
			[]string{"browser", "status"},
		),
		stepsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "shoptest_steps_total", Help: "Total number of steps by state"},
			[]string{"browser", "state"},
		),
		attempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "shoptest_test_attempts_total", Help: "Attempts made by rerun test bodies"},
			[]string{"test"},
		),
		testDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "shoptest_test_duration_seconds",
				Help:    "Test duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"test", "status"},
		),
		runInfo: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "shoptest_run_info",
				Help: "Run metadata for traceability",
			},
			[]string{"run_id", "browser", "locality"},
		),
	}

	registry.MustRegister(c.testsTotal, c.stepsTotal, c.attempts, c.testDuration, c.runInfo)
	return c
}

// ObserveRun records the identity of the run.
func (c *Collector) ObserveRun(runID, browser, locality string) {
	c.runInfo.WithLabelValues(runID, browser, locality).Set(1)
}

// ObserveTest records a test outcome.
func (c *Collector) ObserveTest(testID, browser, status string, duration time.Duration) {
	c.testsTotal.WithLabelValues(browser, status).Inc()
	c.testDuration.WithLabelValues(testID, status).Observe(duration.Seconds())
}

// ObserveSteps records the final state of a test's steps.
func (c *Collector) ObserveSteps(browser string, states map[string]int) {
	for state, n := range states {
		c.stepsTotal.WithLabelValues(browser, state).Add(float64(n))
	}
}

// ObserveAttempts records how many attempts a rerun test body needed.
func (c *Collector) ObserveAttempts(testID string, n int) {
	c.attempts.WithLabelValues(testID).Add(float64(n))
}

// Write writes all metrics to a Prometheus text file.
func (c *Collector) Write(path string) error {
	metricFamilies, err := c.registry.Gather()
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	enc := expfmt.NewEncoder(&buf, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, family := range metricFamilies {
		if err := enc.Encode(family); err != nil {
			return err
		}
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
