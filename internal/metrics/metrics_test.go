package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Write(t *testing.T) {
	c := NewCollector()
	c.ObserveRun("RUN-20250101_120000", "chrome", "Local")
	c.ObserveTest("test_login[standard_user]", "chrome", "PASSED", 1500*time.Millisecond)
	c.ObserveTest("test_cart_count", "chrome", "FAILED", 3*time.Second)
	c.ObserveSteps("chrome", map[string]int{"finished": 3, "started": 1})
	c.ObserveAttempts("test_cart_count", 3)

	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, c.Write(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)

	assert.Contains(t, out, "# TYPE shoptest_tests_total counter")
	assert.Contains(t, out, `shoptest_tests_total{browser="chrome",status="PASSED"} 1`)
	assert.Contains(t, out, `shoptest_tests_total{browser="chrome",status="FAILED"} 1`)
	assert.Contains(t, out, `shoptest_steps_total{browser="chrome",state="finished"} 3`)
	assert.Contains(t, out, `shoptest_test_attempts_total{test="test_cart_count"} 3`)
	assert.Contains(t, out, `shoptest_run_info{browser="chrome",locality="Local",run_id="RUN-20250101_120000"} 1`)
	assert.Contains(t, out, `shoptest_test_duration_seconds_count{status="FAILED",test="test_cart_count"} 1`)
}

func TestCollector_WriteBadPath(t *testing.T) {
	c := NewCollector()
	err := c.Write(filepath.Join(t.TempDir(), "missing", FileName))
	assert.Error(t, err)
}
