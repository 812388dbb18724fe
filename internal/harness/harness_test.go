package harness_test

import (
	"fmt"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shoptest/internal/harness"
)

// fakeTB stands in for *testing.T so failures can be observed without
// failing the surrounding test.
type fakeTB struct {
	testing.TB

	mu      sync.Mutex
	errors  []string
	logs    []string
	failed  bool
	fatal   bool
	skipped bool
}

func (f *fakeTB) Helper()      {}
func (f *fakeTB) Name() string { return "fake" }

func (f *fakeTB) Error(args ...any) { f.Errorf("%s", strings.TrimSpace(fmt.Sprintln(args...))) }

func (f *fakeTB) Errorf(format string, args ...any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errors = append(f.errors, fmt.Sprintf(format, args...))
	f.failed = true
}

func (f *fakeTB) Fatal(args ...any) {
	f.Error(args...)
	f.FailNow()
}

func (f *fakeTB) Fatalf(format string, args ...any) {
	f.Errorf(format, args...)
	f.FailNow()
}

func (f *fakeTB) Fail() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failed = true
}

func (f *fakeTB) FailNow() {
	f.mu.Lock()
	f.failed = true
	f.fatal = true
	f.mu.Unlock()
	runtime.Goexit()
}

func (f *fakeTB) Failed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.failed
}

func (f *fakeTB) Logf(format string, args ...any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logs = append(f.logs, fmt.Sprintf(format, args...))
}

func (f *fakeTB) Skip(args ...any) {
	f.mu.Lock()
	f.skipped = true
	f.mu.Unlock()
	runtime.Goexit()
}

// runTest runs body the way the testing package runs a test function: on its
// own goroutine, which FailNow and Skip may terminate.
func runTest(body func(rec *harness.Recorder)) (*fakeTB, *harness.Recorder) {
	tb := &fakeTB{}
	rec := harness.NewRecorder(tb)
	done := make(chan struct{})
	go func() {
		defer close(done)
		body(rec)
	}()
	<-done
	return tb, rec
}

func TestRecorder_CapturesFirstFailure(t *testing.T) {
	tb, rec := runTest(func(rec *harness.Recorder) {
		assert.Equal(rec, 1, 2, "first")
		assert.True(rec, false, "second")
	})

	assert.True(t, tb.failed)
	assert.False(t, tb.fatal)
	assert.Len(t, tb.errors, 2)
	assert.True(t, rec.Failed())

	report := rec.Failure()
	require.NotNil(t, report)
	assert.Contains(t, report.CrashMessage(), "first")
	assert.NotContains(t, report.CrashMessage(), "second")

	lines := report.TracebackLines()
	require.NotEmpty(t, lines)
	assert.Contains(t, lines[0], "harness_test.go:")
	for _, line := range lines {
		assert.NotContains(t, line, "stretchr/testify")
		assert.False(t, strings.HasPrefix(line, "shoptest/internal/harness.(*Recorder)"), line)
	}
}

func TestRecorder_RequireStopsTest(t *testing.T) {
	reached := false
	tb, rec := runTest(func(rec *harness.Recorder) {
		require.NotNil(rec, nil, "cart badge")
		reached = true
	})

	assert.False(t, reached)
	assert.True(t, tb.fatal)
	require.NotNil(t, rec.Failure())
	assert.Contains(t, rec.Failure().CrashMessage(), "cart badge")
}

func TestRecorder_NoFailure(t *testing.T) {
	tb, rec := runTest(func(rec *harness.Recorder) {
		assert.Equal(rec, "a", "a")
	})
	assert.False(t, tb.failed)
	assert.False(t, rec.Failed())
	assert.Nil(t, rec.Failure())
}

func TestRecorder_FatalfAndFail(t *testing.T) {
	_, rec := runTest(func(rec *harness.Recorder) {
		rec.Fatalf("page %s did not load", "inventory")
	})
	require.NotNil(t, rec.Failure())
	assert.Equal(t, "page inventory did not load", rec.Failure().CrashMessage())

	_, rec = runTest(func(rec *harness.Recorder) { rec.Fail() })
	require.NotNil(t, rec.Failure())
	assert.Equal(t, "test failed", rec.Failure().CrashMessage())
}

func openMissingPage() {
	var pages map[string]int
	pages["inventory"]++
}

func TestRecorder_Recover(t *testing.T) {
	reached := false
	tb, rec := runTest(func(rec *harness.Recorder) {
		defer rec.Recover()
		openMissingPage()
		reached = true
	})

	assert.False(t, reached)
	assert.True(t, tb.failed)
	require.Len(t, tb.errors, 1)
	assert.Contains(t, tb.errors[0], "panic: assignment to entry in nil map")

	report := rec.Failure()
	require.NotNil(t, report)
	assert.Equal(t, "panic: assignment to entry in nil map", report.CrashMessage())
	lines := report.TracebackLines()
	require.NotEmpty(t, lines)
	assert.Contains(t, lines[0], "openMissingPage")
}

func TestRecorder_RecoverWithoutPanic(t *testing.T) {
	tb, rec := runTest(func(rec *harness.Recorder) {
		defer rec.Recover()
		assert.True(rec, true)
	})
	assert.False(t, tb.failed)
	assert.Nil(t, rec.Failure())
}

func TestRetry_PassesFirstTime(t *testing.T) {
	var attempts int
	tb, rec := runTest(func(rec *harness.Recorder) {
		attempts = harness.Retry(rec, 3, 0, func(a *harness.Attempt) {
			assert.True(a, true)
		})
	})
	assert.Equal(t, 1, attempts)
	assert.False(t, tb.failed)
	assert.Nil(t, rec.Failure())
}

func TestRetry_RecoversFromFlake(t *testing.T) {
	calls := 0
	var attempts int
	tb, rec := runTest(func(rec *harness.Recorder) {
		attempts = harness.Retry(rec, 3, time.Millisecond, func(a *harness.Attempt) {
			calls++
			require.Equal(a, 3, calls, "flaky")
		})
	})

	assert.Equal(t, 3, calls)
	assert.Equal(t, 3, attempts)
	assert.False(t, tb.failed)
	assert.Nil(t, rec.Failure())
	assert.Len(t, tb.logs, 2)
	assert.Contains(t, tb.logs[0], "attempt 1/3 failed")
}

func TestRetry_ReportsLastAttempt(t *testing.T) {
	calls := 0
	afterRetry := false
	tb, rec := runTest(func(rec *harness.Recorder) {
		harness.Retry(rec, 2, 0, func(a *harness.Attempt) {
			calls++
			require.Fail(a, fmt.Sprintf("failure %d", calls))
		})
		afterRetry = true
	})

	assert.Equal(t, 2, calls)
	assert.False(t, afterRetry, "a fatal last attempt stops the test")
	assert.True(t, tb.fatal)
	require.Len(t, tb.errors, 1)
	assert.Contains(t, tb.errors[0], "failure 2")

	require.NotNil(t, rec.Failure())
	assert.Contains(t, rec.Failure().CrashMessage(), "failure 2")
	assert.Contains(t, strings.Join(rec.Failure().TracebackLines(), "\n"), "harness_test.go:")
}

func TestRetry_NonFatalFailureContinues(t *testing.T) {
	afterRetry := false
	tb, _ := runTest(func(rec *harness.Recorder) {
		harness.Retry(rec, 1, 0, func(a *harness.Attempt) {
			assert.Equal(a, 1, 2)
		})
		afterRetry = true
	})
	assert.True(t, afterRetry)
	assert.True(t, tb.failed)
	assert.False(t, tb.fatal)
}

func TestRetry_PanicCountsAsFailure(t *testing.T) {
	calls := 0
	tb, rec := runTest(func(rec *harness.Recorder) {
		harness.Retry(rec, 2, 0, func(a *harness.Attempt) {
			calls++
			if calls == 1 {
				panic("stale element")
			}
		})
	})
	assert.Equal(t, 2, calls)
	assert.False(t, tb.failed)
	assert.Nil(t, rec.Failure())
}

func TestRetry_Skip(t *testing.T) {
	calls := 0
	tb, _ := runTest(func(rec *harness.Recorder) {
		harness.Retry(rec, 3, 0, func(a *harness.Attempt) {
			calls++
			a.Skip("not supported on firefox")
		})
	})
	assert.Equal(t, 1, calls)
	assert.True(t, tb.skipped)
	assert.False(t, tb.failed)
}

func TestRetry_CleanupsRunPerAttempt(t *testing.T) {
	var order []string
	runTest(func(rec *harness.Recorder) {
		harness.Retry(rec, 2, 0, func(a *harness.Attempt) {
			n := a.Number()
			a.Cleanup(func() { order = append(order, fmt.Sprintf("close page %d", n)) })
			a.Cleanup(func() { order = append(order, fmt.Sprintf("screenshot %d", n)) })
			if !a.Final() {
				a.FailNow()
			}
		})
	})
	assert.Equal(t, []string{"screenshot 1", "close page 1", "screenshot 2", "close page 2"}, order)
}
