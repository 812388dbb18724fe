// Package harness adapts testing.TB so the first failure of a test can be
// attached to its run log record, and reruns flaky test bodies.
package harness

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/pkg/errors"

	"shoptest/internal/domain"
	"shoptest/internal/runlog"
)

// Recorder wraps a testing.TB and remembers the first failure reported
// through it, together with the stack of the failing call. Pass it to
// testify's assert and require in place of t.
type Recorder struct {
	testing.TB

	mu      sync.Mutex
	failure error
}

// NewRecorder wraps tb.
func NewRecorder(tb testing.TB) *Recorder {
	return &Recorder{TB: tb}
}

// Error records the failure and reports it to the wrapped TB.
func (r *Recorder) Error(args ...any) {
	r.TB.Helper()
	r.record(errors.New(strings.TrimSpace(fmt.Sprintln(args...))))
	r.TB.Error(args...)
}

// Errorf records the failure and reports it to the wrapped TB.
func (r *Recorder) Errorf(format string, args ...any) {
	r.TB.Helper()
	r.record(errors.Errorf(format, args...))
	r.TB.Errorf(format, args...)
}

func (r *Recorder) Fatal(args ...any) {
	r.TB.Helper()
	r.record(errors.New(strings.TrimSpace(fmt.Sprintln(args...))))
	r.TB.Fatal(args...)
}

func (r *Recorder) Fatalf(format string, args ...any) {
	r.TB.Helper()
	r.record(errors.Errorf(format, args...))
	r.TB.Fatalf(format, args...)
}

func (r *Recorder) Fail() {
	r.TB.Helper()
	r.record(errors.New("test failed"))
	r.TB.Fail()
}

func (r *Recorder) FailNow() {
	r.TB.Helper()
	r.record(errors.New("test failed"))
	r.TB.FailNow()
}

// Recover turns a panic of the test body into a recorded failure, so the
// panic value reaches the run log and the remaining tests still run. It must
// be deferred directly:
//
//	defer rec.Recover()
func (r *Recorder) Recover() {
	v := recover()
	if v == nil {
		return
	}
	r.TB.Helper()
	err := errors.Errorf("panic: %v", v)
	r.record(err)
	r.TB.Error(err.Error())
}

// Failed reports whether the test failed, through the recorder or directly.
func (r *Recorder) Failed() bool {
	r.mu.Lock()
	recorded := r.failure != nil
	r.mu.Unlock()
	return recorded || r.TB.Failed()
}

// Failure returns the first recorded failure as a report for
// runlog.TestCase.AddError, or nil if nothing was recorded.
func (r *Recorder) Failure() domain.FailureReport {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failure == nil {
		return nil
	}
	return runlog.FailureFromError(r.failure)
}

// record keeps err if it is the first failure.
func (r *Recorder) record(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failure == nil {
		r.failure = err
	}
}

// forward reports a failure captured elsewhere, keeping its original stack.
func (r *Recorder) forward(err error) {
	r.TB.Helper()
	r.record(err)
	r.TB.Error(err.Error())
}
