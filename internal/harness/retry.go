package harness

import (
	"fmt"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
)

// Attempt is the testing.TB handed to one run of a retried test body.
// Failures are buffered and only reach the test when the last attempt fails.
// FailNow and Skip end the attempt, not the test.
type Attempt struct {
	testing.TB

	number int
	final  bool

	mu       sync.Mutex
	failures []error
	fatal    bool
	skipped  bool
	skipMsg  string
	cleanups []func()
}

// Number is the 1-based attempt counter.
func (a *Attempt) Number() int { return a.number }

// Final reports whether this is the last allowed attempt.
func (a *Attempt) Final() bool { return a.final }

func (a *Attempt) fail(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.failures = append(a.failures, err)
}

func (a *Attempt) Error(args ...any) {
	a.fail(errors.New(strings.TrimSpace(fmt.Sprintln(args...))))
}

func (a *Attempt) Errorf(format string, args ...any) {
	a.fail(errors.Errorf(format, args...))
}

func (a *Attempt) Fatal(args ...any) {
	a.Error(args...)
	a.FailNow()
}

func (a *Attempt) Fatalf(format string, args ...any) {
	a.Errorf(format, args...)
	a.FailNow()
}

func (a *Attempt) Fail() {
	a.fail(errors.New("test failed"))
}

func (a *Attempt) FailNow() {
	a.mu.Lock()
	a.fatal = true
	if len(a.failures) == 0 {
		a.failures = append(a.failures, errors.New("test failed"))
	}
	a.mu.Unlock()
	runtime.Goexit()
}

// Failed reports whether this attempt has failed so far.
func (a *Attempt) Failed() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.failures) > 0
}

func (a *Attempt) Skip(args ...any) {
	a.skip(strings.TrimSpace(fmt.Sprintln(args...)))
}

func (a *Attempt) Skipf(format string, args ...any) {
	a.skip(fmt.Sprintf(format, args...))
}

func (a *Attempt) SkipNow() {
	a.skip("")
}

func (a *Attempt) skip(msg string) {
	a.mu.Lock()
	a.skipped = true
	a.skipMsg = msg
	a.mu.Unlock()
	runtime.Goexit()
}

func (a *Attempt) Skipped() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.skipped
}

// Cleanup registers fn to run when this attempt ends.
func (a *Attempt) Cleanup(fn func()) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cleanups = append(a.cleanups, fn)
}

// run executes fn on its own goroutine so FailNow and Skip can stop it.
func (a *Attempt) run(fn func(a *Attempt)) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer func() {
			if r := recover(); r != nil {
				a.fail(errors.Errorf("panic: %v", r))
			}
		}()
		fn(a)
	}()
	<-done

	for i := len(a.cleanups) - 1; i >= 0; i-- {
		a.cleanups[i]()
	}
}

// Retry runs fn up to attempts times, sleeping delay between attempts, and
// stops at the first attempt that does not fail. Only the failures of the
// last attempt are reported to rec; earlier ones are logged. A skip in any
// attempt skips the test. Retry returns the number of attempts made.
func Retry(rec *Recorder, attempts int, delay time.Duration, fn func(a *Attempt)) int {
	rec.Helper()
	if attempts < 1 {
		attempts = 1
	}

	for i := 1; i <= attempts; i++ {
		a := &Attempt{TB: rec, number: i, final: i == attempts}
		a.run(fn)

		if a.skipped {
			rec.Skip(a.skipMsg)
		}
		if len(a.failures) == 0 {
			return i
		}
		if a.final {
			for _, err := range a.failures {
				rec.forward(err)
			}
			if a.fatal {
				rec.TB.FailNow()
			}
			return i
		}

		rec.Logf("attempt %d/%d failed, rerunning in %s: %v", i, attempts, delay, a.failures[0])
		time.Sleep(delay)
	}
	return attempts
}
