package runlog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"shoptest/internal/domain"
)

// LogDirName is the directory under the reports root holding run logs.
const LogDirName = "logs"

// RunIDPrefix prefixes every run identifier.
const RunIDPrefix = "RUN-"

var now = time.Now

// diagnostics receives errors that cannot be returned to the caller
var diagnostics io.Writer = os.Stderr

// Config configures a RunLogger
type Config struct {
	ReportsDir string             // root of the reports tree, e.g. test_reports
	Env        domain.Environment // browser and locality of the run
	MinLevel   domain.LogLevel    // records below this level are not written
}

// RunLogger logs the records of one test run. It owns the log file and a
// registry of open records keyed by test id.
type RunLogger struct {
	runID   string
	env     domain.Environment
	logPath string
	file    *os.File
	sink    *zap.Logger

	mu        sync.Mutex
	testCases map[string]*TestCase
}

// New removes any previous log directory, recreates it and opens a fresh log
// file named after the new run id. An error here means the run cannot be
// logged and should be aborted.
func New(cfg Config) (*RunLogger, error) {
	runID := RunIDPrefix + now().Format(TimestampLayout)

	logDir := filepath.Join(cfg.ReportsDir, LogDirName)
	if err := os.RemoveAll(logDir); err != nil {
		return nil, fmt.Errorf("clean log dir: %w", err)
	}
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	logPath := filepath.Join(logDir, runID+".log")
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	return &RunLogger{
		runID:     runID,
		env:       cfg.Env,
		logPath:   logPath,
		file:      file,
		sink:      newSink(file, cfg.MinLevel),
		testCases: make(map[string]*TestCase),
	}, nil
}

// RunID returns the identifier of this run.
func (l *RunLogger) RunID() string { return l.runID }

// Env returns the environment tag of this run.
func (l *RunLogger) Env() domain.Environment { return l.env }

// LogPath returns the path of the log file.
func (l *RunLogger) LogPath() string { return l.logPath }

// CreateTestCase creates a record and registers it under testID. Cleanup is
// left to the caller: LogTestCase followed by RemoveTestCase, or use Track.
func (l *RunLogger) CreateTestCase(testID string) (*TestCase, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.testCases[testID]; exists {
		return nil, fmt.Errorf("%s: %w", testID, ErrDuplicateTestCase)
	}
	tc := newTestCase(l.runID, l.env, testID, now())
	l.testCases[testID] = tc
	return tc, nil
}

// LookupTestCase returns the open record registered under testID.
func (l *RunLogger) LookupTestCase(testID string) (*TestCase, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	tc, ok := l.testCases[testID]
	return tc, ok
}

// OpenTestCases returns the ids of all registered records, sorted.
func (l *RunLogger) OpenTestCases() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	ids := make([]string, 0, len(l.testCases))
	for id := range l.testCases {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// LogTestCase writes the compact JSON of tc to the log file at tc's log
// level. It does not touch the registry.
func (l *RunLogger) LogTestCase(tc *TestCase) error {
	level, ok := toZapLevel(tc.LogLevel())
	if !ok {
		return fmt.Errorf("%s: %v: %w", tc.TestID(), tc.LogLevel(), ErrUnknownLogLevel)
	}
	data, err := tc.JSON(0, false)
	if err != nil {
		return err
	}
	if ce := l.sink.Check(level, data); ce != nil {
		ce.Write()
	}
	return nil
}

// LogTestCases logs every registered record.
func (l *RunLogger) LogTestCases() error {
	for _, id := range l.OpenTestCases() {
		tc, ok := l.LookupTestCase(id)
		if !ok {
			continue
		}
		if err := l.LogTestCase(tc); err != nil {
			return err
		}
	}
	return nil
}

// RemoveTestCase unregisters tc. Removing a record twice is an error.
func (l *RunLogger) RemoveTestCase(tc *TestCase) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	registered, ok := l.testCases[tc.TestID()]
	if !ok || registered != tc {
		return fmt.Errorf("%s: %w", tc.TestID(), ErrTestCaseNotFound)
	}
	delete(l.testCases, tc.TestID())
	return nil
}

// Finish logs tc and removes it from the registry.
func (l *RunLogger) Finish(tc *TestCase) error {
	if err := l.LogTestCase(tc); err != nil {
		return err
	}
	return l.RemoveTestCase(tc)
}

// Track runs fn with a freshly registered record and finishes the record on
// every exit path. A nil return marks the record PASSED unless fn already set
// a status; an error or a panic is attached with AddError. Panics are
// re-raised after the record is logged.
func (l *RunLogger) Track(testID string, fn func(tc *TestCase) error) error {
	tc, err := l.CreateTestCase(testID)
	if err != nil {
		return err
	}

	completed := false
	defer func() {
		if completed {
			return
		}
		r := recover()
		if r != nil {
			tc.AddError(FailureFromPanic(r))
		} else {
			// runtime.Goexit, e.g. t.FailNow inside fn
			tc.AddError(&domain.TestError{Message: "test exited before completion"})
		}
		if err := l.Finish(tc); err != nil {
			fmt.Fprintf(diagnostics, "runlog: finish %s: %v\n", testID, err)
		}
		if r != nil {
			panic(r)
		}
	}()

	fnErr := fn(tc)
	completed = true

	if fnErr != nil {
		tc.AddError(FailureFromError(fnErr))
	} else if tc.Status() == domain.StateUndefined {
		tc.SetStatus(domain.StatePassed)
	}
	if err := l.Finish(tc); err != nil {
		return err
	}
	return fnErr
}

// Close flushes and closes the log file. Records still registered at this
// point were never finished and are reported as an error.
func (l *RunLogger) Close() error {
	_ = l.sink.Sync()
	if err := l.file.Close(); err != nil {
		return fmt.Errorf("close log file: %w", err)
	}
	if open := l.OpenTestCases(); len(open) > 0 {
		return fmt.Errorf("run %s closed with unfinished test cases: %s", l.runID, strings.Join(open, ", "))
	}
	return nil
}
