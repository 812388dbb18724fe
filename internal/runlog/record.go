package runlog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"shoptest/internal/domain"
)

// Defaults for a freshly created record.
const (
	DefaultDescription = "undefined"
	DefaultSeverity    = "Medium"
	DefaultOwner       = "undefined"
	DefaultGroup       = "undefined"
)

// TimestampLayout is the layout of run ids and screenshot suffixes.
const TimestampLayout = "20060102_150405"

// TestCase accumulates the account of one test's execution. It is owned by
// the test that created it and referenced by the RunLogger until removed.
type TestCase struct {
	runID     string
	env       domain.Environment
	timestamp string
	testID    string

	description string
	severity    string
	owner       string
	group       string

	steps    map[int]domain.Step
	err      *domain.TestError
	status   domain.TestState
	logLevel domain.LogLevel
}

func newTestCase(runID string, env domain.Environment, testID string, now time.Time) *TestCase {
	return &TestCase{
		runID:       runID,
		env:         env,
		timestamp:   now.Format(TimestampLayout),
		testID:      testID,
		description: DefaultDescription,
		severity:    DefaultSeverity,
		owner:       DefaultOwner,
		group:       DefaultGroup,
		steps:       make(map[int]domain.Step),
		status:      domain.StateUndefined,
		logLevel:    domain.LevelInfo,
	}
}

// SetDescription sets the description of this test case.
func (tc *TestCase) SetDescription(desc string) { tc.description = desc }

// SetSeverity sets the triage severity, usually "Low", "Medium" or "High".
func (tc *TestCase) SetSeverity(severity string) { tc.severity = severity }

// SetOwner sets the owner of this test case.
func (tc *TestCase) SetOwner(owner string) { tc.owner = owner }

// SetGroup sets the suite or group the test belongs to.
func (tc *TestCase) SetGroup(group string) { tc.group = group }

// SetStatus sets the terminal status. Failures should go through AddError.
func (tc *TestCase) SetStatus(status domain.TestState) { tc.status = status }

// SetLogLevel overrides the level the record is logged with.
func (tc *TestCase) SetLogLevel(level domain.LogLevel) { tc.logLevel = level }

// StartStep records step number as started, overwriting any earlier step
// with the same number.
func (tc *TestCase) StartStep(number int, desc string) {
	tc.steps[number] = domain.Step{Description: desc, State: domain.StepStarted}
}

// MarkStepFinished marks a started step as finished.
func (tc *TestCase) MarkStepFinished(number int) error {
	step, ok := tc.steps[number]
	if !ok {
		return fmt.Errorf("%s: step %d: %w", tc.testID, number, ErrStepNotFound)
	}
	step.State = domain.StepFinished
	tc.steps[number] = step
	return nil
}

// AddError attaches the failure of the test. It always sets the status to
// FAILED and the log level to ERROR.
func (tc *TestCase) AddError(report domain.FailureReport) {
	testErr := &domain.TestError{Stacktrace: []string{}}
	if report != nil {
		testErr.Message = report.CrashMessage()
		if lines := report.TracebackLines(); lines != nil {
			testErr.Stacktrace = append(testErr.Stacktrace, lines...)
		}
	}
	tc.err = testErr
	tc.status = domain.StateFailed
	tc.logLevel = domain.LevelError
}

// TestID returns the identifier the record is registered under.
func (tc *TestCase) TestID() string { return tc.testID }

func (tc *TestCase) RunID() string { return tc.runID }

func (tc *TestCase) Env() domain.Environment { return tc.env }

// Timestamp is the creation time in TimestampLayout.
func (tc *TestCase) Timestamp() string { return tc.timestamp }

func (tc *TestCase) Description() string { return tc.description }

func (tc *TestCase) Severity() string { return tc.severity }

func (tc *TestCase) Owner() string { return tc.owner }

func (tc *TestCase) Group() string { return tc.group }

func (tc *TestCase) Status() domain.TestState { return tc.status }

func (tc *TestCase) LogLevel() domain.LogLevel { return tc.logLevel }

// Failure returns the attached error, or nil if AddError was never called.
func (tc *TestCase) Failure() *domain.TestError { return tc.err }

// Step returns the step registered under number.
func (tc *TestCase) Step(number int) (domain.Step, bool) {
	step, ok := tc.steps[number]
	return step, ok
}

// Record returns a snapshot of the record in its serialized shape.
func (tc *TestCase) Record() domain.Record {
	steps := make(map[int]domain.Step, len(tc.steps))
	for n, s := range tc.steps {
		steps[n] = s
	}
	rec := domain.Record{
		TestID:      tc.testID,
		Description: tc.description,
		Metadata: domain.Metadata{
			RunID:    tc.runID,
			Severity: tc.severity,
			Owner:    tc.owner,
			Env:      tc.env.Tags(),
		},
		Steps:  steps,
		Status: tc.status,
	}
	if tc.err != nil {
		errCopy := *tc.err
		errCopy.Stacktrace = append([]string{}, tc.err.Stacktrace...)
		rec.Error = &errCopy
	}
	return rec
}

// JSON serializes the record. An indent of 0 produces a single line; with
// asciiOnly every non-ASCII character is written as a \u escape.
func (tc *TestCase) JSON(indent int, asciiOnly bool) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent > 0 {
		enc.SetIndent("", strings.Repeat(" ", indent))
	}
	if err := enc.Encode(tc.Record()); err != nil {
		return "", fmt.Errorf("encode %s: %w", tc.testID, err)
	}
	out := strings.TrimSuffix(buf.String(), "\n")
	if asciiOnly {
		out = escapeNonASCII(out)
	}
	return out, nil
}
