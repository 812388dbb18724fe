package domain

// FailureReport is what the test framework hands over for a failed test:
// the crash message and the formatted traceback lines.
type FailureReport interface {
	CrashMessage() string
	TracebackLines() []string
}

// TestError is the error attached to a failed record
type TestError struct {
	Message    string   `json:"message"`
	Stacktrace []string `json:"stacktrace"`
}

// CrashMessage implements FailureReport.
func (e *TestError) CrashMessage() string {
	return e.Message
}

// TracebackLines implements FailureReport.
func (e *TestError) TracebackLines() []string {
	return e.Stacktrace
}
