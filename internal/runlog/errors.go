package runlog

import "errors"

// Usage errors. They indicate a bug in the calling test code and are never
// retried.
var (
	ErrStepNotFound      = errors.New("step was never started")
	ErrTestCaseNotFound  = errors.New("test case is not registered")
	ErrDuplicateTestCase = errors.New("test case is already registered")
	ErrUnknownLogLevel   = errors.New("unknown log level")
)
