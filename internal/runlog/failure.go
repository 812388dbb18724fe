package runlog

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"shoptest/internal/domain"
)

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// Frames from these packages are plumbing, not part of the failing test.
var skippedFramePrefixes = []string{
	"runtime.",
	"testing.",
	"github.com/stretchr/testify/",
	"github.com/pkg/errors.",
	"shoptest/internal/harness.",
	"shoptest/internal/runlog.",
}

// FailureFromError converts err into a failure report. If err (or an error it
// wraps) carries a pkg/errors stack, the frames become the traceback lines.
func FailureFromError(err error) domain.FailureReport {
	if err == nil {
		return &domain.TestError{Stacktrace: []string{}}
	}
	return &domain.TestError{
		Message:    err.Error(),
		Stacktrace: StackLines(err),
	}
}

// FailureFromPanic converts a recovered panic value into a failure report
// with the stack of the recovering goroutine.
func FailureFromPanic(r any) domain.FailureReport {
	msg := fmt.Sprint(r)
	return &domain.TestError{
		Message:    "panic: " + msg,
		Stacktrace: StackLines(errors.New(msg)),
	}
}

// StackLines formats the innermost pkg/errors stack found in err's chain, one
// "function file:line" entry per frame.
func StackLines(err error) []string {
	var st stackTracer
	for e := err; e != nil; e = errors.Unwrap(e) {
		if s, ok := e.(stackTracer); ok {
			st = s
		}
	}
	if st == nil {
		return []string{}
	}

	lines := []string{}
	for _, frame := range st.StackTrace() {
		line := strings.ReplaceAll(fmt.Sprintf("%+v", frame), "\n\t", " ")
		if skipFrame(line) {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func skipFrame(line string) bool {
	for _, prefix := range skippedFramePrefixes {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}
