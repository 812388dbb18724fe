package domain

import (
	"fmt"
	"strings"
)

// TestState is the terminal status of a test case record
type TestState string

const (
	StateUndefined TestState = "undefined" // not finalized yet
	StateUntested  TestState = "UNTESTED"
	StatePassed    TestState = "PASSED"
	StateFailed    TestState = "FAILED"
	StateBlocked   TestState = "BLOCKED"
	StateRetest    TestState = "RETEST"
)

// Older logs used PASS/FAIL for the terminal state.
const (
	legacyPass TestState = "PASS"
	legacyFail TestState = "FAIL"
)

// Valid reports whether s is one of the known states.
func (s TestState) Valid() bool {
	switch s {
	case StateUndefined, StateUntested, StatePassed, StateFailed, StateBlocked, StateRetest:
		return true
	}
	return false
}

// IsPass reports whether s marks a passing test.
func (s TestState) IsPass() bool {
	return s == StatePassed || s == legacyPass
}

// IsFail reports whether s marks a failing test.
func (s TestState) IsFail() bool {
	return s == StateFailed || s == legacyFail
}

// LogLevel is the severity a record is written to the run log with.
// The zero value is LevelDebug.
type LogLevel int8

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarning
	LevelError
	LevelCritical
)

var levelNames = map[LogLevel]string{
	LevelDebug:    "DEBUG",
	LevelInfo:     "INFO",
	LevelWarning:  "WARNING",
	LevelError:    "ERROR",
	LevelCritical: "CRITICAL",
}

// Valid reports whether l is one of the five known levels.
func (l LogLevel) Valid() bool {
	_, ok := levelNames[l]
	return ok
}

func (l LogLevel) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("LogLevel(%d)", int8(l))
}

// ParseLogLevel maps a level name (case-insensitive) to a LogLevel.
func ParseLogLevel(name string) (LogLevel, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	if upper == "WARN" {
		upper = "WARNING"
	}
	for level, levelName := range levelNames {
		if levelName == upper {
			return level, nil
		}
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", name)
}

// StepState tracks whether a step has completed
type StepState string

const (
	StepStarted  StepState = "started"
	StepFinished StepState = "finished"
)
