package domain

import (
	"encoding/json"
	"sort"
)

// Step is a single numbered sub-unit of a test case
type Step struct {
	Description string    `json:"description"`
	State       StepState `json:"state"`
}

// UnmarshalJSON also accepts the "descrpition" key older run logs wrote.
func (s *Step) UnmarshalJSON(data []byte) error {
	var raw struct {
		Description       *string   `json:"description"`
		LegacyDescription string    `json:"descrpition"`
		State             StepState `json:"state"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.State = raw.State
	s.Description = raw.LegacyDescription
	if raw.Description != nil {
		s.Description = *raw.Description
	}
	return nil
}

// Metadata groups the triage information of a record
type Metadata struct {
	RunID    string   `json:"run_id"`
	Severity string   `json:"severity"`
	Owner    string   `json:"owner"`
	Env      []string `json:"env"`
}

// Record is the serialized form of one test case, one per log line.
type Record struct {
	TestID      string       `json:"test_id"`
	Description string       `json:"description"`
	Metadata    Metadata     `json:"metadata"`
	Steps       map[int]Step `json:"steps"`
	Status      TestState    `json:"status"`
	Error       *TestError   `json:"error,omitempty"`
}

// ParseRecord decodes one compact JSON record.
func ParseRecord(data string) (*Record, error) {
	var rec Record
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, err
	}
	if rec.Steps == nil {
		rec.Steps = map[int]Step{}
	}
	return &rec, nil
}

// StepNumbers returns the record's step numbers in ascending order.
func (r *Record) StepNumbers() []int {
	numbers := make([]int, 0, len(r.Steps))
	for n := range r.Steps {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)
	return numbers
}

// Failed reports whether the record carries a failure with details.
func (r *Record) Failed() bool {
	return r.Status.IsFail() && r.Error != nil
}

// Environment describes where a run executes, e.g. browser "chrome" on "Local".
type Environment struct {
	Browser  string
	Locality string
}

// Locality tags
const (
	LocalityLocal  = "Local"
	LocalityDocker = "Docker"
)

// NewEnvironment builds the environment tag for a browser and execution mode.
func NewEnvironment(browser string, remote bool) Environment {
	if remote {
		return Environment{Browser: browser, Locality: LocalityDocker}
	}
	return Environment{Browser: browser, Locality: LocalityLocal}
}

// Tags returns the environment as the ordered tag list used in records.
func (e Environment) Tags() []string {
	return []string{e.Browser, e.Locality}
}

func (e Environment) String() string {
	return e.Browser + "/" + e.Locality
}
