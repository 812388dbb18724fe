package domain

import "time"

// WorkerResult is the outcome of running one job
type WorkerResult struct {
	Job        string        // Job ID, e.g. chrome-1
	Browser    string        // Browser the worker drove
	Passed     int           // Leaf tests go test reported as passed
	Failed     int           // Leaf tests go test reported as failed
	ReportsDir string        // Reports directory owned by the worker
	Success    bool          // Whether go test exited cleanly
	Output     string        // Raw go test output
	Error      error         // Error if execution failed
	Duration   time.Duration // Time taken to execute
}

// StoredRecord is a record as kept in the results file
type StoredRecord struct {
	Record
	Level    string `json:"log_level"`
	Browser  string `json:"browser"`
	Resolved bool   `json:"resolved,omitempty"` // marked as resolved in the faills viewer
}

// TestResultsMeta contains metadata about a run
type TestResultsMeta struct {
	RunIDs          []string `json:"run_ids"`
	Browsers        []string `json:"browsers"`
	TotalTestCases  int      `json:"total_test_cases"`
	PassedTestCases int      `json:"passed_test_cases"`
	FailedTestCases int      `json:"failed_test_cases"`
	OtherTestCases  int      `json:"other_test_cases"`
	Duration        string   `json:"duration"`
	DurationSeconds float64  `json:"duration_seconds"`
	Workers         int      `json:"workers"`
	Timestamp       string   `json:"timestamp"`
}

// TestResultsOutput is the complete output structure for a run
type TestResultsOutput struct {
	Meta    TestResultsMeta `json:"meta"`
	Details []StoredRecord  `json:"details"`
}

// Failures returns the indexes of failed records in Details.
func (o *TestResultsOutput) Failures() []int {
	var idx []int
	for i, rec := range o.Details {
		if rec.Status.IsFail() {
			idx = append(idx, i)
		}
	}
	return idx
}
