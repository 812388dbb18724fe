package domain

// SuiteTest represents a test function discovered in the UI suite
type SuiteTest struct {
	Name     string // Test function name, e.g. TestLogin
	FilePath string // Path to the _test.go file declaring it
}

// Job is one go test invocation: a shard of the suite run in one browser.
// Jobs never share a reports directory.
type Job struct {
	ID         string
	Browser    string
	Tests      []SuiteTest
	ReportsDir string
}
