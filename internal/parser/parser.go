package parser

import "shoptest/internal/domain"

// Parser extracts test outcomes from a worker's go test output
type Parser interface {
	ParseTestCounts(result domain.WorkerResult) (passed, failed int)
	ParseFailures(result domain.WorkerResult) []Failure
}
