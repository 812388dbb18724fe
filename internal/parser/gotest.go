package parser

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"shoptest/internal/domain"
)

// Outcome is one "--- PASS/FAIL/SKIP" line of go test -v output
type Outcome struct {
	Name    string // Full test name, subtests joined with "/"
	Status  string // PASS, FAIL or SKIP
	Elapsed time.Duration
}

// Failure is a failed leaf test with the output go test printed for it
type Failure struct {
	Name  string
	Lines []string
}

// tailLines is how much output is kept for a run that produced no results
const tailLines = 20

var (
	outcomePattern = regexp.MustCompile(`^(\s*)--- (PASS|FAIL|SKIP): (\S+) \(([\d.]+)s\)`)
	namePattern    = regexp.MustCompile(`^=== (?:RUN|NAME|CONT|PAUSE)\s+(\S+)`)
)

// GoTestParser parses go test -v output
type GoTestParser struct{}

// NewGoTestParser creates a new GoTestParser
func NewGoTestParser() *GoTestParser {
	return &GoTestParser{}
}

// ParseLine parses a single result line.
func (p *GoTestParser) ParseLine(line string) (Outcome, bool) {
	m := outcomePattern.FindStringSubmatch(line)
	if m == nil {
		return Outcome{}, false
	}
	secs, _ := time.ParseDuration(m[4] + "s")
	return Outcome{Name: m[3], Status: m[2], Elapsed: secs}, true
}

// ParseOutcomes returns every result line of output, in order.
func (p *GoTestParser) ParseOutcomes(output string) []Outcome {
	var outcomes []Outcome
	for _, line := range strings.Split(output, "\n") {
		if o, ok := p.ParseLine(line); ok {
			outcomes = append(outcomes, o)
		}
	}
	return outcomes
}

// Leaves drops outcomes of tests that have subtests; data-driven cases
// are counted once, not once more for their parent.
func Leaves(outcomes []Outcome) []Outcome {
	names := make([]string, len(outcomes))
	for i, o := range outcomes {
		names[i] = o.Name
	}
	sort.Strings(names)

	isParent := make(map[string]bool)
	for i := 0; i+1 < len(names); i++ {
		if strings.HasPrefix(names[i+1], names[i]+"/") {
			isParent[names[i]] = true
		}
	}

	var leaves []Outcome
	for _, o := range outcomes {
		if !isParent[o.Name] {
			leaves = append(leaves, o)
		}
	}
	return leaves
}

// ParseTestCounts counts passed and failed leaf tests. A run that failed
// without reporting any test (a build error, a crash in TestMain) counts as
// one failure.
func (p *GoTestParser) ParseTestCounts(result domain.WorkerResult) (passed, failed int) {
	outcomes := Leaves(p.ParseOutcomes(result.Output))
	for _, o := range outcomes {
		switch o.Status {
		case "PASS":
			passed++
		case "FAIL":
			failed++
		}
	}
	if passed == 0 && failed == 0 && !result.Success {
		return 0, 1
	}
	return passed, failed
}

// ParseFailures returns the failed leaf tests with their logged output.
func (p *GoTestParser) ParseFailures(result domain.WorkerResult) []Failure {
	lines := strings.Split(strings.TrimRight(result.Output, "\n"), "\n")

	failed := make(map[string]bool)
	for _, o := range Leaves(p.ParseOutcomes(result.Output)) {
		if o.Status == "FAIL" {
			failed[o.Name] = true
		}
	}

	if len(failed) == 0 {
		if result.Success {
			return nil
		}
		start := len(lines) - tailLines
		if start < 0 {
			start = 0
		}
		return []Failure{{Name: result.Job, Lines: lines[start:]}}
	}

	byName := make(map[string][]string)
	var order []string
	current := ""
	for _, line := range lines {
		if m := namePattern.FindStringSubmatch(line); m != nil {
			current = m[1]
			continue
		}
		if m := outcomePattern.FindStringSubmatch(line); m != nil {
			current = m[3]
			continue
		}
		if isSummaryLine(line) {
			current = ""
			continue
		}
		if current == "" || !failed[current] || strings.TrimSpace(line) == "" {
			continue
		}
		if _, seen := byName[current]; !seen {
			order = append(order, current)
		}
		byName[current] = append(byName[current], strings.TrimSpace(line))
	}

	var failures []Failure
	for _, name := range order {
		failures = append(failures, Failure{Name: name, Lines: byName[name]})
	}
	// failed tests that logged nothing still get reported
	for _, o := range Leaves(p.ParseOutcomes(result.Output)) {
		if o.Status == "FAIL" {
			if _, ok := byName[o.Name]; !ok {
				failures = append(failures, Failure{Name: o.Name})
				byName[o.Name] = nil
			}
		}
	}
	return failures
}

// isSummaryLine matches the package verdict go test prints after the tests.
func isSummaryLine(line string) bool {
	return line == "PASS" || line == "FAIL" ||
		strings.HasPrefix(line, "ok  ") || strings.HasPrefix(line, "FAIL\t")
}
