package discovery

import (
	"path/filepath"
	"regexp"
	"strings"

	"shoptest/internal/domain"
)

// Filter filters suite tests by name pattern
type Filter struct{}

// NewFilter creates a new Filter
func NewFilter() *Filter {
	return &Filter{}
}

// Match reports whether name matches pattern.
// Supports wildcard patterns like "*Cart*" or "TestLogin?", and plain
// substrings like "Click".
func (f *Filter) Match(name, pattern string) bool {
	if pattern == "" {
		return true
	}

	if matched, err := filepath.Match(pattern, name); err == nil && matched {
		return true
	}

	if strings.Contains(pattern, "*") {
		// Every non-empty fragment must appear, in order
		rest := name
		hasPart := false
		for _, part := range strings.Split(pattern, "*") {
			if part == "" {
				continue
			}
			hasPart = true
			idx := strings.Index(rest, part)
			if idx < 0 {
				return false
			}
			rest = rest[idx+len(part):]
		}
		return hasPart
	}

	if !strings.Contains(pattern, "?") {
		return strings.Contains(name, pattern)
	}
	return false
}

// FilterByName keeps the tests whose function name matches pattern
func (f *Filter) FilterByName(tests []domain.SuiteTest, pattern string) []domain.SuiteTest {
	if pattern == "" {
		return tests
	}

	var filtered []domain.SuiteTest
	for _, test := range tests {
		if f.Match(test.Name, pattern) {
			filtered = append(filtered, test)
		}
	}
	return filtered
}

// RunPattern builds the go test -run expression selecting exactly tests.
// An empty selection yields "", which runs everything.
func RunPattern(tests []domain.SuiteTest) string {
	if len(tests) == 0 {
		return ""
	}
	seen := make(map[string]bool)
	var names []string
	for _, t := range tests {
		if seen[t.Name] {
			continue
		}
		seen[t.Name] = true
		names = append(names, regexp.QuoteMeta(t.Name))
	}
	return "^(" + strings.Join(names, "|") + ")$"
}
