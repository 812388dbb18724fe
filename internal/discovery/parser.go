package discovery

import (
	"fmt"
	"os"
	"regexp"
	"sort"

	"shoptest/internal/domain"
)

// testFuncPattern matches top-level go test functions. TestMain is not a test.
var testFuncPattern = regexp.MustCompile(`(?m)^func\s+(Test[A-Z0-9_]\w*|Test)\s*\(\s*\w+\s+\*testing\.T\s*\)`)

// Parser parses test files to extract test functions
type Parser struct{}

// NewParser creates a new Parser
func NewParser() *Parser {
	return &Parser{}
}

// FindTestCases finds all test functions declared in a test file, sorted by name
func (p *Parser) FindTestCases(filePath string) ([]string, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading file %s: %w", filePath, err)
	}

	seen := make(map[string]bool)
	var testCases []string
	for _, match := range testFuncPattern.FindAllStringSubmatch(string(content), -1) {
		name := match[1]
		if name == "TestMain" || seen[name] {
			continue
		}
		seen[name] = true
		testCases = append(testCases, name)
	}
	sort.Strings(testCases)

	return testCases, nil
}

// FindSuiteTests scans every file and returns the tests they declare,
// ordered by file then name.
func (p *Parser) FindSuiteTests(files []string) ([]domain.SuiteTest, error) {
	sorted := append([]string(nil), files...)
	sort.Strings(sorted)

	var tests []domain.SuiteTest
	for _, file := range sorted {
		names, err := p.FindTestCases(file)
		if err != nil {
			return nil, err
		}
		for _, name := range names {
			tests = append(tests, domain.SuiteTest{Name: name, FilePath: file})
		}
	}
	return tests, nil
}
