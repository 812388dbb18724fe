package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Scanner lists the test files of the suite package. Only the package
// directory itself is read: go test ./e2e does not compile subdirectories.
type Scanner struct {
	ignore []string
}

// NewScanner creates a Scanner that leaves out files whose base name
// matches one of the glob patterns.
func NewScanner(ignorePatterns []string) *Scanner {
	return &Scanner{ignore: ignorePatterns}
}

// Scan returns the _test.go files in dir, sorted.
func (s *Scanner) Scan(dir string) ([]string, error) {
	dir = filepath.Clean(dir)
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("test path does not exist: %s", dir)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("test path is not a directory: %s", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read test path: %w", err)
	}

	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, "_test.go") {
			continue
		}
		// the go tool ignores these too
		if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
			continue
		}
		if s.ignored(name) {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	sort.Strings(files)
	return files, nil
}

func (s *Scanner) ignored(name string) bool {
	for _, pattern := range s.ignore {
		if ok, err := filepath.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}
