package runlog

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"shoptest/internal/domain"
)

const lineSeparator = " - "

// Entry is one parsed line of a run log
type Entry struct {
	Level domain.LogLevel
	JSON  string
}

// Record decodes the entry's JSON payload.
func (e Entry) Record() (*domain.Record, error) {
	return domain.ParseRecord(e.JSON)
}

// ParseLine splits a "<LEVEL> - <json>" log line.
func ParseLine(line string) (Entry, error) {
	levelName, payload, ok := strings.Cut(line, lineSeparator)
	if !ok {
		return Entry{}, fmt.Errorf("malformed log line: %q", line)
	}
	level, err := domain.ParseLogLevel(levelName)
	if err != nil {
		return Entry{}, err
	}
	return Entry{Level: level, JSON: payload}, nil
}

// ReadLogFile parses every non-empty line of a run log.
func ReadLogFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open run log: %w", err)
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		entry, err := ParseLine(line)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, lineNo, err)
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read run log: %w", err)
	}
	return entries, nil
}

// FindLogFiles returns the run logs under reportsDir/logs, oldest first.
func FindLogFiles(reportsDir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(reportsDir, LogDirName, RunIDPrefix+"*.log"))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	return matches, nil
}

// JSONLines returns the payloads of entries in order, the input the report
// renderer expects.
func JSONLines(entries []Entry) []string {
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = e.JSON
	}
	return lines
}
