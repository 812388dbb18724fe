package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"shoptest/internal/domain"
	"shoptest/internal/runlog"
)

// FindRunLogs returns the run logs under root and under each job directory
// directly below it.
func FindRunLogs(root string) ([]string, error) {
	files, err := runlog.FindLogFiles(root)
	if err != nil {
		return nil, err
	}

	dirs, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return files, nil
		}
		return nil, fmt.Errorf("read reports dir: %w", err)
	}
	for _, d := range dirs {
		if !d.IsDir() || d.Name() == runlog.LogDirName {
			continue
		}
		sub, err := runlog.FindLogFiles(filepath.Join(root, d.Name()))
		if err != nil {
			return nil, err
		}
		files = append(files, sub...)
	}
	return files, nil
}

// ReadEntries reads and concatenates the entries of every file.
func ReadEntries(files []string) ([]runlog.Entry, error) {
	var entries []runlog.Entry
	for _, file := range files {
		fileEntries, err := runlog.ReadLogFile(file)
		if err != nil {
			return nil, err
		}
		entries = append(entries, fileEntries...)
	}
	return entries, nil
}

// Collect reads the records every worker logged. A worker whose run crashed
// before creating a log contributes nothing.
func Collect(results []domain.WorkerResult) ([]domain.StoredRecord, []runlog.Entry, error) {
	sorted := append([]domain.WorkerResult(nil), results...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Job < sorted[j].Job })

	var records []domain.StoredRecord
	var all []runlog.Entry
	for _, result := range sorted {
		if result.ReportsDir == "" {
			continue
		}
		files, err := runlog.FindLogFiles(result.ReportsDir)
		if err != nil {
			return nil, nil, err
		}
		entries, err := ReadEntries(files)
		if err != nil {
			return nil, nil, err
		}
		for _, entry := range entries {
			rec, err := storedRecord(entry, result.Browser)
			if err != nil {
				return nil, nil, err
			}
			records = append(records, rec)
		}
		all = append(all, entries...)
	}
	return records, all, nil
}

func storedRecord(entry runlog.Entry, fallbackBrowser string) (domain.StoredRecord, error) {
	rec, err := entry.Record()
	if err != nil {
		return domain.StoredRecord{}, fmt.Errorf("decode record: %w", err)
	}
	browser := fallbackBrowser
	if len(rec.Metadata.Env) > 0 && rec.Metadata.Env[0] != "" {
		browser = rec.Metadata.Env[0]
	}
	return domain.StoredRecord{Record: *rec, Level: entry.Level.String(), Browser: browser}, nil
}

// BuildOutput assembles the results file content.
func BuildOutput(records []domain.StoredRecord, results []domain.WorkerResult, duration time.Duration, workers int) *domain.TestResultsOutput {
	meta := domain.TestResultsMeta{
		TotalTestCases:  len(records),
		Duration:        duration.String(),
		DurationSeconds: duration.Seconds(),
		Workers:         workers,
		Timestamp:       time.Now().Format(time.RFC3339),
	}

	runIDs := make(map[string]bool)
	for _, rec := range records {
		switch {
		case rec.Status.IsPass():
			meta.PassedTestCases++
		case rec.Status.IsFail():
			meta.FailedTestCases++
		default:
			meta.OtherTestCases++
		}
		if rec.Metadata.RunID != "" {
			runIDs[rec.Metadata.RunID] = true
		}
	}
	meta.RunIDs = sortedKeys(runIDs)

	browsers := make(map[string]bool)
	for _, r := range results {
		browsers[r.Browser] = true
	}
	meta.Browsers = sortedKeys(browsers)

	if records == nil {
		records = []domain.StoredRecord{}
	}
	return &domain.TestResultsOutput{Meta: meta, Details: records}
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
