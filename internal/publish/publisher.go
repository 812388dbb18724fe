package publish

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"shoptest/internal/domain"
)

const createRunsTable = `CREATE TABLE IF NOT EXISTS test_runs (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	run_ids TEXT NOT NULL,
	browsers VARCHAR(255) NOT NULL,
	total INT NOT NULL,
	passed INT NOT NULL,
	failed INT NOT NULL,
	other INT NOT NULL,
	duration_seconds DOUBLE NOT NULL,
	workers INT NOT NULL,
	finished_at VARCHAR(64) NOT NULL,
	published_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
)`

const createCasesTable = `CREATE TABLE IF NOT EXISTS test_case_results (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	publish_id BIGINT NOT NULL,
	run_id VARCHAR(64) NOT NULL,
	test_id VARCHAR(255) NOT NULL,
	browser VARCHAR(32) NOT NULL,
	locality VARCHAR(32) NOT NULL,
	description TEXT,
	severity VARCHAR(32),
	owner VARCHAR(128),
	status VARCHAR(16) NOT NULL,
	log_level VARCHAR(16) NOT NULL,
	steps JSON,
	error_message TEXT,
	stacktrace TEXT,
	resolved BOOLEAN NOT NULL DEFAULT FALSE,
	UNIQUE KEY uniq_case (run_id, test_id, browser),
	INDEX idx_status (status)
)`

const insertRun = `INSERT INTO test_runs
	(run_ids, browsers, total, passed, failed, other, duration_seconds, workers, finished_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

const upsertCase = `INSERT INTO test_case_results
	(publish_id, run_id, test_id, browser, locality, description, severity, owner, status, log_level, steps, error_message, stacktrace, resolved)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON DUPLICATE KEY UPDATE publish_id = VALUES(publish_id), locality = VALUES(locality),
		description = VALUES(description), severity = VALUES(severity), owner = VALUES(owner),
		status = VALUES(status), log_level = VALUES(log_level), steps = VALUES(steps),
		error_message = VALUES(error_message), stacktrace = VALUES(stacktrace),
		resolved = VALUES(resolved)`

// Progress is told about every record written
type Progress interface {
	Add(n int) error
}

// Publisher writes run results to MySQL so they can be tracked across runs
type Publisher struct {
	db  *sql.DB
	log *zap.Logger
}

// NewPublisher creates a Publisher on an open database
func NewPublisher(db *sql.DB, log *zap.Logger) *Publisher {
	return &Publisher{db: db, log: log}
}

// EnsureSchema creates the results tables if they do not exist
func (p *Publisher) EnsureSchema(ctx context.Context) error {
	for _, stmt := range []string{createRunsTable, createCasesTable} {
		if _, err := p.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}

// Publish writes the run summary and every record in one transaction and
// returns the id of the summary row. Re-publishing the same run updates
// its records in place.
func (p *Publisher) Publish(ctx context.Context, output *domain.TestResultsOutput, progress Progress) (int64, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	meta := output.Meta
	res, err := tx.ExecContext(ctx, insertRun,
		strings.Join(meta.RunIDs, ","),
		strings.Join(meta.Browsers, ","),
		meta.TotalTestCases,
		meta.PassedTestCases,
		meta.FailedTestCases,
		meta.OtherTestCases,
		meta.DurationSeconds,
		meta.Workers,
		meta.Timestamp,
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	publishID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("run id: %w", err)
	}

	for _, rec := range output.Details {
		args, err := caseArgs(publishID, rec)
		if err != nil {
			return 0, err
		}
		if _, err := tx.ExecContext(ctx, upsertCase, args...); err != nil {
			return 0, fmt.Errorf("insert %s: %w", rec.TestID, err)
		}
		if progress != nil {
			_ = progress.Add(1)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	p.log.Info("published run",
		zap.Int64("publish_id", publishID),
		zap.Strings("run_ids", meta.RunIDs),
		zap.Int("records", len(output.Details)),
	)
	return publishID, nil
}

func caseArgs(publishID int64, rec domain.StoredRecord) ([]any, error) {
	steps, err := json.Marshal(rec.Steps)
	if err != nil {
		return nil, fmt.Errorf("encode steps of %s: %w", rec.TestID, err)
	}

	locality := ""
	if len(rec.Metadata.Env) > 1 {
		locality = rec.Metadata.Env[1]
	}

	var message, stack sql.NullString
	if rec.Error != nil {
		message = sql.NullString{String: rec.Error.Message, Valid: true}
		stack = sql.NullString{String: strings.Join(rec.Error.Stacktrace, "\n"), Valid: true}
	}

	return []any{
		publishID,
		rec.Metadata.RunID,
		rec.TestID,
		rec.Browser,
		locality,
		rec.Description,
		rec.Metadata.Severity,
		rec.Metadata.Owner,
		string(rec.Status),
		rec.Level,
		string(steps),
		message,
		stack,
		rec.Resolved,
	}, nil
}
