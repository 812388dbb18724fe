package publish

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"shoptest/internal/domain"
)

type countingProgress struct{ n int }

func (c *countingProgress) Add(n int) error {
	c.n += n
	return nil
}

func sampleOutput() *domain.TestResultsOutput {
	return &domain.TestResultsOutput{
		Meta: domain.TestResultsMeta{
			RunIDs:          []string{"RUN-20250314_092653"},
			Browsers:        []string{"chrome", "firefox"},
			TotalTestCases:  2,
			PassedTestCases: 1,
			FailedTestCases: 1,
			DurationSeconds: 42.5,
			Workers:         2,
			Timestamp:       "2025-03-14T09:27:35Z",
		},
		Details: []domain.StoredRecord{
			{
				Record: domain.Record{
					TestID:   "TC-LOGIN-001",
					Metadata: domain.Metadata{RunID: "RUN-20250314_092653", Severity: "High", Owner: "QA", Env: []string{"chrome", "Local"}},
					Steps:    map[int]domain.Step{1: {Description: "login", State: domain.StepFinished}},
					Status:   domain.StatePassed,
				},
				Level:   "INFO",
				Browser: "chrome",
			},
			{
				Record: domain.Record{
					TestID:   "TC-LOGIN-001",
					Metadata: domain.Metadata{RunID: "RUN-20250314_092653", Env: []string{"firefox", "Docker"}},
					Steps:    map[int]domain.Step{},
					Status:   domain.StateFailed,
					Error:    &domain.TestError{Message: "boom", Stacktrace: []string{"a", "b"}},
				},
				Level:    "ERROR",
				Browser:  "firefox",
				Resolved: true,
			},
		},
	}
}

func TestPublisher_Publish(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO test_runs").
		WithArgs("RUN-20250314_092653", "chrome,firefox", 2, 1, 1, 0, 42.5, 2, "2025-03-14T09:27:35Z").
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectExec("INSERT INTO test_case_results").
		WithArgs(int64(7), "RUN-20250314_092653", "TC-LOGIN-001", "chrome", "Local", "", "High", "QA", "PASSED", "INFO",
			`{"1":{"description":"login","state":"finished"}}`, sql.NullString{}, sql.NullString{}, false).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO test_case_results").
		WithArgs(int64(7), "RUN-20250314_092653", "TC-LOGIN-001", "firefox", "Docker", "", "", "", "FAILED", "ERROR",
			"{}", sql.NullString{String: "boom", Valid: true}, sql.NullString{String: "a\nb", Valid: true}, true).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	progress := &countingProgress{}
	id, err := NewPublisher(db, zap.NewNop()).Publish(context.Background(), sampleOutput(), progress)
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	assert.Equal(t, 2, progress.n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPublisher_RepublishRefreshesRecord(t *testing.T) {
	for _, column := range []string{"publish_id", "locality", "description", "severity", "owner", "status", "log_level", "steps", "error_message", "stacktrace", "resolved"} {
		assert.Contains(t, upsertCase, column+" = VALUES("+column+")", "column %s is not refreshed", column)
	}
	for _, key := range []string{"run_id", "test_id", "browser"} {
		assert.NotContains(t, upsertCase, key+" = VALUES(", "unique key column %s must not change", key)
	}
}

func TestPublisher_PublishRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO test_runs").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO test_case_results").WillReturnError(errors.New("deadlock"))
	mock.ExpectRollback()

	_, err = NewPublisher(db, zap.NewNop()).Publish(context.Background(), sampleOutput(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert TC-LOGIN-001: deadlock")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPublisher_EnsureSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS test_runs").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS test_case_results").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, NewPublisher(db, zap.NewNop()).EnsureSchema(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDBConfig(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "3307")
	t.Setenv("DB_USERNAME", "qa")
	t.Setenv("DB_PASSWORD", "p@ss")
	t.Setenv("DB_DATABASE", "")

	cfg := ConfigFromEnv()
	assert.Equal(t, "shoptest", cfg.Database)

	dsn := cfg.DSN(true)
	assert.True(t, strings.HasPrefix(dsn, "qa:p@ss@tcp(db.internal:3307)/shoptest?"), dsn)
	assert.Contains(t, dsn, "parseTime=true")
	assert.True(t, strings.HasPrefix(cfg.DSN(false), "qa:p@ss@tcp(db.internal:3307)/?"))
}

func TestIsValidDatabaseName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"shoptest", true},
		{"shop_results_2", true},
		{"", false},
		{"x; DROP TABLE y", false},
		{"a`b", false},
		{strings.Repeat("a", 65), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isValidDatabaseName(tt.name), tt.name)
	}
}

func TestOpen_InvalidName(t *testing.T) {
	_, err := Open(context.Background(), DBConfig{Database: "bad;name"})
	assert.Error(t, err)
}
