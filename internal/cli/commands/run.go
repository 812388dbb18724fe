package commands

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"shoptest/internal/config"
	"shoptest/internal/discovery"
	"shoptest/internal/domain"
	"shoptest/internal/execution"
	"shoptest/internal/parser"
	"shoptest/internal/runlog"
	"shoptest/internal/storage"
	"shoptest/internal/ui"
)

// RunCommand handles the run command
type RunCommand struct {
	config      *config.Config
	scanner     *discovery.Scanner
	filter      *discovery.Filter
	suiteParser *discovery.Parser
	scheduler   execution.Scheduler
	executor    *execution.WorkerPool
	parser      parser.Parser
	storage     storage.Storage
	formatter   *ui.Formatter
	report      *ReportCommand
	viewer      ui.Viewer
	log         *zap.Logger
}

// NewRunCommand creates a new RunCommand
func NewRunCommand(
	cfg *config.Config,
	scanner *discovery.Scanner,
	filter *discovery.Filter,
	suiteParser *discovery.Parser,
	scheduler execution.Scheduler,
	executor *execution.WorkerPool,
	p parser.Parser,
	st storage.Storage,
	formatter *ui.Formatter,
	report *ReportCommand,
	viewer ui.Viewer,
	log *zap.Logger,
) *RunCommand {
	return &RunCommand{
		config:      cfg,
		scanner:     scanner,
		filter:      filter,
		suiteParser: suiteParser,
		scheduler:   scheduler,
		executor:    executor,
		parser:      p,
		storage:     st,
		formatter:   formatter,
		report:      report,
		viewer:      viewer,
		log:         log,
	}
}

// Execute runs the command
func (rc *RunCommand) Execute(cmd *cobra.Command, args []string) error {
	tests, err := discoverTests(rc.config, rc.scanner, rc.suiteParser, rc.filter)
	if err != nil {
		return err
	}
	if len(tests) == 0 {
		color.Yellow("No tests to execute")
		return nil
	}

	// Job directories of an earlier run would leak into the report
	reportsDir := rc.config.GetReportsPath()
	if err := os.RemoveAll(reportsDir); err != nil {
		return fmt.Errorf("clean reports dir: %w", err)
	}
	if err := os.MkdirAll(reportsDir, 0755); err != nil {
		return fmt.Errorf("create reports dir: %w", err)
	}

	jobs := execution.PlanJobs(rc.config, tests, rc.scheduler)
	rc.log.Info("starting run",
		zap.Strings("browsers", rc.config.GetBrowsers()),
		zap.Int("tests", len(tests)),
		zap.Int("jobs", len(jobs)),
		zap.Bool("docker", rc.config.Flags.Docker),
	)

	progressBar := ui.NewProgressBar(len(jobs))
	rc.executor.SetProgress(progressBar)

	results, duration, err := rc.executor.ExecuteWithOptions(cmd.Context(), jobs, rc.config.Flags.FailFast)
	if err != nil {
		return err
	}

	output, err := rc.storage.Save(results, duration, rc.config.Processors)
	if err != nil {
		return fmt.Errorf("failed to save test results: %w", err)
	}

	// no run log at all means every job failed before TestMain; the worker
	// output printed below explains why
	reportPath, reportErr := rc.report.Write()
	if reportErr != nil {
		rc.log.Warn("report not written", zap.Error(reportErr))
	}

	rc.formatter.PrintMetaStats(output)
	rc.formatter.PrintWorkerFailures(unlogged(results), rc.parser)
	fmt.Println()
	if reportErr == nil {
		color.Cyan("Report: %s", reportPath)
	}
	color.Cyan("Results: %s", rc.config.GetOutputPath())

	failedJobs := 0
	for _, r := range results {
		if !r.Success {
			failedJobs++
		}
	}

	if output.Meta.FailedTestCases > 0 && rc.config.Flags.OpenFaills {
		if err := rc.viewer.View(output); err != nil {
			return err
		}
	}
	if output.Meta.FailedTestCases > 0 || failedJobs > 0 {
		return fmt.Errorf("%d test case(s) failed, %d of %d job(s) failed", output.Meta.FailedTestCases, failedJobs, len(jobs))
	}
	return nil
}

// unlogged returns the failed jobs that never wrote a run log; their
// go test output is the only trace of what went wrong.
func unlogged(results []domain.WorkerResult) []domain.WorkerResult {
	var out []domain.WorkerResult
	for _, r := range results {
		if r.Success {
			continue
		}
		files, err := runlog.FindLogFiles(r.ReportsDir)
		if err != nil || len(files) == 0 {
			out = append(out, r)
		}
	}
	return out
}

// discoverTests scans the suite and applies the name filter
func discoverTests(cfg *config.Config, scanner *discovery.Scanner, p *discovery.Parser, filter *discovery.Filter) ([]domain.SuiteTest, error) {
	files, err := scanner.Scan(cfg.GetTestPath())
	if err != nil {
		return nil, err
	}
	tests, err := p.FindSuiteTests(files)
	if err != nil {
		return nil, err
	}
	return filter.FilterByName(tests, cfg.Flags.NameFilter), nil
}
