package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"shoptest/internal/config"
	"shoptest/internal/report"
	"shoptest/internal/runlog"
	"shoptest/internal/storage"
)

// ReportCommand handles the report command
type ReportCommand struct {
	config *config.Config
	log    *zap.Logger
}

// NewReportCommand creates a new ReportCommand
func NewReportCommand(cfg *config.Config, log *zap.Logger) *ReportCommand {
	return &ReportCommand{config: cfg, log: log}
}

// Execute runs the command
func (rc *ReportCommand) Execute(cmd *cobra.Command, args []string) error {
	path, err := rc.Write()
	if err != nil {
		return err
	}
	color.Green("✓ Report written to %s", path)
	return nil
}

// Write renders every run log under the reports directory into the report
// file and returns its path.
func (rc *ReportCommand) Write() (string, error) {
	files, err := storage.FindRunLogs(rc.config.GetReportsPath())
	if err != nil {
		return "", err
	}
	if len(files) == 0 {
		return "", fmt.Errorf("no run logs found under %s", rc.config.GetReportsPath())
	}

	entries, err := storage.ReadEntries(files)
	if err != nil {
		return "", err
	}

	path := rc.config.GetReportPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create report: %w", err)
	}
	defer f.Close()

	if err := report.RenderFile(f, runlog.JSONLines(entries)); err != nil {
		return "", err
	}
	rc.log.Debug("report written",
		zap.String("path", path),
		zap.Int("logs", len(files)),
		zap.Int("records", len(entries)),
	)
	return path, f.Close()
}
