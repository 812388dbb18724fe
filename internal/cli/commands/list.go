package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"shoptest/internal/config"
	"shoptest/internal/discovery"
	"shoptest/internal/execution"
	"shoptest/internal/ui"
)

// ListCommand prints the discovered suite tests and, on request, the jobs a
// run with the same flags would start.
type ListCommand struct {
	config    *config.Config
	scanner   *discovery.Scanner
	filter    *discovery.Filter
	parser    *discovery.Parser
	scheduler execution.Scheduler
	formatter *ui.Formatter
}

func NewListCommand(
	cfg *config.Config,
	scanner *discovery.Scanner,
	filter *discovery.Filter,
	parser *discovery.Parser,
	scheduler execution.Scheduler,
	formatter *ui.Formatter,
) *ListCommand {
	return &ListCommand{
		config:    cfg,
		scanner:   scanner,
		filter:    filter,
		parser:    parser,
		scheduler: scheduler,
		formatter: formatter,
	}
}

// Execute runs the command
func (lc *ListCommand) Execute(cmd *cobra.Command, args []string) error {
	tests, err := discoverTests(lc.config, lc.scanner, lc.parser, lc.filter)
	if err != nil {
		return err
	}
	if len(tests) == 0 {
		color.Yellow("No tests found")
		return nil
	}

	lc.formatter.PrintTestList(tests, lc.config.Flags.TestCases)
	if lc.config.Flags.ShowPlan {
		lc.formatter.PrintJobPlan(execution.PlanJobs(lc.config, tests, lc.scheduler))
	}
	return nil
}
