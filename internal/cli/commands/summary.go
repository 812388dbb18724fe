package commands

import (
	"github.com/spf13/cobra"

	"shoptest/internal/storage"
	"shoptest/internal/ui"
)

// SummaryCommand handles the summary command
type SummaryCommand struct {
	storage   storage.Storage
	formatter *ui.Formatter
}

// NewSummaryCommand creates a new SummaryCommand
func NewSummaryCommand(st storage.Storage, formatter *ui.Formatter) *SummaryCommand {
	return &SummaryCommand{storage: st, formatter: formatter}
}

// Execute runs the command
func (sc *SummaryCommand) Execute(cmd *cobra.Command, args []string) error {
	output, err := sc.storage.Load()
	if err != nil {
		return err
	}
	sc.formatter.PrintMetaStats(output)
	return nil
}
