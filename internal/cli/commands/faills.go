package commands

import (
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"shoptest/internal/storage"
	"shoptest/internal/ui"
)

// FaillsCommand opens the failed records of the last run in the viewer
type FaillsCommand struct {
	storage storage.Storage
	viewer  ui.Viewer
}

// NewFaillsCommand creates a new FaillsCommand
func NewFaillsCommand(st storage.Storage, viewer ui.Viewer) *FaillsCommand {
	return &FaillsCommand{
		storage: st,
		viewer:  viewer,
	}
}

// Execute runs the command
func (fc *FaillsCommand) Execute(cmd *cobra.Command, args []string) error {
	results, err := fc.storage.Load()
	if err != nil {
		return err
	}
	if len(results.Failures()) == 0 {
		color.Green("✓ No failed test cases in %s", strings.Join(results.Meta.RunIDs, ", "))
		return nil
	}
	return fc.viewer.View(results)
}
