package commands

import (
	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"shoptest/internal/publish"
	"shoptest/internal/storage"
)

// PublishCommand handles the publish command
type PublishCommand struct {
	storage storage.Storage
	log     *zap.Logger
}

// NewPublishCommand creates a new PublishCommand
func NewPublishCommand(st storage.Storage, log *zap.Logger) *PublishCommand {
	return &PublishCommand{storage: st, log: log}
}

// Execute runs the command
func (pc *PublishCommand) Execute(cmd *cobra.Command, args []string) error {
	output, err := pc.storage.Load()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	db, err := publish.Open(ctx, publish.ConfigFromEnv())
	if err != nil {
		return err
	}
	defer db.Close()

	publisher := publish.NewPublisher(db, pc.log)
	if err := publisher.EnsureSchema(ctx); err != nil {
		return err
	}

	bar := progressbar.Default(int64(len(output.Details)), "Publishing records")
	id, err := publisher.Publish(ctx, output, bar)
	if err != nil {
		return err
	}
	color.Green("✓ Published %d record(s) as run #%d", len(output.Details), id)
	return nil
}
