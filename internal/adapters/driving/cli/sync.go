package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync [source-id]",
	Short: "Synchronise activity from sources",
	Long: `Triggers activity synchronisation from configured sources.
If a source ID is provided, only that source is synchronised.
Otherwise, all enabled sources are synchronised.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	if syncOrchestrator == nil {
		if err := initServices(); err != nil {
			return err
		}
	}
	if syncOrchestrator == nil {
		return errors.New("sync service not configured")
	}

	ctx := cmd.Context()

	if len(args) > 0 {
		sourceID := args[0]
		cmd.Printf("Synchronising source: %s...\n", sourceID)

		outcome, err := syncOrchestrator.Sync(ctx, sourceID)
		if err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}

		cmd.Printf("Collected %d, inserted %d new qupts.\n", outcome.Collected, outcome.Inserted)
		return nil
	}

	cmd.Println("Synchronising all sources...")

	run, err := syncOrchestrator.SyncAll(ctx)
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	cmd.Printf("Done: %d succeeded, %d failed, %d new qupts.\n",
		run.Succeeded, run.Failed, run.QuptsInserted)
	return nil
}
