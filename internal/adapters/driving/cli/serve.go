package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/entangle-labs/entangled/internal/adapters/driving/rest"
	"github.com/entangle-labs/entangled/internal/core/services"
	"github.com/entangle-labs/entangled/internal/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the sync daemon",
	Long: `Runs the HTTP API and the background sync scheduler.

The scheduler syncs every enabled source on an interval (config key
scheduler.interval_minutes, default 15). Set scheduler.enabled = false to
run the API without background syncing.

The API binds to --addr and is protected by a bearer token when the
api.token config key is set.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", ":8420", "HTTP listen address")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if err := initServices(); err != nil {
		return err
	}

	addr, err := cmd.Flags().GetString("addr")
	if err != nil {
		return fmt.Errorf("getting addr flag: %w", err)
	}

	server, err := rest.NewServer(&rest.Ports{
		Source:       sourceService,
		Sync:         syncOrchestrator,
		Entanglement: entanglementSvc,
		Zoku:         zokuService,
		Qupt:         quptService,
		Jewel:        jewelService,
		Runs:         runStore,
	}, configStore.GetString("api.token"))
	if err != nil {
		return err
	}

	schedCfg := schedulerConfigFromStore(configStore)
	scheduler := services.NewScheduler(schedCfg, runStore, syncOrchestrator)

	logger.Info("Starting entangled on %s (scheduler enabled=%v interval=%s)",
		addr, schedCfg.Enabled, schedCfg.Interval)
	cmd.Printf("Listening on %s\n", addr)

	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		return server.Run(ctx, addr)
	})
	g.Go(func() error {
		return scheduler.Start(ctx)
	})
	return g.Wait()
}
