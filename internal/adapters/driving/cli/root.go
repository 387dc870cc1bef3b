// Package cli implements the entangled command line interface.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	configfile "github.com/entangle-labs/entangled/internal/adapters/driven/config/file"
	"github.com/entangle-labs/entangled/internal/adapters/driven/storage/sqlite"
	vaultpkg "github.com/entangle-labs/entangled/internal/adapters/driven/vault"
	"github.com/entangle-labs/entangled/internal/core/domain"
	"github.com/entangle-labs/entangled/internal/core/ports/driven"
	"github.com/entangle-labs/entangled/internal/core/ports/driving"
	"github.com/entangle-labs/entangled/internal/core/services"
	"github.com/entangle-labs/entangled/internal/handlers/github"
	"github.com/entangle-labs/entangled/internal/handlers/google/gdrive"
	"github.com/entangle-labs/entangled/internal/handlers/google/gmail"
	"github.com/entangle-labs/entangled/internal/handlers/zammad"
	"github.com/entangle-labs/entangled/internal/logger"
)

// vaultKeyEnv names the environment variable holding the vault passphrase.
const vaultKeyEnv = "ENTANGLED_VAULT_KEY"

// version is set at build time via -ldflags.
var version = "dev"

var (
	verbose   bool
	dataDir   string
	configDir string
)

// Services wired by initServices and consumed by the commands. Tests swap
// these for mocks.
var (
	store            *sqlite.Store
	configStore      driven.ConfigStore
	sourceService    driving.SourceService
	quptService      driving.QuptService
	jewelService     driving.JewelService
	entanglementSvc  driving.EntanglementService
	zokuService      driving.ZokuService
	syncOrchestrator driving.SyncOrchestrator
	runStore         driven.SyncRunStore
)

var rootCmd = &cobra.Command{
	Use:   "entangled",
	Short: "Multi-source activity aggregation daemon",
	Long: `entangled pulls activity from external providers (GitHub, Zammad,
Google Drive, Gmail) into a local timeline, grouped by entanglement.

Credentials are stored encrypted; set ` + vaultKeyEnv + ` to unlock them.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default ~/.entangled/data)")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "config directory (default ~/.entangled)")

	rootCmd.PersistentPreRun = func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	}
}

// Execute runs the root command.
func Execute() error {
	defer closeStore()
	return rootCmd.Execute()
}

// initServices wires the storage, vault and core services. Commands that
// need them call this before doing any work; it is a no-op once wired.
func initServices() error {
	if syncOrchestrator != nil {
		return nil
	}

	cfg, err := configfile.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}
	configStore = cfg

	st, err := sqlite.NewStore(dataDir)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	store = st

	vault, err := vaultpkg.New(os.Getenv(vaultKeyEnv), dataDir)
	if err != nil {
		return fmt.Errorf("opening vault (set %s): %w", vaultKeyEnv, err)
	}

	registry := services.NewHandlerRegistry(
		github.New(),
		zammad.New(),
		gdrive.New(),
		gmail.New(),
	)

	runStore = st.SyncRunStore()
	sourceService = services.NewSourceService(st.SourceStore(), st.QuptStore(), st.EntanglementStore(), registry, vault)
	quptService = services.NewQuptService(st.QuptStore(), st.EntanglementStore())
	jewelService = services.NewJewelService(st.JewelStore(), st.SourceStore(), vault)
	entanglementSvc = services.NewEntanglementService(st.EntanglementStore())
	zokuService = services.NewZokuService(st.ZokuStore())
	syncOrchestrator = services.NewSyncOrchestrator(st.SourceStore(), st.QuptStore(), st.JewelStore(), registry, vault)

	return nil
}

func closeStore() {
	if store != nil {
		store.Close() //nolint:errcheck
	}
}

// schedulerConfigFromStore reads the scheduler settings, applying defaults
// for anything unset: 15 minute interval, enabled.
func schedulerConfigFromStore(cfg driven.ConfigStore) domain.SchedulerConfig {
	interval := cfg.GetInt("scheduler.interval_minutes")
	if interval <= 0 {
		interval = 15
	}

	enabled := true
	if _, ok := cfg.Get("scheduler.enabled"); ok {
		enabled = cfg.GetBool("scheduler.enabled")
	}

	return domain.SchedulerConfig{
		Interval: time.Duration(interval) * time.Minute,
		Enabled:  enabled,
	}
}
