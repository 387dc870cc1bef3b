package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/entangle-labs/entangled/internal/core/ports/driving"
)

var sourceCmd = &cobra.Command{
	Use:   "source",
	Short: "Manage activity sources",
	Long:  `Commands for listing, adding and removing activity sources.`,
}

var sourceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured sources",
	RunE:  runSourceList,
}

var sourceAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new source",
	Long: `Adds a source to an entanglement.

The --config value is the handler-specific JSON configuration, for example:
  github: {"owner":"acme","repo":"api","events":["push","issues"]}
  zammad: {"query":"state:open"}
  gdrive: {"document_id":"1AbC..."}
  gmail:  {"label":"project-apollo"}

Credentials come from a stored jewel (--jewel) or inline JSON
(--credential); exactly one of the two.`,
	RunE: runSourceAdd,
}

var sourceEnableCmd = &cobra.Command{
	Use:   "enable <source-id>",
	Short: "Enable a source",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setSourceEnabled(cmd, args[0], true)
	},
}

var sourceDisableCmd = &cobra.Command{
	Use:   "disable <source-id>",
	Short: "Disable a source",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setSourceEnabled(cmd, args[0], false)
	},
}

var sourceRemoveCmd = &cobra.Command{
	Use:   "remove <source-id>",
	Short: "Remove a source",
	Args:  cobra.ExactArgs(1),
	RunE:  runSourceRemove,
}

func init() {
	sourceAddCmd.Flags().String("entanglement", "", "owning entanglement ID (required)")
	sourceAddCmd.Flags().String("type", "", "source type: github, zammad, gdrive, gmail (required)")
	sourceAddCmd.Flags().String("name", "", "human-readable name")
	sourceAddCmd.Flags().String("config", "{}", "handler-specific JSON configuration")
	sourceAddCmd.Flags().String("jewel", "", "stored jewel ID for credentials")
	sourceAddCmd.Flags().String("credential", "", "inline credential JSON to encrypt")
	sourceAddCmd.Flags().Int("backdate-days", 30, "backdate initial last_sync to bootstrap history")

	sourceRemoveCmd.Flags().Bool("cascade", false, "also delete qupts ingested by this source")

	sourceCmd.AddCommand(sourceListCmd)
	sourceCmd.AddCommand(sourceAddCmd)
	sourceCmd.AddCommand(sourceEnableCmd)
	sourceCmd.AddCommand(sourceDisableCmd)
	sourceCmd.AddCommand(sourceRemoveCmd)
	rootCmd.AddCommand(sourceCmd)
}

func ensureSourceService() error {
	if sourceService == nil {
		if err := initServices(); err != nil {
			return err
		}
	}
	if sourceService == nil {
		return errors.New("source service not configured")
	}
	return nil
}

func runSourceList(cmd *cobra.Command, _ []string) error {
	if err := ensureSourceService(); err != nil {
		return err
	}

	sources, err := sourceService.List(cmd.Context(), "")
	if err != nil {
		return fmt.Errorf("listing sources: %w", err)
	}

	if len(sources) == 0 {
		cmd.Println("No sources configured.")
		return nil
	}

	for _, src := range sources {
		state := "enabled"
		if !src.Enabled {
			state = "disabled"
		}
		cmd.Printf("%s  %-8s %-24s [%s]\n", src.ID, src.Type, src.Name, state)
		if src.LastSync != nil {
			cmd.Printf("    last sync: %s\n", src.LastSync.Format("2006-01-02 15:04:05"))
		}
		if src.LastError != "" {
			cmd.Printf("    last error (%d consecutive): %s\n", src.ErrorCount, src.LastError)
		}
	}
	return nil
}

func runSourceAdd(cmd *cobra.Command, _ []string) error {
	if err := ensureSourceService(); err != nil {
		return err
	}

	entanglementID, _ := cmd.Flags().GetString("entanglement")
	sourceType, _ := cmd.Flags().GetString("type")
	name, _ := cmd.Flags().GetString("name")
	config, _ := cmd.Flags().GetString("config")
	jewelID, _ := cmd.Flags().GetString("jewel")
	credential, _ := cmd.Flags().GetString("credential")
	backdateDays, _ := cmd.Flags().GetInt("backdate-days")

	in := driving.CreateSourceInput{
		EntanglementID: entanglementID,
		Type:           sourceType,
		Name:           name,
		Config:         json.RawMessage(config),
		JewelID:        jewelID,
		BackdateDays:   backdateDays,
	}
	if credential != "" {
		in.Credential = json.RawMessage(credential)
	}

	source, err := sourceService.Create(cmd.Context(), in)
	if err != nil {
		return fmt.Errorf("adding source: %w", err)
	}

	cmd.Printf("Added source %s (%s).\n", source.ID, source.Type)
	return nil
}

func setSourceEnabled(cmd *cobra.Command, id string, enabled bool) error {
	if err := ensureSourceService(); err != nil {
		return err
	}

	if err := sourceService.SetEnabled(cmd.Context(), id, enabled); err != nil {
		return err
	}

	if enabled {
		cmd.Printf("Source %s enabled.\n", id)
	} else {
		cmd.Printf("Source %s disabled.\n", id)
	}
	return nil
}

func runSourceRemove(cmd *cobra.Command, args []string) error {
	if err := ensureSourceService(); err != nil {
		return err
	}

	cascade, _ := cmd.Flags().GetBool("cascade")
	if err := sourceService.Delete(cmd.Context(), args[0], cascade); err != nil {
		return fmt.Errorf("removing source: %w", err)
	}

	cmd.Printf("Removed source %s.\n", args[0])
	return nil
}
