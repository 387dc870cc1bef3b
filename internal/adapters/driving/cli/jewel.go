package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/entangle-labs/entangled/internal/core/domain"
	"github.com/entangle-labs/entangled/internal/core/ports/driving"
)

var jewelCmd = &cobra.Command{
	Use:   "jewel",
	Short: "Manage stored credentials",
	Long: `Commands for the credential vault. Credential payloads are encrypted
with the key derived from ` + vaultKeyEnv + ` and are never printed back.`,
}

var jewelListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored jewels",
	RunE:  runJewelList,
}

var jewelAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Store a new credential",
	Long: `Encrypts and stores a credential for use by sources.

The --credential value is provider-shaped JSON, for example:
  github: {"token":"ghp_..."}
  zammad: {"url":"https://support.example.com","token":"..."}
  gdrive/gmail: {"client_id":"...","client_secret":"...","refresh_token":"..."}`,
	RunE: runJewelAdd,
}

var jewelUsageCmd = &cobra.Command{
	Use:   "usage <jewel-id>",
	Short: "Show sources using a jewel",
	Args:  cobra.ExactArgs(1),
	RunE:  runJewelUsage,
}

var jewelRemoveCmd = &cobra.Command{
	Use:   "remove <jewel-id>",
	Short: "Remove a jewel",
	Args:  cobra.ExactArgs(1),
	RunE:  runJewelRemove,
}

func init() {
	jewelAddCmd.Flags().String("name", "", "human-readable label (required)")
	jewelAddCmd.Flags().String("type", "", "provider type: github, zammad, gdrive, gmail (required)")
	jewelAddCmd.Flags().String("credential", "", "credential JSON to encrypt (required)")
	jewelAddCmd.Flags().String("email", "", "account email the credential authenticates as")

	jewelCmd.AddCommand(jewelListCmd)
	jewelCmd.AddCommand(jewelAddCmd)
	jewelCmd.AddCommand(jewelUsageCmd)
	jewelCmd.AddCommand(jewelRemoveCmd)
	rootCmd.AddCommand(jewelCmd)
}

func ensureJewelService() error {
	if jewelService == nil {
		if err := initServices(); err != nil {
			return err
		}
	}
	if jewelService == nil {
		return errors.New("jewel service not configured")
	}
	return nil
}

func runJewelList(cmd *cobra.Command, _ []string) error {
	if err := ensureJewelService(); err != nil {
		return err
	}

	jewels, err := jewelService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing jewels: %w", err)
	}

	if len(jewels) == 0 {
		cmd.Println("No jewels stored.")
		return nil
	}

	for _, j := range jewels {
		cmd.Printf("%s  %-8s %s", j.ID, j.Type, j.Name)
		if j.Validation.Email != "" {
			cmd.Printf(" (%s)", j.Validation.Email)
		}
		cmd.Println()
	}
	return nil
}

func runJewelAdd(cmd *cobra.Command, _ []string) error {
	if err := ensureJewelService(); err != nil {
		return err
	}

	name, _ := cmd.Flags().GetString("name")
	jewelType, _ := cmd.Flags().GetString("type")
	credential, _ := cmd.Flags().GetString("credential")
	email, _ := cmd.Flags().GetString("email")

	jewel, err := jewelService.Create(cmd.Context(), driving.CreateJewelInput{
		Name:       name,
		Type:       jewelType,
		Credential: json.RawMessage(credential),
		Validation: domain.JewelValidation{Email: email},
	})
	if err != nil {
		return fmt.Errorf("adding jewel: %w", err)
	}

	cmd.Printf("Stored jewel %s (%s).\n", jewel.ID, jewel.Type)
	return nil
}

func runJewelUsage(cmd *cobra.Command, args []string) error {
	if err := ensureJewelService(); err != nil {
		return err
	}

	sources, err := jewelService.Usage(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("getting jewel usage: %w", err)
	}

	if len(sources) == 0 {
		cmd.Println("Jewel is not used by any source.")
		return nil
	}

	for _, src := range sources {
		cmd.Printf("%s  %-8s %s\n", src.ID, src.Type, src.Name)
	}
	return nil
}

func runJewelRemove(cmd *cobra.Command, args []string) error {
	if err := ensureJewelService(); err != nil {
		return err
	}

	if err := jewelService.Delete(cmd.Context(), args[0]); err != nil {
		if errors.Is(err, domain.ErrJewelInUse) {
			return fmt.Errorf("jewel %s is still referenced by sources; remove or repoint them first", args[0])
		}
		return fmt.Errorf("removing jewel: %w", err)
	}

	cmd.Printf("Removed jewel %s.\n", args[0])
	return nil
}
