package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/entangle-labs/entangled/internal/core/domain"
)

var entanglementCmd = &cobra.Command{
	Use:     "entanglement",
	Aliases: []string{"ent"},
	Short:   "Manage entanglements",
}

var entanglementListCmd = &cobra.Command{
	Use:   "list",
	Short: "List entanglements",
	RunE:  runEntanglementList,
}

var entanglementAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create an entanglement",
	Args:  cobra.ExactArgs(1),
	RunE:  runEntanglementAdd,
}

var entanglementQuptsCmd = &cobra.Command{
	Use:   "qupts <entanglement-id>",
	Short: "Show recent activity for an entanglement",
	Args:  cobra.ExactArgs(1),
	RunE:  runEntanglementQupts,
}

func init() {
	entanglementAddCmd.Flags().String("parent", "", "parent entanglement ID")
	entanglementAddCmd.Flags().String("description", "", "description")
	entanglementQuptsCmd.Flags().Int("limit", 50, "maximum number of qupts")

	entanglementCmd.AddCommand(entanglementListCmd)
	entanglementCmd.AddCommand(entanglementAddCmd)
	entanglementCmd.AddCommand(entanglementQuptsCmd)
	rootCmd.AddCommand(entanglementCmd)
}

func ensureEntanglementService() error {
	if entanglementSvc == nil {
		if err := initServices(); err != nil {
			return err
		}
	}
	if entanglementSvc == nil {
		return errors.New("entanglement service not configured")
	}
	return nil
}

func runEntanglementList(cmd *cobra.Command, _ []string) error {
	if err := ensureEntanglementService(); err != nil {
		return err
	}

	entanglements, err := entanglementSvc.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing entanglements: %w", err)
	}

	if len(entanglements) == 0 {
		cmd.Println("No entanglements.")
		return nil
	}

	for _, e := range entanglements {
		cmd.Printf("%s  %s", e.ID, e.Name)
		if e.ParentID != "" {
			cmd.Printf(" (child of %s)", e.ParentID)
		}
		cmd.Println()
	}
	return nil
}

func runEntanglementAdd(cmd *cobra.Command, args []string) error {
	if err := ensureEntanglementService(); err != nil {
		return err
	}

	parent, _ := cmd.Flags().GetString("parent")
	description, _ := cmd.Flags().GetString("description")

	created, err := entanglementSvc.Create(cmd.Context(), domain.Entanglement{
		Name:        args[0],
		ParentID:    parent,
		Description: description,
	})
	if err != nil {
		return fmt.Errorf("creating entanglement: %w", err)
	}

	cmd.Printf("Created entanglement %s.\n", created.ID)
	return nil
}

func runEntanglementQupts(cmd *cobra.Command, args []string) error {
	if quptService == nil {
		if err := initServices(); err != nil {
			return err
		}
	}
	if quptService == nil {
		return errors.New("qupt service not configured")
	}

	limit, _ := cmd.Flags().GetInt("limit")
	qupts, err := quptService.List(cmd.Context(), args[0], limit)
	if err != nil {
		return fmt.Errorf("listing qupts: %w", err)
	}

	if len(qupts) == 0 {
		cmd.Println("No activity yet.")
		return nil
	}

	for _, q := range qupts {
		cmd.Printf("%s  [%-6s] %s\n", q.CreatedAt.Format("2006-01-02 15:04"), q.Source, q.Content)
	}
	return nil
}
