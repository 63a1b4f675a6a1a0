package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/debate-rosters/pkg/core/services"
)

// RenameRosterCmd creates the renameRoster command
func RenameRosterCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "renameRoster <roster_id> <name>",
		Short: "Rename a saved roster",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := services.RenameRoster(app.Ctx, app.Database, app.Logger, args[0], args[1]); err != nil {
				return err
			}

			fmt.Printf("Roster renamed to %q.\n", args[1])
			return nil
		},
	}
}

// DeleteRosterCmd creates the deleteRoster command
func DeleteRosterCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deleteRoster <roster_id>",
		Short: "Delete a saved roster and everything attached to it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := services.DeleteRoster(app.Ctx, app.Database, app.Logger, args[0]); err != nil {
				return err
			}

			fmt.Println("Roster deleted.")
			return nil
		},
	}
}
