package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/debate-rosters/pkg/core/services"
)

// ListRostersCmd creates the listRosters command
func ListRostersCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listRosters",
		Short: "List all saved rosters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rosters, err := services.ListRosters(app.Ctx, app.Database)
			if err != nil {
				return err
			}

			if len(rosters) == 0 {
				fmt.Println("No rosters saved yet.")
				return nil
			}

			fmt.Printf("\nFound %d roster(s):\n\n", len(rosters))
			for _, r := range rosters {
				status := ""
				if r.Published {
					status = "  [published]"
				}
				fmt.Printf("- %s  %s  (tournament %s, created %s)%s\n",
					r.ID, r.Name, r.TournamentID, r.CreatedAt.Format("2006-01-02"), status)
			}
			fmt.Println()

			return nil
		},
	}
}
