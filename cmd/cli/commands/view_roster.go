package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/debate-rosters/pkg/core/services"
)

// ViewRosterCmd creates the viewRoster command
func ViewRosterCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "viewRoster <roster_id>",
		Short: "Display a saved roster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rosterID := args[0]

			view, err := services.ViewRoster(app.Ctx, app.Database, app.Logger, rosterID)
			if err != nil {
				return err
			}

			fmt.Printf("\n%s\n", view.Roster.Name)
			fmt.Printf("Created:   %s\n", view.Roster.CreatedAt.Format("2006-01-02 15:04"))
			if view.Roster.Published && view.Roster.PublishedAt != nil {
				fmt.Printf("Published: %s\n", view.Roster.PublishedAt.Format("2006-01-02 15:04"))
			}
			fmt.Println()

			currentEvent := ""
			for _, c := range view.Competitors {
				if c.EventName != currentEvent {
					currentEvent = c.EventName
					fmt.Printf("%s:\n", currentEvent)
				}
				fmt.Printf("  %2d. %s\n", c.Rank, c.Name)
			}
			fmt.Println()

			if len(view.Judges) > 0 {
				fmt.Printf("Judges:\n")
				for _, j := range view.Judges {
					child := ""
					if j.ChildName != "" {
						child = fmt.Sprintf(", child %s", j.ChildName)
					}
					fmt.Printf("  - %s (%s, %d slots%s)\n", j.Name, j.EventName, j.SlotsProvided, child)
				}
				fmt.Println()
			}

			if len(view.Penalties) > 0 {
				fmt.Printf("Drop penalties applied:\n")
				for _, p := range view.Penalties {
					replacement := ""
					if p.ReplacementName != "" {
						replacement = fmt.Sprintf(", replaced by %s", p.ReplacementName)
					}
					fmt.Printf("  - %s (%s, was rank %d%s)\n", p.Name, p.EventName, p.OriginalRank, replacement)
				}
				fmt.Println()
			}

			return nil
		},
	}
}
