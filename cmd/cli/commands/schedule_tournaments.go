package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/debate-rosters/pkg/core/services"
)

// ScheduleTournamentsCmd creates the scheduleTournaments command
func ScheduleTournamentsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "scheduleTournaments <season_start> <season_end>",
		Short: "Expand the configured tournament series into tournament records",
		Long:  "Expand each tournament series recurrence rule from the config file into individual tournaments between the two dates (YYYY-MM-DD). Dates that already have a tournament of the same series are skipped.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			seasonStart, err := time.Parse("2006-01-02", args[0])
			if err != nil {
				return fmt.Errorf("season_start must be YYYY-MM-DD: %w", err)
			}
			seasonEnd, err := time.Parse("2006-01-02", args[1])
			if err != nil {
				return fmt.Errorf("season_end must be YYYY-MM-DD: %w", err)
			}

			app.Logger.Debug("scheduleTournaments command",
				zap.Time("season_start", seasonStart),
				zap.Time("season_end", seasonEnd))

			result, err := services.ScheduleTournaments(app.Ctx, app.Database, app.Cfg, app.Logger, seasonStart, seasonEnd)
			if err != nil {
				return err
			}

			fmt.Printf("\nScheduled %d tournament(s), skipped %d existing.\n\n", len(result.Created), result.Skipped)
			for _, tourn := range result.Created {
				fmt.Printf("  - %s  %s (signup deadline %s)\n",
					tourn.Date.Format("2006-01-02"),
					tourn.Name,
					tourn.SignupDeadline.Format("2006-01-02"))
			}
			fmt.Println()

			return nil
		},
	}
}

// ListTournamentsCmd creates the listTournaments command
func ListTournamentsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listTournaments",
		Short: "List all tournaments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tournaments, err := app.Database.GetTournaments(app.Ctx)
			if err != nil {
				return fmt.Errorf("failed to fetch tournaments: %w", err)
			}

			if len(tournaments) == 0 {
				fmt.Println("No tournaments found.")
				return nil
			}

			fmt.Printf("\nFound %d tournament(s):\n\n", len(tournaments))
			for _, tourn := range tournaments {
				fmt.Printf("- %s  %s  %s (signup deadline %s)\n",
					tourn.ID,
					tourn.Date.Format("2006-01-02"),
					tourn.Name,
					tourn.SignupDeadline.Format("2006-01-02"))
			}
			fmt.Println()

			return nil
		},
	}
}
