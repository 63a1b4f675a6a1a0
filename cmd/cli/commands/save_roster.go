package commands

import (
	"fmt"
	"math/rand"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/debate-rosters/pkg/core/services"
)

// SaveRosterCmd creates the saveRoster command
func SaveRosterCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "saveRoster <tournament_id>",
		Short: "Compute a roster and save it",
		Long:  "Run the full allocation pipeline and persist the roster snapshot. Selections, judges, penalty entries, partner pairings, and the drop-penalty decrements are committed in one transaction.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tournamentID := args[0]
			name, _ := cmd.Flags().GetString("name")
			seed, _ := cmd.Flags().GetInt64("seed")

			app.Logger.Debug("saveRoster command",
				zap.String("tournament_id", tournamentID),
				zap.String("name", name))

			var rng *rand.Rand
			if cmd.Flags().Changed("seed") {
				rng = rand.New(rand.NewSource(seed))
			}

			result, err := services.SaveRoster(app.Ctx, app.Database, app.Cfg, app.Logger, tournamentID, name, rng)
			if err != nil {
				return fmt.Errorf("failed to save roster: %w", err)
			}

			printComputeResult(result.Compute)

			fmt.Printf("Roster saved.\n\n")
			fmt.Printf("Roster ID:   %s\n", result.RosterID)
			fmt.Printf("Name:        %s\n", result.Name)
			fmt.Printf("Competitors: %d\n", result.CompetitorCount)
			fmt.Printf("Judges:      %d\n", result.JudgeCount)
			fmt.Printf("Penalties:   %d\n\n", result.PenaltyCount)

			return nil
		},
	}

	cmd.Flags().String("name", "", "Display name for the roster (defaults to a timestamp)")
	cmd.Flags().Int64("seed", 0, "Seed for randomized picks (for reproducible output)")

	return cmd
}
