package commands

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/debate-rosters/pkg/core/roster"
	"github.com/jakechorley/debate-rosters/pkg/core/services"
)

// PreviewRosterCmd creates the previewRoster command
func PreviewRosterCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "previewRoster <tournament_id>",
		Short: "Compute a roster without saving it",
		Long:  "Run the full allocation pipeline for a tournament and display the result. Nothing is written: no roster is saved and no drop-penalty counters change.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tournamentID := args[0]
			seed, _ := cmd.Flags().GetInt64("seed")

			app.Logger.Debug("previewRoster command",
				zap.String("tournament_id", tournamentID),
				zap.Int64("seed", seed))

			var rng *rand.Rand
			if cmd.Flags().Changed("seed") {
				rng = rand.New(rand.NewSource(seed))
			}

			result, err := services.ComputeRoster(app.Ctx, app.Database, app.Cfg, app.Logger, tournamentID, rng)
			if err != nil {
				return fmt.Errorf("roster computation failed: %w", err)
			}

			printComputeResult(result)
			fmt.Println("This was a preview. Use saveRoster to persist it.")

			return nil
		},
	}

	cmd.Flags().Int64("seed", 0, "Seed for randomized picks (for reproducible output)")

	return cmd
}

func printComputeResult(result *services.ComputeRosterResult) {
	fmt.Printf("\nRoster Preview\n\n")
	fmt.Printf("Tournament: %s\n", result.TournamentID)
	fmt.Printf("Capacity:   Speech %d / LD %d / PF %d\n\n",
		result.Capacity.Speech, result.Capacity.LD, result.Capacity.PF)

	// Group selections by event for display
	byEvent := make(map[string][]roster.RankedSelection)
	for _, sel := range result.Allocation.RankView {
		byEvent[sel.EventID] = append(byEvent[sel.EventID], sel)
	}
	eventIDs := make([]string, 0, len(byEvent))
	for eventID := range byEvent {
		eventIDs = append(eventIDs, eventID)
	}
	sort.Strings(eventIDs)

	for _, eventID := range eventIDs {
		eventName := eventID
		if e, ok := result.Events[eventID]; ok {
			eventName = e.Name
		}
		fmt.Printf("%s:\n", eventName)

		selections := byEvent[eventID]
		sort.Slice(selections, func(i, j int) bool { return selections[i].Rank < selections[j].Rank })
		for _, sel := range selections {
			name := sel.CompetitorID
			if c, ok := result.Competitors[sel.CompetitorID]; ok {
				name = fmt.Sprintf("%s %s", c.FirstName, c.LastName)
			}
			marker := ""
			if result.Allocation.RandomSelections[roster.Selection{CompetitorID: sel.CompetitorID, EventID: sel.EventID}] {
				marker = "  (random)"
			}
			fmt.Printf("  %2d. %s%s\n", sel.Rank, name, marker)
		}
		fmt.Println()
	}

	penaltyCount := 0
	for _, entries := range result.Penalties {
		penaltyCount += len(entries)
	}
	if penaltyCount > 0 {
		penaltyEvents := make([]string, 0, len(result.Penalties))
		for eventID := range result.Penalties {
			penaltyEvents = append(penaltyEvents, eventID)
		}
		sort.Strings(penaltyEvents)

		fmt.Printf("Drop penalties applied (%d):\n", penaltyCount)
		for _, eventID := range penaltyEvents {
			for _, p := range result.Penalties[eventID] {
				name := p.CompetitorID
				if c, ok := result.Competitors[p.CompetitorID]; ok {
					name = fmt.Sprintf("%s %s", c.FirstName, c.LastName)
				}
				fmt.Printf("  - %s (was rank %d, %d unit(s))\n", name, p.OriginalRank, p.UnitsApplied)
			}
		}
		fmt.Println()
	}
}
