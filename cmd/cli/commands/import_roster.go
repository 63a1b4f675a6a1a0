package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/debate-rosters/pkg/core/services"
)

// ImportRosterCmd creates the importRoster command
func ImportRosterCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "importRoster <roster_id> <input.xlsx>",
		Short: "Import an edited roster workbook",
		Long:  "Reconcile an exported-and-edited workbook against the saved roster. Rows are matched by ID, falling back to case-insensitive full name; new rows are added, unmatched rows become warnings.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rosterID := args[0]
			inPath := args[1]

			app.Logger.Debug("importRoster command",
				zap.String("roster_id", rosterID),
				zap.String("input", inPath))

			f, err := os.Open(inPath)
			if err != nil {
				return fmt.Errorf("failed to open workbook: %w", err)
			}
			defer f.Close()

			report, err := services.ImportRoster(app.Ctx, app.Database, app.Logger, rosterID, f)
			if err != nil {
				return err
			}

			fmt.Printf("\nImport complete.\n\n")
			fmt.Printf("Added competitors: %d\n", report.AddedCompetitors)
			fmt.Printf("Added judges:      %d\n", report.AddedJudges)
			fmt.Printf("Skipped existing:  %d\n", report.SkippedExisting)

			if len(report.Warnings) > 0 {
				fmt.Printf("\nWarnings (%d):\n", len(report.Warnings))
				for _, w := range report.Warnings {
					fmt.Printf("  - %s\n", w)
				}
			}
			fmt.Println()

			return nil
		},
	}
}
