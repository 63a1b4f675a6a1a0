package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/debate-rosters/pkg/core/services"
)

// ExportRosterCmd creates the exportRoster command
func ExportRosterCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "exportRoster <roster_id> <output.xlsx>",
		Short: "Export a saved roster to an XLSX workbook",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rosterID := args[0]
			outPath := args[1]

			app.Logger.Debug("exportRoster command",
				zap.String("roster_id", rosterID),
				zap.String("output", outPath))

			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			defer f.Close()

			if err := services.ExportRoster(app.Ctx, app.Database, app.Logger, rosterID, f); err != nil {
				os.Remove(outPath)
				return err
			}

			fmt.Printf("Exported roster %s to %s\n", rosterID, outPath)
			return nil
		},
	}
}
