package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/debate-rosters/internal/config"
	"github.com/jakechorley/debate-rosters/pkg/clients/gmailclient"
	"github.com/jakechorley/debate-rosters/pkg/core/services"
)

// PublishRosterCmd creates the publishRoster command
func PublishRosterCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publishRoster <roster_id>",
		Short: "Publish a roster and email the selected competitors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rosterID := args[0]
			noEmail, _ := cmd.Flags().GetBool("no-email")

			app.Logger.Debug("publishRoster command",
				zap.String("roster_id", rosterID),
				zap.Bool("no_email", noEmail))

			// The Gmail client triggers an OAuth flow on first use, so it
			// is only constructed when notifications are actually wanted
			var mailer services.Mailer
			if !noEmail {
				oauthCfg, err := config.LoadOAuthClientWithEnv(app.Env)
				if err != nil {
					return fmt.Errorf("failed to load OAuth client config: %w", err)
				}
				gmailClient, err := gmailclient.NewClient(app.Ctx, oauthCfg, app.Env)
				if err != nil {
					return fmt.Errorf("failed to create gmail client: %w", err)
				}
				mailer = gmailClient
			}

			result, err := services.PublishRoster(app.Ctx, app.Database, mailer, app.Logger, rosterID)
			if err != nil {
				return err
			}

			fmt.Printf("\nRoster published.\n\n")
			fmt.Printf("Entries:  %d\n", result.EntryCount)
			if noEmail {
				fmt.Println("Notifications skipped (--no-email).")
			} else {
				fmt.Printf("Notified: %d\n", result.NotifiedCount)
				if result.SkippedNoEmail > 0 {
					fmt.Printf("Skipped (no email address): %d\n", result.SkippedNoEmail)
				}
				if len(result.FailedAddrs) > 0 {
					fmt.Printf("Failed to notify %d address(es):\n", len(result.FailedAddrs))
					for _, addr := range result.FailedAddrs {
						fmt.Printf("  - %s\n", addr)
					}
				}
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().Bool("no-email", false, "Publish without sending notification emails")

	return cmd
}

// UnpublishRosterCmd creates the unpublishRoster command
func UnpublishRosterCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "unpublishRoster <roster_id>",
		Short: "Unpublish a roster and remove its published entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rosterID := args[0]

			if err := services.UnpublishRoster(app.Ctx, app.Database, app.Logger, rosterID); err != nil {
				return err
			}

			fmt.Println("Roster unpublished.")
			return nil
		},
	}
}
