package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/debate-rosters/cmd/cli/commands"
	"github.com/jakechorley/debate-rosters/internal/config"
	"github.com/jakechorley/debate-rosters/pkg/postgres"
	"github.com/jakechorley/debate-rosters/pkg/utils/logging"
)

var (
	env string
	app *commands.AppContext

	database *postgres.DB
)

func main() {
	app = &commands.AppContext{}

	rootCmd := &cobra.Command{
		Use:   "rosters",
		Short: "Debate Rosters CLI - Manage tournament rosters",
		Long:  `A CLI tool for generating, publishing, and exchanging speech and debate tournament rosters.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.Logger != nil {
				app.Logger.Sync()
			}
			if database != nil {
				database.Close()
			}
		},
	}

	// Add persistent environment flag
	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.MarkPersistentFlagRequired("env")

	// Add all commands
	rootCmd.AddCommand(commands.PreviewRosterCmd(app))
	rootCmd.AddCommand(commands.SaveRosterCmd(app))
	rootCmd.AddCommand(commands.ListRostersCmd(app))
	rootCmd.AddCommand(commands.ViewRosterCmd(app))
	rootCmd.AddCommand(commands.PublishRosterCmd(app))
	rootCmd.AddCommand(commands.UnpublishRosterCmd(app))
	rootCmd.AddCommand(commands.ExportRosterCmd(app))
	rootCmd.AddCommand(commands.ImportRosterCmd(app))
	rootCmd.AddCommand(commands.RenameRosterCmd(app))
	rootCmd.AddCommand(commands.DeleteRosterCmd(app))
	rootCmd.AddCommand(commands.ListTournamentsCmd(app))
	rootCmd.AddCommand(commands.ScheduleTournamentsCmd(app))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config, and database
func initApp() error {
	var err error
	app.Env = env
	app.Ctx = context.Background()

	// Initialize logger
	app.Logger, err = logging.InitLogger(env)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Info("Starting application", zap.String("environment", env))

	// Load configuration
	app.Logger.Info("Loading configuration")
	app.Cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Logger.Debug("Configuration loaded successfully")

	// Connect to the database and apply migrations
	app.Logger.Info("Connecting to database")
	database, err = postgres.NewDB(app.Ctx, app.Cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := database.RunMigrations(app.Ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	app.Database = database
	app.Logger.Info("Database initialized successfully")

	return nil
}
