package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/debate-rosters/pkg/db"
)

// ManageRosterStore defines the database operations for roster lifecycle management
type ManageRosterStore interface {
	GetRoster(ctx context.Context, rosterID string) (*db.Roster, error)
	GetRosters(ctx context.Context) ([]db.Roster, error)
	RenameRoster(ctx context.Context, rosterID, name string) error
	DeleteRoster(ctx context.Context, rosterID string) error
}

// ListRosters returns all saved rosters, newest first
func ListRosters(ctx context.Context, database ManageRosterStore) ([]db.Roster, error) {
	rosters, err := database.GetRosters(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rosters: %w", err)
	}
	return rosters, nil
}

// RenameRoster changes a saved roster's display name
func RenameRoster(ctx context.Context, database ManageRosterStore, logger *zap.Logger, rosterID, name string) error {
	if name == "" {
		return fmt.Errorf("roster name must not be empty")
	}

	if err := database.RenameRoster(ctx, rosterID, name); err != nil {
		return fmt.Errorf("failed to rename roster: %w", err)
	}

	logger.Info("Roster renamed",
		zap.String("roster_id", rosterID),
		zap.String("name", name))
	return nil
}

// DeleteRoster removes a saved roster and everything attached to it.
// Published rosters must be unpublished first.
func DeleteRoster(ctx context.Context, database ManageRosterStore, logger *zap.Logger, rosterID string) error {
	rosterRecord, err := database.GetRoster(ctx, rosterID)
	if err != nil {
		return fmt.Errorf("failed to fetch roster: %w", err)
	}
	if rosterRecord.Published {
		return fmt.Errorf("roster %s is published - unpublish it before deleting", rosterID)
	}

	if err := database.DeleteRoster(ctx, rosterID); err != nil {
		return fmt.Errorf("failed to delete roster: %w", err)
	}

	logger.Info("Roster deleted",
		zap.String("roster_id", rosterID),
		zap.String("name", rosterRecord.Name))
	return nil
}
