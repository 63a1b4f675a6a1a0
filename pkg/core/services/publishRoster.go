package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/debate-rosters/pkg/db"
)

// Mailer sends notification emails. gmailclient.Client implements it.
type Mailer interface {
	SendEmail(to, subject, body string) error
}

// PublishRosterResult summarizes a publish run
type PublishRosterResult struct {
	RosterID       string
	EntryCount     int
	NotifiedCount  int
	FailedAddrs    []string
	SkippedNoEmail int
}

// PublishRosterStore defines the database operations needed to publish a roster
type PublishRosterStore interface {
	GetRoster(ctx context.Context, rosterID string) (*db.Roster, error)
	GetRosterCompetitors(ctx context.Context, rosterID string) ([]db.RosterCompetitor, error)
	GetEvents(ctx context.Context) ([]db.Event, error)
	GetCompetitors(ctx context.Context, ids []string) ([]db.Competitor, error)
	GetTournaments(ctx context.Context) ([]db.Tournament, error)
	PublishRoster(ctx context.Context, rosterID string, entries []db.PublishedEntry) error
	MarkNotified(ctx context.Context, rosterID, competitorID string) error
}

// PublishRoster marks a roster as published, records a published entry
// per selected competitor, and emails each competitor their assignment.
// Email failures do not unpublish; they are reported so the send can be
// retried.
//
// mailer may be nil to publish without notifications.
func PublishRoster(
	ctx context.Context,
	database PublishRosterStore,
	mailer Mailer,
	logger *zap.Logger,
	rosterID string,
) (*PublishRosterResult, error) {
	rosterRecord, err := database.GetRoster(ctx, rosterID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch roster: %w", err)
	}
	if rosterRecord.Published {
		return nil, fmt.Errorf("roster %s is already published", rosterID)
	}

	selections, err := database.GetRosterCompetitors(ctx, rosterID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch roster competitors: %w", err)
	}
	logger.Debug("Found roster competitors", zap.Int("count", len(selections)))

	entries := make([]db.PublishedEntry, len(selections))
	for i, sel := range selections {
		entries[i] = db.PublishedEntry{
			ID:           uuid.New().String(),
			RosterID:     rosterID,
			TournamentID: rosterRecord.TournamentID,
			CompetitorID: sel.CompetitorID,
			EventID:      sel.EventID,
		}
	}

	if err := database.PublishRoster(ctx, rosterID, entries); err != nil {
		return nil, fmt.Errorf("failed to publish roster: %w", err)
	}
	logger.Info("Roster published",
		zap.String("roster_id", rosterID),
		zap.Int("entries", len(entries)))

	result := &PublishRosterResult{
		RosterID:   rosterID,
		EntryCount: len(entries),
	}

	if mailer == nil {
		logger.Info("No mailer configured - skipping notifications")
		return result, nil
	}

	if err := notifyCompetitors(ctx, database, mailer, logger, rosterRecord, selections, result); err != nil {
		return nil, err
	}

	return result, nil
}

func notifyCompetitors(
	ctx context.Context,
	database PublishRosterStore,
	mailer Mailer,
	logger *zap.Logger,
	rosterRecord *db.Roster,
	selections []db.RosterCompetitor,
	result *PublishRosterResult,
) error {
	events, err := database.GetEvents(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch events: %w", err)
	}
	eventNames := make(map[string]string, len(events))
	for _, e := range events {
		eventNames[e.ID] = e.Name
	}

	tournamentName := rosterRecord.Name
	tournaments, err := database.GetTournaments(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch tournaments: %w", err)
	}
	for _, tourn := range tournaments {
		if tourn.ID == rosterRecord.TournamentID {
			tournamentName = tourn.Name
			break
		}
	}

	ids := make([]string, len(selections))
	for i, sel := range selections {
		ids[i] = sel.CompetitorID
	}
	competitors, err := database.GetCompetitors(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to fetch competitors: %w", err)
	}
	byID := competitorsByID(competitors)

	for _, sel := range selections {
		c, ok := byID[sel.CompetitorID]
		if !ok || c.Email == "" {
			result.SkippedNoEmail++
			logger.Warn("No email address for competitor",
				zap.String("competitor_id", sel.CompetitorID))
			continue
		}

		subject := fmt.Sprintf("You are on the roster for %s", tournamentName)
		body := fmt.Sprintf(
			"Hi %s,\n\nYou have been selected to compete in %s at %s.\n\nSee the published roster for details.\n",
			c.FirstName, eventNames[sel.EventID], tournamentName)

		if err := mailer.SendEmail(c.Email, subject, body); err != nil {
			logger.Warn("Failed to send notification",
				zap.String("competitor_id", sel.CompetitorID),
				zap.Error(err))
			result.FailedAddrs = append(result.FailedAddrs, c.Email)
			continue
		}

		if err := database.MarkNotified(ctx, rosterRecord.ID, sel.CompetitorID); err != nil {
			return fmt.Errorf("failed to mark notification sent: %w", err)
		}
		result.NotifiedCount++
	}

	logger.Info("Notifications sent",
		zap.Int("notified", result.NotifiedCount),
		zap.Int("failed", len(result.FailedAddrs)),
		zap.Int("skipped_no_email", result.SkippedNoEmail))

	return nil
}

// UnpublishRosterStore defines the database operations needed to unpublish a roster
type UnpublishRosterStore interface {
	GetRoster(ctx context.Context, rosterID string) (*db.Roster, error)
	UnpublishRoster(ctx context.Context, rosterID string) error
}

// UnpublishRoster clears the published flag and removes the roster's
// published entries. Sent notifications are not recalled.
func UnpublishRoster(ctx context.Context, database UnpublishRosterStore, logger *zap.Logger, rosterID string) error {
	rosterRecord, err := database.GetRoster(ctx, rosterID)
	if err != nil {
		return fmt.Errorf("failed to fetch roster: %w", err)
	}
	if !rosterRecord.Published {
		return fmt.Errorf("roster %s is not published", rosterID)
	}

	if err := database.UnpublishRoster(ctx, rosterID); err != nil {
		return fmt.Errorf("failed to unpublish roster: %w", err)
	}

	logger.Info("Roster unpublished", zap.String("roster_id", rosterID))
	return nil
}
