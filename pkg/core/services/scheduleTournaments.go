package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"github.com/jakechorley/debate-rosters/internal/config"
	"github.com/jakechorley/debate-rosters/pkg/db"
)

// ScheduleTournamentsResult summarizes a scheduling run
type ScheduleTournamentsResult struct {
	Created []db.Tournament
	Skipped int
}

// ScheduleTournamentsStore defines the database operations needed to schedule tournaments
type ScheduleTournamentsStore interface {
	GetTournaments(ctx context.Context) ([]db.Tournament, error)
	InsertTournaments(ctx context.Context, tournaments []db.Tournament) error
}

// ScheduleTournaments expands each configured tournament series into
// individual tournament records between seasonStart and seasonEnd.
// Dates that already have a tournament of the same series name are
// skipped, so the command can be re-run as the season is extended.
func ScheduleTournaments(
	ctx context.Context,
	database ScheduleTournamentsStore,
	cfg *config.Config,
	logger *zap.Logger,
	seasonStart, seasonEnd time.Time,
) (*ScheduleTournamentsResult, error) {
	if !seasonEnd.After(seasonStart) {
		return nil, fmt.Errorf("season end %s is not after season start %s",
			seasonEnd.Format("2006-01-02"), seasonStart.Format("2006-01-02"))
	}
	if len(cfg.TournamentSeries) == 0 {
		return nil, fmt.Errorf("no tournament series configured")
	}

	existing, err := database.GetTournaments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tournaments: %w", err)
	}

	taken := make(map[string]bool, len(existing))
	for _, tourn := range existing {
		taken[tourn.Name+"|"+tourn.Date.Format("2006-01-02")] = true
	}

	result := &ScheduleTournamentsResult{}

	for i, series := range cfg.TournamentSeries {
		rule, err := rrule.StrToRRule(series.RRule)
		if err != nil {
			return nil, fmt.Errorf("failed to parse rrule for series %d: %w", i, err)
		}
		rule.DTStart(seasonStart)

		occurrences := rule.Between(seasonStart, seasonEnd, true)
		logger.Debug("Expanded tournament series",
			zap.String("name", series.Name),
			zap.String("rrule", series.RRule),
			zap.Int("occurrences", len(occurrences)))

		for _, date := range occurrences {
			key := series.Name + "|" + date.Format("2006-01-02")
			if taken[key] {
				result.Skipped++
				continue
			}
			taken[key] = true

			result.Created = append(result.Created, db.Tournament{
				ID:             uuid.New().String(),
				Name:           series.Name,
				Date:           date,
				SignupDeadline: date.AddDate(0, 0, -series.SignupDeadline),
			})
		}
	}

	if len(result.Created) > 0 {
		if err := database.InsertTournaments(ctx, result.Created); err != nil {
			return nil, fmt.Errorf("failed to insert tournaments: %w", err)
		}
	}

	logger.Info("Scheduled tournaments",
		zap.Int("created", len(result.Created)),
		zap.Int("skipped_existing", result.Skipped))

	return result, nil
}
