package services

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/debate-rosters/internal/config"
	"github.com/jakechorley/debate-rosters/pkg/core/roster"
	"github.com/jakechorley/debate-rosters/pkg/db"
)

// SaveRosterResult describes a persisted roster
type SaveRosterResult struct {
	RosterID        string
	Name            string
	CompetitorCount int
	JudgeCount      int
	PenaltyCount    int
	Compute         *ComputeRosterResult
}

// SaveRosterStore defines the database operations needed to compute and save a roster
type SaveRosterStore interface {
	ComputeRosterStore
	SaveRoster(ctx context.Context, snapshot *db.RosterSnapshot) error
}

// SaveRoster computes a roster for the tournament and persists the full
// snapshot in one transaction: selections, judges with their capacity
// contributions, penalty entries, partner pairings, and the penalty
// decrements. Nothing is committed if any part fails.
func SaveRoster(
	ctx context.Context,
	database SaveRosterStore,
	cfg *config.Config,
	logger *zap.Logger,
	tournamentID string,
	name string,
	rng *rand.Rand,
) (*SaveRosterResult, error) {
	res, err := ComputeRoster(ctx, database, cfg, logger, tournamentID, rng)
	if err != nil {
		return nil, err
	}

	rosterID := uuid.New().String()
	if name == "" {
		name = fmt.Sprintf("Roster %s", time.Now().Format("2006-01-02 15:04"))
	}

	snapshot, err := buildSnapshot(rosterID, name, cfg, res)
	if err != nil {
		return nil, err
	}

	logger.Info("Saving roster",
		zap.String("roster_id", rosterID),
		zap.String("name", name),
		zap.Int("competitors", len(snapshot.Competitors)),
		zap.Int("judges", len(snapshot.Judges)),
		zap.Int("penalties", len(snapshot.Penalties)),
		zap.Int("decrements", len(snapshot.Decrements)))

	if err := database.SaveRoster(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("failed to save roster: %w", err)
	}

	return &SaveRosterResult{
		RosterID:        rosterID,
		Name:            name,
		CompetitorCount: len(snapshot.Competitors),
		JudgeCount:      len(snapshot.Judges),
		PenaltyCount:    len(snapshot.Penalties),
		Compute:         res,
	}, nil
}

// buildSnapshot converts a computed allocation into the records the
// store persists together
func buildSnapshot(rosterID, name string, cfg *config.Config, res *ComputeRosterResult) (*db.RosterSnapshot, error) {
	snapshot := &db.RosterSnapshot{
		Roster: db.Roster{
			ID:           rosterID,
			TournamentID: res.TournamentID,
			Name:         name,
			CreatedAt:    time.Now().UTC(),
		},
	}

	for _, sel := range res.Allocation.RankView {
		snapshot.Competitors = append(snapshot.Competitors, db.RosterCompetitor{
			ID:           uuid.New().String(),
			RosterID:     rosterID,
			CompetitorID: sel.CompetitorID,
			EventID:      sel.EventID,
			Rank:         sel.Rank,
		})
	}

	categories := make(map[string]roster.Category, len(res.Events))
	for id, e := range res.Events {
		cat, err := categoryOf(e)
		if err != nil {
			return nil, err
		}
		categories[id] = cat
	}
	policies := policiesFromConfig(cfg)

	for _, j := range res.Judges {
		slots, err := roster.SlotsForJudge(roster.JudgeAssignment{
			JudgeID:  j.JudgeID,
			ChildID:  j.ChildID,
			EventID:  j.EventID,
			Accepted: j.Accepted,
		}, categories, policies)
		if err != nil {
			return nil, fmt.Errorf("failed to compute judge slots: %w", err)
		}
		snapshot.Judges = append(snapshot.Judges, db.RosterJudge{
			ID:            uuid.New().String(),
			RosterID:      rosterID,
			JudgeID:       j.JudgeID,
			ChildID:       j.ChildID,
			EventID:       j.EventID,
			SlotsProvided: slots,
		})
	}

	for eventID, entries := range res.Penalties {
		for _, p := range entries {
			snapshot.Penalties = append(snapshot.Penalties, db.PenaltyEntry{
				ID:            uuid.New().String(),
				RosterID:      rosterID,
				TournamentID:  res.TournamentID,
				EventID:       eventID,
				CompetitorID:  p.CompetitorID,
				OriginalRank:  p.OriginalRank,
				UnitsApplied:  p.UnitsApplied,
				ReplacementID: p.ReplacementID,
			})
		}
	}

	snapshot.Partners = buildPartnerRecords(rosterID, res)

	for _, dec := range res.Decrements {
		snapshot.Decrements = append(snapshot.Decrements, db.DropDecrement{
			CompetitorID: dec.CompetitorID,
			Amount:       dec.Amount,
		})
	}

	return snapshot, nil
}

// buildPartnerRecords captures each selected partner pair once, with the
// lower competitor ID first
func buildPartnerRecords(rosterID string, res *ComputeRosterResult) []db.RosterPartner {
	selected := make(map[string]bool, len(res.Allocation.EventView))
	for _, sel := range res.Allocation.EventView {
		selected[sel.CompetitorID] = true
	}

	partnerOf := make(map[string]string)
	for _, signups := range res.Ranked {
		for _, s := range signups {
			if s.PartnerID != "" {
				partnerOf[s.CompetitorID] = s.PartnerID
				partnerOf[s.PartnerID] = s.CompetitorID
			}
		}
	}

	var records []db.RosterPartner
	recorded := make(map[string]bool)
	for _, sel := range res.Allocation.EventView {
		partnerID := partnerOf[sel.CompetitorID]
		if partnerID == "" || !selected[partnerID] {
			continue
		}
		first, second := sel.CompetitorID, partnerID
		if first > second {
			first, second = second, first
		}
		key := first + "|" + second
		if recorded[key] {
			continue
		}
		recorded[key] = true
		records = append(records, db.RosterPartner{
			ID:         uuid.New().String(),
			RosterID:   rosterID,
			Partner1ID: first,
			Partner2ID: second,
		})
	}

	return records
}
