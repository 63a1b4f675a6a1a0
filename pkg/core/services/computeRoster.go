package services

import (
	"context"
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"github.com/jakechorley/debate-rosters/internal/config"
	"github.com/jakechorley/debate-rosters/pkg/core/roster"
	"github.com/jakechorley/debate-rosters/pkg/db"
)

// ComputeRosterResult carries a full allocation run: the allocator
// output plus everything needed to persist or display it
type ComputeRosterResult struct {
	TournamentID string
	Events       map[string]db.Event
	Competitors  map[string]db.Competitor
	Judges       []db.JudgeAssignment
	Capacity     roster.Capacity
	Ranked       map[string][]roster.Signup
	Penalties    map[string][]roster.PenaltyEntry
	Decrements   []roster.DropDecrement
	Allocation   *roster.Result
}

// ComputeRosterStore defines the database operations needed to compute a roster
type ComputeRosterStore interface {
	GetEvents(ctx context.Context) ([]db.Event, error)
	GetCompetitors(ctx context.Context, ids []string) ([]db.Competitor, error)
	GetSignups(ctx context.Context, tournamentID string) ([]db.Signup, error)
	GetAcceptedJudges(ctx context.Context, tournamentID string) ([]db.JudgeAssignment, error)
}

// ComputeRoster runs the allocation pipeline for a tournament without
// persisting anything: aggregate signups, rank, apply drop penalties,
// derive judge capacity, and fill slots. Drop-penalty decrements are
// returned as instructions; they are only committed by SaveRoster.
//
// rng seeds the allocator's randomized picks; pass nil for a
// time-seeded source.
func ComputeRoster(
	ctx context.Context,
	database ComputeRosterStore,
	cfg *config.Config,
	logger *zap.Logger,
	tournamentID string,
	rng *rand.Rand,
) (*ComputeRosterResult, error) {
	logger.Debug("Starting roster computation", zap.String("tournament_id", tournamentID))

	// Step 1: DB query - events and category map
	events, err := database.GetEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch events: %w", err)
	}
	logger.Debug("Found events", zap.Int("count", len(events)))

	categories, err := buildCategories(events)
	if err != nil {
		return nil, err
	}

	// Step 2: DB query - signups for the tournament
	signups, err := database.GetSignups(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch signups: %w", err)
	}
	logger.Debug("Found signups", zap.Int("count", len(signups)))

	// Step 3: DB query - competitor records for score and penalty lookups
	competitorIDs := make([]string, 0, len(signups))
	seen := make(map[string]bool, len(signups))
	for _, s := range signups {
		if !seen[s.CompetitorID] {
			seen[s.CompetitorID] = true
			competitorIDs = append(competitorIDs, s.CompetitorID)
		}
	}

	competitors, err := database.GetCompetitors(ctx, competitorIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch competitors: %w", err)
	}
	byID := competitorsByID(competitors)

	// Step 4: convert signups for the allocator
	rosterSignups := make([]roster.Signup, 0, len(signups))
	for _, s := range signups {
		c, ok := byID[s.CompetitorID]
		if !ok {
			logger.Warn("Signup references unknown competitor",
				zap.String("signup_id", s.ID),
				zap.String("competitor_id", s.CompetitorID))
			continue
		}
		rosterSignups = append(rosterSignups, roster.Signup{
			CompetitorID:  s.CompetitorID,
			EventID:       s.EventID,
			WeightedScore: c.TournamentPoints*cfg.TournamentWeight + c.EffortPoints*cfg.EffortWeight,
			DropPenalties: c.DropPenalties,
			PartnerID:     s.PartnerID,
			IsGoing:       s.IsGoing,
		})
	}

	// Step 5: aggregate, rank, and filter
	byEvent := roster.GroupByEvent(rosterSignups)
	logger.Debug("Grouped signups by event", zap.Int("event_count", len(byEvent)))

	ranked := roster.Rank(byEvent)

	filtered, penalties, decrements := roster.ApplyDropPenalties(ranked)
	penaltyCount := 0
	for _, entries := range penalties {
		penaltyCount += len(entries)
	}
	logger.Debug("Applied drop penalties",
		zap.Int("penalty_count", penaltyCount),
		zap.Int("decrement_count", len(decrements)))

	// Step 6: DB query - accepted judges, capacity
	judges, err := database.GetAcceptedJudges(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accepted judges: %w", err)
	}
	logger.Debug("Found accepted judges", zap.Int("count", len(judges)))

	policies := policiesFromConfig(cfg)

	rosterJudges := make([]roster.JudgeAssignment, len(judges))
	judgesPerCategory := make(map[roster.Category]int)
	judgeChildIDs := make(map[string]bool)
	for i, j := range judges {
		rosterJudges[i] = roster.JudgeAssignment{
			JudgeID:  j.JudgeID,
			ChildID:  j.ChildID,
			EventID:  j.EventID,
			Accepted: j.Accepted,
		}
		if cat, ok := categories[j.EventID]; ok {
			judgesPerCategory[cat]++
		}
		if j.ChildID != "" {
			judgeChildIDs[j.ChildID] = true
		}
	}

	capacity, err := roster.CapacityFromJudges(rosterJudges, categories, policies)
	if err != nil {
		return nil, fmt.Errorf("failed to compute capacity: %w", err)
	}
	logger.Info("Computed judge capacity",
		zap.Int("speech", capacity.Speech),
		zap.Int("ld", capacity.LD),
		zap.Int("pf", capacity.PF))

	// Step 7: allocate slots
	allocation, err := roster.Allocate(roster.Input{
		Ranked:            filtered,
		Categories:        categories,
		Capacity:          capacity,
		Policies:          policies,
		JudgesPerCategory: judgesPerCategory,
		JudgeChildIDs:     judgeChildIDs,
	}, rng)
	if err != nil {
		return nil, fmt.Errorf("allocation failed: %w", err)
	}

	logger.Info("Allocation completed",
		zap.Int("selected", len(allocation.EventView)),
		zap.Int("random_selections", len(allocation.RandomSelections)))

	return &ComputeRosterResult{
		TournamentID: tournamentID,
		Events:       eventsByID(events),
		Competitors:  byID,
		Judges:       judges,
		Capacity:     capacity,
		Ranked:       filtered,
		Penalties:    penalties,
		Decrements:   decrements,
		Allocation:   allocation,
	}, nil
}
