package services

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/jakechorley/debate-rosters/pkg/db"
)

// RosterView is a display-ready roster: every stored record joined with
// the names needed to print or export it
type RosterView struct {
	Roster      db.Roster
	Competitors []RosterViewCompetitor
	Judges      []RosterViewJudge
	Penalties   []RosterViewPenalty
	Partners    []db.RosterPartner
}

// RosterViewCompetitor is one selection with resolved names
type RosterViewCompetitor struct {
	CompetitorID string
	Name         string
	EventID      string
	EventName    string
	Rank         int
}

// RosterViewJudge is one judge with resolved names
type RosterViewJudge struct {
	JudgeID       string
	Name          string
	ChildID       string
	ChildName     string
	EventID       string
	EventName     string
	SlotsProvided int
}

// RosterViewPenalty is one penalty entry with resolved names
type RosterViewPenalty struct {
	CompetitorID    string
	Name            string
	EventName       string
	OriginalRank    int
	UnitsApplied    int
	ReplacementID   string
	ReplacementName string
}

// ViewRosterStore defines the database operations needed to view a roster
type ViewRosterStore interface {
	GetRoster(ctx context.Context, rosterID string) (*db.Roster, error)
	GetRosterCompetitors(ctx context.Context, rosterID string) ([]db.RosterCompetitor, error)
	GetRosterJudges(ctx context.Context, rosterID string) ([]db.RosterJudge, error)
	GetPenaltyEntries(ctx context.Context, rosterID string) ([]db.PenaltyEntry, error)
	GetRosterPartners(ctx context.Context, rosterID string) ([]db.RosterPartner, error)
	GetEvents(ctx context.Context) ([]db.Event, error)
	GetCompetitors(ctx context.Context, ids []string) ([]db.Competitor, error)
}

// ViewRoster loads a saved roster and joins every record with display
// names. People referenced by a roster but since deleted keep their raw
// IDs as names.
func ViewRoster(ctx context.Context, database ViewRosterStore, logger *zap.Logger, rosterID string) (*RosterView, error) {
	rosterRecord, err := database.GetRoster(ctx, rosterID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch roster: %w", err)
	}

	selections, err := database.GetRosterCompetitors(ctx, rosterID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch roster competitors: %w", err)
	}

	judges, err := database.GetRosterJudges(ctx, rosterID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch roster judges: %w", err)
	}

	penalties, err := database.GetPenaltyEntries(ctx, rosterID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch penalty entries: %w", err)
	}

	partners, err := database.GetRosterPartners(ctx, rosterID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch roster partners: %w", err)
	}

	events, err := database.GetEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch events: %w", err)
	}
	eventName := make(map[string]string, len(events))
	for _, e := range events {
		eventName[e.ID] = e.Name
	}

	// Collect every person ID the roster references
	idSet := make(map[string]bool)
	for _, sel := range selections {
		idSet[sel.CompetitorID] = true
	}
	for _, j := range judges {
		idSet[j.JudgeID] = true
		if j.ChildID != "" {
			idSet[j.ChildID] = true
		}
	}
	for _, p := range penalties {
		idSet[p.CompetitorID] = true
		if p.ReplacementID != "" {
			idSet[p.ReplacementID] = true
		}
	}
	ids := make([]string, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	people, err := database.GetCompetitors(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch competitors: %w", err)
	}
	byID := competitorsByID(people)

	nameOf := func(id string) string {
		if c, ok := byID[id]; ok {
			return fullName(c)
		}
		return id
	}

	view := &RosterView{Roster: *rosterRecord, Partners: partners}

	for _, sel := range selections {
		view.Competitors = append(view.Competitors, RosterViewCompetitor{
			CompetitorID: sel.CompetitorID,
			Name:         nameOf(sel.CompetitorID),
			EventID:      sel.EventID,
			EventName:    eventName[sel.EventID],
			Rank:         sel.Rank,
		})
	}
	sort.Slice(view.Competitors, func(i, j int) bool {
		if view.Competitors[i].EventName != view.Competitors[j].EventName {
			return view.Competitors[i].EventName < view.Competitors[j].EventName
		}
		return view.Competitors[i].Rank < view.Competitors[j].Rank
	})

	for _, j := range judges {
		childName := ""
		if j.ChildID != "" {
			childName = nameOf(j.ChildID)
		}
		view.Judges = append(view.Judges, RosterViewJudge{
			JudgeID:       j.JudgeID,
			Name:          nameOf(j.JudgeID),
			ChildID:       j.ChildID,
			ChildName:     childName,
			EventID:       j.EventID,
			EventName:     eventName[j.EventID],
			SlotsProvided: j.SlotsProvided,
		})
	}

	for _, p := range penalties {
		replacementName := ""
		if p.ReplacementID != "" {
			replacementName = nameOf(p.ReplacementID)
		}
		view.Penalties = append(view.Penalties, RosterViewPenalty{
			CompetitorID:    p.CompetitorID,
			Name:            nameOf(p.CompetitorID),
			EventName:       eventName[p.EventID],
			OriginalRank:    p.OriginalRank,
			UnitsApplied:    p.UnitsApplied,
			ReplacementID:   p.ReplacementID,
			ReplacementName: replacementName,
		})
	}

	logger.Debug("Loaded roster view",
		zap.String("roster_id", rosterID),
		zap.Int("competitors", len(view.Competitors)),
		zap.Int("judges", len(view.Judges)),
		zap.Int("penalties", len(view.Penalties)))

	return view, nil
}
