package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/debate-rosters/pkg/db"
	"github.com/jakechorley/debate-rosters/pkg/spreadsheet"
)

// ImportReport describes what an import changed and what it could not
// reconcile
type ImportReport struct {
	RosterID         string
	AddedCompetitors int
	AddedJudges      int
	SkippedExisting  int
	Warnings         []string
}

// ImportRosterStore defines the database operations needed to import a roster workbook
type ImportRosterStore interface {
	GetRoster(ctx context.Context, rosterID string) (*db.Roster, error)
	GetRosterCompetitors(ctx context.Context, rosterID string) ([]db.RosterCompetitor, error)
	GetRosterJudges(ctx context.Context, rosterID string) ([]db.RosterJudge, error)
	GetEvents(ctx context.Context) ([]db.Event, error)
	GetCompetitors(ctx context.Context, ids []string) ([]db.Competitor, error)
	InsertRosterCompetitors(ctx context.Context, competitors []db.RosterCompetitor) error
	InsertRosterJudges(ctx context.Context, judges []db.RosterJudge) error
}

// ImportRoster reconciles an edited roster workbook against the saved
// roster: rows are matched to people by ID first, then by
// case-insensitive full name; matched rows not already on the roster
// are added. Rows that match nothing become warnings, never writes.
// Deletions made in the workbook are ignored.
func ImportRoster(
	ctx context.Context,
	database ImportRosterStore,
	logger *zap.Logger,
	rosterID string,
	r io.Reader,
) (*ImportReport, error) {
	if _, err := database.GetRoster(ctx, rosterID); err != nil {
		return nil, fmt.Errorf("failed to fetch roster: %w", err)
	}

	parsed, err := spreadsheet.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse workbook: %w", err)
	}
	logger.Debug("Parsed workbook",
		zap.Int("competitors", len(parsed.Competitors)),
		zap.Int("judges", len(parsed.Judges)),
		zap.Int("parse_warnings", len(parsed.Warnings)))

	report := &ImportReport{
		RosterID: rosterID,
		Warnings: append([]string{}, parsed.Warnings...),
	}

	events, err := database.GetEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch events: %w", err)
	}
	eventByName := make(map[string]string, len(events))
	for _, e := range events {
		eventByName[strings.ToLower(e.Name)] = e.ID
	}

	// All people, for ID and name matching
	people, err := database.GetCompetitors(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch competitors: %w", err)
	}
	byID := competitorsByID(people)
	byName := make(map[string]string, len(people))
	for _, p := range people {
		byName[strings.ToLower(fullName(p))] = p.ID
	}

	resolve := func(id, name string) (string, bool) {
		if id != "" {
			if _, ok := byID[id]; ok {
				return id, true
			}
		}
		if resolved, ok := byName[strings.ToLower(name)]; ok && name != "" {
			return resolved, true
		}
		return "", false
	}

	newCompetitors, err := reconcileCompetitors(ctx, database, rosterID, parsed, eventByName, resolve, report)
	if err != nil {
		return nil, err
	}

	newJudges, err := reconcileJudges(ctx, database, rosterID, parsed, eventByName, resolve, report)
	if err != nil {
		return nil, err
	}

	if err := database.InsertRosterCompetitors(ctx, newCompetitors); err != nil {
		return nil, fmt.Errorf("failed to insert roster competitors: %w", err)
	}
	if err := database.InsertRosterJudges(ctx, newJudges); err != nil {
		return nil, fmt.Errorf("failed to insert roster judges: %w", err)
	}

	report.AddedCompetitors = len(newCompetitors)
	report.AddedJudges = len(newJudges)

	logger.Info("Imported roster workbook",
		zap.String("roster_id", rosterID),
		zap.Int("added_competitors", report.AddedCompetitors),
		zap.Int("added_judges", report.AddedJudges),
		zap.Int("skipped_existing", report.SkippedExisting),
		zap.Int("warnings", len(report.Warnings)))

	return report, nil
}

func reconcileCompetitors(
	ctx context.Context,
	database ImportRosterStore,
	rosterID string,
	parsed *spreadsheet.ImportedRoster,
	eventByName map[string]string,
	resolve func(id, name string) (string, bool),
	report *ImportReport,
) ([]db.RosterCompetitor, error) {
	existing, err := database.GetRosterCompetitors(ctx, rosterID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch roster competitors: %w", err)
	}
	onRoster := make(map[string]bool, len(existing))
	for _, sel := range existing {
		onRoster[sel.CompetitorID+"|"+sel.EventID] = true
	}

	var added []db.RosterCompetitor
	for _, row := range parsed.Competitors {
		competitorID, ok := resolve(row.CompetitorID, row.Name)
		if !ok {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("no competitor matches %q (%s)", row.Name, row.CompetitorID))
			continue
		}

		eventID, ok := eventByName[strings.ToLower(row.EventName)]
		if !ok {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("no event matches %q", row.EventName))
			continue
		}

		key := competitorID + "|" + eventID
		if onRoster[key] {
			report.SkippedExisting++
			continue
		}
		onRoster[key] = true

		added = append(added, db.RosterCompetitor{
			ID:           uuid.New().String(),
			RosterID:     rosterID,
			CompetitorID: competitorID,
			EventID:      eventID,
			Rank:         row.Rank,
		})
	}

	return added, nil
}

func reconcileJudges(
	ctx context.Context,
	database ImportRosterStore,
	rosterID string,
	parsed *spreadsheet.ImportedRoster,
	eventByName map[string]string,
	resolve func(id, name string) (string, bool),
	report *ImportReport,
) ([]db.RosterJudge, error) {
	existing, err := database.GetRosterJudges(ctx, rosterID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch roster judges: %w", err)
	}
	onRoster := make(map[string]bool, len(existing))
	for _, j := range existing {
		onRoster[j.JudgeID+"|"+j.EventID] = true
	}

	var added []db.RosterJudge
	for _, row := range parsed.Judges {
		judgeID, ok := resolve(row.JudgeID, row.Name)
		if !ok {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("no judge matches %q (%s)", row.Name, row.JudgeID))
			continue
		}

		eventID, ok := eventByName[strings.ToLower(row.EventName)]
		if !ok {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("no event matches %q", row.EventName))
			continue
		}

		key := judgeID + "|" + eventID
		if onRoster[key] {
			report.SkippedExisting++
			continue
		}
		onRoster[key] = true

		childID := ""
		if row.ChildName != "" {
			if resolved, ok := resolve("", row.ChildName); ok {
				childID = resolved
			} else {
				report.Warnings = append(report.Warnings,
					fmt.Sprintf("no competitor matches judge child %q", row.ChildName))
			}
		}

		added = append(added, db.RosterJudge{
			ID:            uuid.New().String(),
			RosterID:      rosterID,
			JudgeID:       judgeID,
			ChildID:       childID,
			EventID:       eventID,
			SlotsProvided: row.SlotsProvided,
		})
	}

	return added, nil
}
