package services

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/jakechorley/debate-rosters/pkg/spreadsheet"
)

// ExportRoster writes a saved roster to w as an XLSX workbook: a Judges
// sheet, a combined Rank View sheet, and one sheet per event.
func ExportRoster(ctx context.Context, database ViewRosterStore, logger *zap.Logger, rosterID string, w io.Writer) error {
	view, err := ViewRoster(ctx, database, logger, rosterID)
	if err != nil {
		return err
	}

	data := &spreadsheet.ExportData{
		RosterName: view.Roster.Name,
	}

	for _, j := range view.Judges {
		data.Judges = append(data.Judges, spreadsheet.JudgeRow{
			JudgeID:       j.JudgeID,
			Name:          j.Name,
			ChildName:     j.ChildName,
			EventName:     j.EventName,
			SlotsProvided: j.SlotsProvided,
		})
	}

	for _, c := range view.Competitors {
		data.Competitors = append(data.Competitors, spreadsheet.CompetitorRow{
			CompetitorID: c.CompetitorID,
			Name:         c.Name,
			EventName:    c.EventName,
			Rank:         c.Rank,
		})
	}

	f, err := spreadsheet.Export(data)
	if err != nil {
		return fmt.Errorf("failed to build workbook: %w", err)
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	logger.Info("Exported roster",
		zap.String("roster_id", rosterID),
		zap.Int("competitors", len(data.Competitors)),
		zap.Int("judges", len(data.Judges)))

	return nil
}
