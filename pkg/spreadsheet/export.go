package spreadsheet

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	judgesSheetName   = "Judges"
	rankViewSheetName = "Rank View"

	// Excel rejects sheet names longer than this
	maxSheetNameLen = 31
)

// JudgeRow is one judge on the exported Judges sheet
type JudgeRow struct {
	JudgeID       string
	Name          string
	ChildName     string
	EventName     string
	SlotsProvided int
}

// CompetitorRow is one selected competitor on the exported sheets
type CompetitorRow struct {
	CompetitorID string
	Name         string
	EventName    string
	Rank         int
	Random       bool
}

// ExportData is everything needed to build a roster workbook
type ExportData struct {
	RosterName  string
	Judges      []JudgeRow
	Competitors []CompetitorRow
}

// Export builds an XLSX workbook for a roster: a Judges sheet, a
// combined Rank View sheet, and one sheet per event. IDs are included
// so the workbook can be imported back without guessing at names.
func Export(data *ExportData) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", judgesSheetName); err != nil {
		return nil, fmt.Errorf("failed to rename default sheet: %w", err)
	}

	if err := writeJudgesSheet(f, data.Judges); err != nil {
		return nil, err
	}

	if err := writeRankViewSheet(f, data.Competitors); err != nil {
		return nil, err
	}

	if err := writeEventSheets(f, data.Competitors); err != nil {
		return nil, err
	}

	return f, nil
}

func writeJudgesSheet(f *excelize.File, judges []JudgeRow) error {
	headers := []string{"Judge ID", "Judge Name", "Child Name", "Event", "Slots Provided"}
	if err := writeRow(f, judgesSheetName, 1, headers); err != nil {
		return err
	}

	for i, j := range judges {
		row := []any{j.JudgeID, j.Name, j.ChildName, j.EventName, j.SlotsProvided}
		if err := writeValues(f, judgesSheetName, i+2, row); err != nil {
			return err
		}
	}

	return nil
}

func writeRankViewSheet(f *excelize.File, competitors []CompetitorRow) error {
	if _, err := f.NewSheet(rankViewSheetName); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", rankViewSheetName, err)
	}

	headers := []string{"Competitor ID", "Name", "Event", "Rank", "Random"}
	if err := writeRow(f, rankViewSheetName, 1, headers); err != nil {
		return err
	}

	for i, c := range competitors {
		random := ""
		if c.Random {
			random = "yes"
		}
		row := []any{c.CompetitorID, c.Name, c.EventName, c.Rank, random}
		if err := writeValues(f, rankViewSheetName, i+2, row); err != nil {
			return err
		}
	}

	return nil
}

func writeEventSheets(f *excelize.File, competitors []CompetitorRow) error {
	byEvent := make(map[string][]CompetitorRow)
	for _, c := range competitors {
		byEvent[c.EventName] = append(byEvent[c.EventName], c)
	}

	eventNames := make([]string, 0, len(byEvent))
	for name := range byEvent {
		eventNames = append(eventNames, name)
	}
	sort.Strings(eventNames)

	used := map[string]bool{
		strings.ToLower(judgesSheetName):   true,
		strings.ToLower(rankViewSheetName): true,
	}

	for _, eventName := range eventNames {
		sheetName := sanitizeSheetName(eventName, used)
		if _, err := f.NewSheet(sheetName); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", sheetName, err)
		}

		headers := []string{"Rank", "Competitor ID", "Name"}
		if err := writeRow(f, sheetName, 1, headers); err != nil {
			return err
		}

		rows := byEvent[eventName]
		sort.Slice(rows, func(i, j int) bool { return rows[i].Rank < rows[j].Rank })

		for i, c := range rows {
			row := []any{c.Rank, c.CompetitorID, c.Name}
			if err := writeValues(f, sheetName, i+2, row); err != nil {
				return err
			}
		}
	}

	return nil
}

// sanitizeSheetName strips characters Excel rejects, truncates to the
// sheet-name limit, and disambiguates collisions with a numeric suffix
func sanitizeSheetName(name string, used map[string]bool) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return -1
		}
		return r
	}, name)
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		cleaned = "Event"
	}
	if len(cleaned) > maxSheetNameLen-1 {
		cleaned = cleaned[:maxSheetNameLen-1]
	}

	candidate := cleaned
	for i := 2; used[strings.ToLower(candidate)]; i++ {
		suffix := fmt.Sprintf(" %d", i)
		base := cleaned
		if len(base)+len(suffix) > maxSheetNameLen-1 {
			base = base[:maxSheetNameLen-1-len(suffix)]
		}
		candidate = base + suffix
	}

	used[strings.ToLower(candidate)] = true
	return candidate
}

func writeRow(f *excelize.File, sheet string, row int, headers []string) error {
	values := make([]any, len(headers))
	for i, h := range headers {
		values[i] = h
	}
	return writeValues(f, sheet, row, values)
}

func writeValues(f *excelize.File, sheet string, row int, values []any) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("failed to compute cell name: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("failed to write cell %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}
