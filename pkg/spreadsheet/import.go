package spreadsheet

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ImportedCompetitor is one row parsed from the Rank View sheet
type ImportedCompetitor struct {
	CompetitorID string
	Name         string
	EventName    string
	Rank         int
}

// ImportedJudge is one row parsed from the Judges sheet
type ImportedJudge struct {
	JudgeID       string
	Name          string
	ChildName     string
	EventName     string
	SlotsProvided int
}

// ImportedRoster is the parsed content of a roster workbook
type ImportedRoster struct {
	Judges      []ImportedJudge
	Competitors []ImportedCompetitor
	// Warnings describes rows that could not be parsed and were skipped
	Warnings []string
}

// Parse reads a roster workbook previously produced by Export. Only the
// Judges and Rank View sheets are read; the per-event sheets are a
// human-friendly duplicate of the Rank View data.
func Parse(r io.Reader) (*ImportedRoster, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	result := &ImportedRoster{}

	if err := parseJudges(f, result); err != nil {
		return nil, err
	}

	if err := parseCompetitors(f, result); err != nil {
		return nil, err
	}

	return result, nil
}

func parseJudges(f *excelize.File, result *ImportedRoster) error {
	rows, err := f.GetRows(judgesSheetName)
	if err != nil {
		return fmt.Errorf("failed to read sheet %s: %w", judgesSheetName, err)
	}

	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		if isBlankRow(row) {
			continue
		}
		if len(row) < 4 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%s row %d: expected at least 4 columns, got %d", judgesSheetName, i+1, len(row)))
			continue
		}

		judge := ImportedJudge{
			JudgeID:   strings.TrimSpace(row[0]),
			Name:      strings.TrimSpace(row[1]),
			ChildName: strings.TrimSpace(row[2]),
			EventName: strings.TrimSpace(row[3]),
		}
		if len(row) > 4 && strings.TrimSpace(row[4]) != "" {
			slots, err := strconv.Atoi(strings.TrimSpace(row[4]))
			if err != nil {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("%s row %d: invalid slot count %q", judgesSheetName, i+1, row[4]))
				continue
			}
			judge.SlotsProvided = slots
		}
		if judge.JudgeID == "" && judge.Name == "" {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%s row %d: no judge ID or name", judgesSheetName, i+1))
			continue
		}

		result.Judges = append(result.Judges, judge)
	}

	return nil
}

func parseCompetitors(f *excelize.File, result *ImportedRoster) error {
	rows, err := f.GetRows(rankViewSheetName)
	if err != nil {
		return fmt.Errorf("failed to read sheet %s: %w", rankViewSheetName, err)
	}

	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		if isBlankRow(row) {
			continue
		}
		if len(row) < 4 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%s row %d: expected at least 4 columns, got %d", rankViewSheetName, i+1, len(row)))
			continue
		}

		rank, err := strconv.Atoi(strings.TrimSpace(row[3]))
		if err != nil {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%s row %d: invalid rank %q", rankViewSheetName, i+1, row[3]))
			continue
		}

		competitor := ImportedCompetitor{
			CompetitorID: strings.TrimSpace(row[0]),
			Name:         strings.TrimSpace(row[1]),
			EventName:    strings.TrimSpace(row[2]),
			Rank:         rank,
		}
		if competitor.CompetitorID == "" && competitor.Name == "" {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%s row %d: no competitor ID or name", rankViewSheetName, i+1))
			continue
		}

		result.Competitors = append(result.Competitors, competitor)
	}

	return nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
