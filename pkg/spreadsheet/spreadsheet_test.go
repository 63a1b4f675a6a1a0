package spreadsheet

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExport_SheetLayout(t *testing.T) {
	data := &ExportData{
		RosterName: "State Quals",
		Judges: []JudgeRow{
			{JudgeID: "j1", Name: "Pat Judge", ChildName: "Casey Judge", EventName: "Lincoln Douglas", SlotsProvided: 2},
			{JudgeID: "j2", Name: "Sam Arbiter", EventName: "Extemporaneous Speaking", SlotsProvided: 6},
		},
		Competitors: []CompetitorRow{
			{CompetitorID: "c1", Name: "Alex One", EventName: "Lincoln Douglas", Rank: 1},
			{CompetitorID: "c2", Name: "Blair Two", EventName: "Lincoln Douglas", Rank: 2, Random: true},
			{CompetitorID: "c3", Name: "Casey Three", EventName: "Extemporaneous Speaking", Rank: 1},
		},
	}

	f, err := Export(data)
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	assert.Contains(t, sheets, "Judges")
	assert.Contains(t, sheets, "Rank View")
	assert.Contains(t, sheets, "Lincoln Douglas")
	assert.Contains(t, sheets, "Extemporaneous Speaking")

	judgeRows, err := f.GetRows("Judges")
	require.NoError(t, err)
	require.Len(t, judgeRows, 3)
	assert.Equal(t, "Judge ID", judgeRows[0][0])
	assert.Equal(t, "j1", judgeRows[1][0])
	assert.Equal(t, "Casey Judge", judgeRows[1][2])

	rankRows, err := f.GetRows("Rank View")
	require.NoError(t, err)
	require.Len(t, rankRows, 4)
	assert.Equal(t, "c2", rankRows[2][0])
	assert.Equal(t, "yes", rankRows[2][4])

	eventRows, err := f.GetRows("Lincoln Douglas")
	require.NoError(t, err)
	require.Len(t, eventRows, 3)
	assert.Equal(t, "1", eventRows[1][0])
	assert.Equal(t, "Alex One", eventRows[1][2])
}

func TestExport_SanitizesLongEventNames(t *testing.T) {
	longName := "Original Oratory / Informative Speaking [Combined Division]"
	data := &ExportData{
		Competitors: []CompetitorRow{
			{CompetitorID: "c1", Name: "Alex One", EventName: longName, Rank: 1},
		},
	}

	f, err := Export(data)
	require.NoError(t, err)
	defer f.Close()

	for _, sheet := range f.GetSheetList() {
		assert.LessOrEqual(t, len(sheet), 31)
		assert.NotContains(t, sheet, "/")
		assert.NotContains(t, sheet, "[")
	}
}

func TestSanitizeSheetName_Collisions(t *testing.T) {
	used := map[string]bool{}

	first := sanitizeSheetName("Duo Interpretation", used)
	second := sanitizeSheetName("Duo Interpretation", used)

	assert.Equal(t, "Duo Interpretation", first)
	assert.Equal(t, "Duo Interpretation 2", second)
	assert.NotEqual(t, first, second)
}

func TestExportThenParse_RoundTrip(t *testing.T) {
	data := &ExportData{
		Judges: []JudgeRow{
			{JudgeID: "j1", Name: "Pat Judge", ChildName: "Casey Judge", EventName: "Public Forum", SlotsProvided: 4},
		},
		Competitors: []CompetitorRow{
			{CompetitorID: "c1", Name: "Alex One", EventName: "Public Forum", Rank: 1},
			{CompetitorID: "c2", Name: "Blair Two", EventName: "Public Forum", Rank: 2},
		},
	}

	f, err := Export(data)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	parsed, err := Parse(&buf)
	require.NoError(t, err)

	require.Len(t, parsed.Judges, 1)
	assert.Equal(t, "j1", parsed.Judges[0].JudgeID)
	assert.Equal(t, "Casey Judge", parsed.Judges[0].ChildName)
	assert.Equal(t, 4, parsed.Judges[0].SlotsProvided)

	require.Len(t, parsed.Competitors, 2)
	assert.Equal(t, "c1", parsed.Competitors[0].CompetitorID)
	assert.Equal(t, 2, parsed.Competitors[1].Rank)
	assert.Empty(t, parsed.Warnings)
}

func TestParse_WarnsOnBadRows(t *testing.T) {
	data := &ExportData{
		Competitors: []CompetitorRow{
			{CompetitorID: "c1", Name: "Alex One", EventName: "Public Forum", Rank: 1},
		},
	}

	f, err := Export(data)
	require.NoError(t, err)

	// Corrupt a rank cell to a non-numeric value
	require.NoError(t, f.SetCellValue("Rank View", "D2", "first"))
	// Add a row with no identity at all but a valid rank
	require.NoError(t, f.SetCellValue("Rank View", "C3", "Public Forum"))
	require.NoError(t, f.SetCellValue("Rank View", "D3", "2"))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	parsed, err := Parse(&buf)
	require.NoError(t, err)

	assert.Empty(t, parsed.Competitors)
	assert.Len(t, parsed.Warnings, 2)
}
