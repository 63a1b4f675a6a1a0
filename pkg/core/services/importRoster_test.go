package services

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/debate-rosters/pkg/db"
	"github.com/jakechorley/debate-rosters/pkg/spreadsheet"
)

// mockImportStore implements ImportRosterStore for tests
type mockImportStore struct {
	roster            *db.Roster
	rosterCompetitors []db.RosterCompetitor
	rosterJudges      []db.RosterJudge
	events            []db.Event
	competitors       []db.Competitor

	insertedCompetitors []db.RosterCompetitor
	insertedJudges      []db.RosterJudge
}

func (m *mockImportStore) GetRoster(ctx context.Context, rosterID string) (*db.Roster, error) {
	if m.roster == nil || m.roster.ID != rosterID {
		return nil, errors.New("no rows in result set")
	}
	r := *m.roster
	return &r, nil
}

func (m *mockImportStore) GetRosterCompetitors(ctx context.Context, rosterID string) ([]db.RosterCompetitor, error) {
	return m.rosterCompetitors, nil
}

func (m *mockImportStore) GetRosterJudges(ctx context.Context, rosterID string) ([]db.RosterJudge, error) {
	return m.rosterJudges, nil
}

func (m *mockImportStore) GetEvents(ctx context.Context) ([]db.Event, error) {
	return m.events, nil
}

func (m *mockImportStore) GetCompetitors(ctx context.Context, ids []string) ([]db.Competitor, error) {
	return m.competitors, nil
}

func (m *mockImportStore) InsertRosterCompetitors(ctx context.Context, competitors []db.RosterCompetitor) error {
	m.insertedCompetitors = append(m.insertedCompetitors, competitors...)
	return nil
}

func (m *mockImportStore) InsertRosterJudges(ctx context.Context, judges []db.RosterJudge) error {
	m.insertedJudges = append(m.insertedJudges, judges...)
	return nil
}

func importFixture() *mockImportStore {
	return &mockImportStore{
		roster: &db.Roster{ID: "r-1", TournamentID: "t-1", Name: "Week 3"},
		rosterCompetitors: []db.RosterCompetitor{
			{ID: "rc-1", RosterID: "r-1", CompetitorID: "c-1", EventID: "ev-ld", Rank: 1},
		},
		events: []db.Event{
			{ID: "ev-ld", Name: "Lincoln Douglas", Category: 1},
		},
		competitors: []db.Competitor{
			{ID: "c-1", FirstName: "A", LastName: "One"},
			{ID: "c-2", FirstName: "B", LastName: "Two"},
			{ID: "p-1", FirstName: "Pat", LastName: "Parent"},
		},
	}
}

func workbookBytes(t *testing.T, data *spreadsheet.ExportData) *bytes.Buffer {
	t.Helper()
	f, err := spreadsheet.Export(data)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())
	return &buf
}

func TestImportRoster_AddsNewRowsByID(t *testing.T) {
	mock := importFixture()
	buf := workbookBytes(t, &spreadsheet.ExportData{
		Competitors: []spreadsheet.CompetitorRow{
			{CompetitorID: "c-1", Name: "A One", EventName: "Lincoln Douglas", Rank: 1},
			{CompetitorID: "c-2", Name: "B Two", EventName: "Lincoln Douglas", Rank: 2},
		},
		Judges: []spreadsheet.JudgeRow{
			{JudgeID: "p-1", Name: "Pat Parent", EventName: "Lincoln Douglas", SlotsProvided: 2},
		},
	})

	logger := zap.NewNop()
	ctx := context.Background()

	report, err := ImportRoster(ctx, mock, logger, "r-1", buf)
	require.NoError(t, err)

	// c-1 is already on the roster; only c-2 and the judge are new
	assert.Equal(t, 1, report.AddedCompetitors)
	assert.Equal(t, 1, report.AddedJudges)
	assert.Equal(t, 1, report.SkippedExisting)
	assert.Empty(t, report.Warnings)

	require.Len(t, mock.insertedCompetitors, 1)
	assert.Equal(t, "c-2", mock.insertedCompetitors[0].CompetitorID)
	assert.Equal(t, "ev-ld", mock.insertedCompetitors[0].EventID)
	assert.Equal(t, 2, mock.insertedCompetitors[0].Rank)

	require.Len(t, mock.insertedJudges, 1)
	assert.Equal(t, "p-1", mock.insertedJudges[0].JudgeID)
	assert.Equal(t, 2, mock.insertedJudges[0].SlotsProvided)
}

func TestImportRoster_NameFallbackMatching(t *testing.T) {
	mock := importFixture()
	// Row with no ID: matched by case-insensitive full name
	buf := workbookBytes(t, &spreadsheet.ExportData{
		Competitors: []spreadsheet.CompetitorRow{
			{Name: "b two", EventName: "Lincoln Douglas", Rank: 2},
		},
	})

	logger := zap.NewNop()
	ctx := context.Background()

	report, err := ImportRoster(ctx, mock, logger, "r-1", buf)
	require.NoError(t, err)

	assert.Equal(t, 1, report.AddedCompetitors)
	require.Len(t, mock.insertedCompetitors, 1)
	assert.Equal(t, "c-2", mock.insertedCompetitors[0].CompetitorID)
}

func TestImportRoster_UnmatchedRowsWarnNotWrite(t *testing.T) {
	mock := importFixture()
	buf := workbookBytes(t, &spreadsheet.ExportData{
		Competitors: []spreadsheet.CompetitorRow{
			{CompetitorID: "ghost", Name: "No Body", EventName: "Lincoln Douglas", Rank: 3},
			{CompetitorID: "c-2", Name: "B Two", EventName: "Parliamentary", Rank: 1},
		},
	})

	logger := zap.NewNop()
	ctx := context.Background()

	report, err := ImportRoster(ctx, mock, logger, "r-1", buf)
	require.NoError(t, err)

	assert.Zero(t, report.AddedCompetitors)
	assert.Len(t, report.Warnings, 2)
	assert.Empty(t, mock.insertedCompetitors)
}

func TestImportRoster_UnknownRoster(t *testing.T) {
	mock := importFixture()
	buf := workbookBytes(t, &spreadsheet.ExportData{})

	logger := zap.NewNop()
	ctx := context.Background()

	_, err := ImportRoster(ctx, mock, logger, "missing", buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch roster")
}
