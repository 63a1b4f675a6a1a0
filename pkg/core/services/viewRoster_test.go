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

// mockViewStore implements ViewRosterStore and ManageRosterStore for tests
type mockViewStore struct {
	roster            *db.Roster
	rosters           []db.Roster
	rosterCompetitors []db.RosterCompetitor
	rosterJudges      []db.RosterJudge
	penalties         []db.PenaltyEntry
	partners          []db.RosterPartner
	events            []db.Event
	competitors       []db.Competitor

	renamed string
	deleted bool
}

func (m *mockViewStore) GetRoster(ctx context.Context, rosterID string) (*db.Roster, error) {
	if m.roster == nil || m.roster.ID != rosterID {
		return nil, errors.New("no rows in result set")
	}
	r := *m.roster
	return &r, nil
}

func (m *mockViewStore) GetRosters(ctx context.Context) ([]db.Roster, error) {
	return m.rosters, nil
}

func (m *mockViewStore) GetRosterCompetitors(ctx context.Context, rosterID string) ([]db.RosterCompetitor, error) {
	return m.rosterCompetitors, nil
}

func (m *mockViewStore) GetRosterJudges(ctx context.Context, rosterID string) ([]db.RosterJudge, error) {
	return m.rosterJudges, nil
}

func (m *mockViewStore) GetPenaltyEntries(ctx context.Context, rosterID string) ([]db.PenaltyEntry, error) {
	return m.penalties, nil
}

func (m *mockViewStore) GetRosterPartners(ctx context.Context, rosterID string) ([]db.RosterPartner, error) {
	return m.partners, nil
}

func (m *mockViewStore) GetEvents(ctx context.Context) ([]db.Event, error) {
	return m.events, nil
}

func (m *mockViewStore) GetCompetitors(ctx context.Context, ids []string) ([]db.Competitor, error) {
	return m.competitors, nil
}

func (m *mockViewStore) RenameRoster(ctx context.Context, rosterID, name string) error {
	m.renamed = name
	return nil
}

func (m *mockViewStore) DeleteRoster(ctx context.Context, rosterID string) error {
	m.deleted = true
	return nil
}

func viewFixture() *mockViewStore {
	return &mockViewStore{
		roster: &db.Roster{ID: "r-1", TournamentID: "t-1", Name: "Week 3"},
		rosterCompetitors: []db.RosterCompetitor{
			{ID: "rc-1", RosterID: "r-1", CompetitorID: "c-2", EventID: "ev-ld", Rank: 2},
			{ID: "rc-2", RosterID: "r-1", CompetitorID: "c-1", EventID: "ev-ld", Rank: 1},
		},
		rosterJudges: []db.RosterJudge{
			{ID: "rj-1", RosterID: "r-1", JudgeID: "p-1", ChildID: "c-1", EventID: "ev-ld", SlotsProvided: 2},
		},
		penalties: []db.PenaltyEntry{
			{ID: "pe-1", RosterID: "r-1", EventID: "ev-ld", CompetitorID: "c-3", OriginalRank: 1, UnitsApplied: 1, ReplacementID: "c-1"},
		},
		events: []db.Event{
			{ID: "ev-ld", Name: "Lincoln Douglas", Category: 1},
		},
		competitors: []db.Competitor{
			{ID: "c-1", FirstName: "A", LastName: "One"},
			{ID: "c-2", FirstName: "B", LastName: "Two"},
			{ID: "c-3", FirstName: "C", LastName: "Three"},
			{ID: "p-1", FirstName: "Pat", LastName: "Parent"},
		},
	}
}

func TestViewRoster_JoinsNamesAndSorts(t *testing.T) {
	mock := viewFixture()
	logger := zap.NewNop()
	ctx := context.Background()

	view, err := ViewRoster(ctx, mock, logger, "r-1")
	require.NoError(t, err)

	require.Len(t, view.Competitors, 2)
	// Sorted by event then rank regardless of storage order
	assert.Equal(t, "A One", view.Competitors[0].Name)
	assert.Equal(t, 1, view.Competitors[0].Rank)
	assert.Equal(t, "Lincoln Douglas", view.Competitors[0].EventName)

	require.Len(t, view.Judges, 1)
	assert.Equal(t, "Pat Parent", view.Judges[0].Name)
	assert.Equal(t, "A One", view.Judges[0].ChildName)
	assert.Equal(t, 2, view.Judges[0].SlotsProvided)

	require.Len(t, view.Penalties, 1)
	assert.Equal(t, "C Three", view.Penalties[0].Name)
	assert.Equal(t, "A One", view.Penalties[0].ReplacementName)
}

func TestViewRoster_MissingPersonKeepsID(t *testing.T) {
	mock := viewFixture()
	mock.competitors = mock.competitors[:1] // only c-1 remains

	logger := zap.NewNop()
	ctx := context.Background()

	view, err := ViewRoster(ctx, mock, logger, "r-1")
	require.NoError(t, err)

	assert.Equal(t, "c-2", view.Competitors[1].Name)
	assert.Equal(t, "p-1", view.Judges[0].Name)
}

func TestExportRoster_WritesWorkbook(t *testing.T) {
	mock := viewFixture()
	logger := zap.NewNop()
	ctx := context.Background()

	var buf bytes.Buffer
	err := ExportRoster(ctx, mock, logger, "r-1", &buf)
	require.NoError(t, err)
	require.NotZero(t, buf.Len())

	parsed, err := spreadsheet.Parse(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	require.Len(t, parsed.Competitors, 2)
	assert.Equal(t, "c-1", parsed.Competitors[0].CompetitorID)
	require.Len(t, parsed.Judges, 1)
	assert.Equal(t, "p-1", parsed.Judges[0].JudgeID)
	assert.Equal(t, "A One", parsed.Judges[0].ChildName)
}

func TestRenameRoster(t *testing.T) {
	mock := viewFixture()
	logger := zap.NewNop()
	ctx := context.Background()

	err := RenameRoster(ctx, mock, logger, "r-1", "Finals Week")
	require.NoError(t, err)
	assert.Equal(t, "Finals Week", mock.renamed)

	err = RenameRoster(ctx, mock, logger, "r-1", "")
	require.Error(t, err)
}

func TestDeleteRoster_RefusesPublished(t *testing.T) {
	mock := viewFixture()
	mock.roster.Published = true

	logger := zap.NewNop()
	ctx := context.Background()

	err := DeleteRoster(ctx, mock, logger, "r-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unpublish it before deleting")
	assert.False(t, mock.deleted)
}

func TestDeleteRoster(t *testing.T) {
	mock := viewFixture()
	logger := zap.NewNop()
	ctx := context.Background()

	err := DeleteRoster(ctx, mock, logger, "r-1")
	require.NoError(t, err)
	assert.True(t, mock.deleted)
}
