package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/debate-rosters/pkg/db"
)

// mockPublishStore implements PublishRosterStore and UnpublishRosterStore for tests
type mockPublishStore struct {
	roster            *db.Roster
	rosterCompetitors []db.RosterCompetitor
	events            []db.Event
	competitors       []db.Competitor
	tournaments       []db.Tournament

	publishedEntries []db.PublishedEntry
	notified         []string
	unpublished      bool
	publishErr       error
}

func (m *mockPublishStore) GetRoster(ctx context.Context, rosterID string) (*db.Roster, error) {
	if m.roster == nil || m.roster.ID != rosterID {
		return nil, errors.New("no rows in result set")
	}
	r := *m.roster
	return &r, nil
}

func (m *mockPublishStore) GetRosterCompetitors(ctx context.Context, rosterID string) ([]db.RosterCompetitor, error) {
	return m.rosterCompetitors, nil
}

func (m *mockPublishStore) GetEvents(ctx context.Context) ([]db.Event, error) {
	return m.events, nil
}

func (m *mockPublishStore) GetCompetitors(ctx context.Context, ids []string) ([]db.Competitor, error) {
	return m.competitors, nil
}

func (m *mockPublishStore) GetTournaments(ctx context.Context) ([]db.Tournament, error) {
	return m.tournaments, nil
}

func (m *mockPublishStore) PublishRoster(ctx context.Context, rosterID string, entries []db.PublishedEntry) error {
	if m.publishErr != nil {
		return m.publishErr
	}
	m.publishedEntries = entries
	m.roster.Published = true
	now := time.Now()
	m.roster.PublishedAt = &now
	return nil
}

func (m *mockPublishStore) UnpublishRoster(ctx context.Context, rosterID string) error {
	m.unpublished = true
	m.roster.Published = false
	m.roster.PublishedAt = nil
	return nil
}

func (m *mockPublishStore) MarkNotified(ctx context.Context, rosterID, competitorID string) error {
	m.notified = append(m.notified, competitorID)
	return nil
}

// mockMailer records sent emails and can fail for chosen addresses
type mockMailer struct {
	sent     []string
	failAddr string
}

func (m *mockMailer) SendEmail(to, subject, body string) error {
	if to == m.failAddr {
		return errors.New("smtp rejected")
	}
	m.sent = append(m.sent, to)
	return nil
}

func publishFixture() *mockPublishStore {
	return &mockPublishStore{
		roster: &db.Roster{ID: "r-1", TournamentID: "t-1", Name: "Week 3"},
		rosterCompetitors: []db.RosterCompetitor{
			{ID: "rc-1", RosterID: "r-1", CompetitorID: "c-1", EventID: "ev-ld", Rank: 1},
			{ID: "rc-2", RosterID: "r-1", CompetitorID: "c-2", EventID: "ev-ld", Rank: 2},
		},
		events: []db.Event{
			{ID: "ev-ld", Name: "Lincoln Douglas", Category: 1},
		},
		competitors: []db.Competitor{
			{ID: "c-1", FirstName: "A", LastName: "One", Email: "a.one@example.com"},
			{ID: "c-2", FirstName: "B", LastName: "Two", Email: "b.two@example.com"},
		},
		tournaments: []db.Tournament{
			{ID: "t-1", Name: "Winter Invitational"},
		},
	}
}

func TestPublishRoster_CreatesEntriesAndNotifies(t *testing.T) {
	mock := publishFixture()
	mailer := &mockMailer{}
	logger := zap.NewNop()
	ctx := context.Background()

	result, err := PublishRoster(ctx, mock, mailer, logger, "r-1")
	require.NoError(t, err)

	assert.Equal(t, 2, result.EntryCount)
	assert.Equal(t, 2, result.NotifiedCount)
	assert.Empty(t, result.FailedAddrs)

	require.Len(t, mock.publishedEntries, 2)
	assert.Equal(t, "c-1", mock.publishedEntries[0].CompetitorID)
	assert.Equal(t, "t-1", mock.publishedEntries[0].TournamentID)

	assert.ElementsMatch(t, []string{"a.one@example.com", "b.two@example.com"}, mailer.sent)
	assert.ElementsMatch(t, []string{"c-1", "c-2"}, mock.notified)
}

func TestPublishRoster_AlreadyPublished(t *testing.T) {
	mock := publishFixture()
	mock.roster.Published = true

	logger := zap.NewNop()
	ctx := context.Background()

	_, err := PublishRoster(ctx, mock, &mockMailer{}, logger, "r-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already published")
	assert.Empty(t, mock.publishedEntries)
}

func TestPublishRoster_NilMailerSkipsNotifications(t *testing.T) {
	mock := publishFixture()
	logger := zap.NewNop()
	ctx := context.Background()

	result, err := PublishRoster(ctx, mock, nil, logger, "r-1")
	require.NoError(t, err)

	assert.Equal(t, 2, result.EntryCount)
	assert.Zero(t, result.NotifiedCount)
	assert.Empty(t, mock.notified)
	assert.Len(t, mock.publishedEntries, 2)
}

func TestPublishRoster_EmailFailureDoesNotUnpublish(t *testing.T) {
	mock := publishFixture()
	mailer := &mockMailer{failAddr: "a.one@example.com"}
	logger := zap.NewNop()
	ctx := context.Background()

	result, err := PublishRoster(ctx, mock, mailer, logger, "r-1")
	require.NoError(t, err)

	assert.True(t, mock.roster.Published)
	assert.Equal(t, 1, result.NotifiedCount)
	assert.Equal(t, []string{"a.one@example.com"}, result.FailedAddrs)
	assert.Equal(t, []string{"c-2"}, mock.notified)
}

func TestPublishRoster_MissingEmailSkipped(t *testing.T) {
	mock := publishFixture()
	mock.competitors[1].Email = ""

	mailer := &mockMailer{}
	logger := zap.NewNop()
	ctx := context.Background()

	result, err := PublishRoster(ctx, mock, mailer, logger, "r-1")
	require.NoError(t, err)

	assert.Equal(t, 1, result.NotifiedCount)
	assert.Equal(t, 1, result.SkippedNoEmail)
}

func TestUnpublishRoster(t *testing.T) {
	mock := publishFixture()
	mock.roster.Published = true

	logger := zap.NewNop()
	ctx := context.Background()

	err := UnpublishRoster(ctx, mock, logger, "r-1")
	require.NoError(t, err)
	assert.True(t, mock.unpublished)
}

func TestUnpublishRoster_NotPublished(t *testing.T) {
	mock := publishFixture()
	logger := zap.NewNop()
	ctx := context.Background()

	err := UnpublishRoster(ctx, mock, logger, "r-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not published")
	assert.False(t, mock.unpublished)
}
