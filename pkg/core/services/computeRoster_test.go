package services

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/debate-rosters/internal/config"
	"github.com/jakechorley/debate-rosters/pkg/core/roster"
	"github.com/jakechorley/debate-rosters/pkg/db"
)

// mockComputeStore implements ComputeRosterStore for tests
type mockComputeStore struct {
	events      []db.Event
	competitors []db.Competitor
	signups     []db.Signup
	judges      []db.JudgeAssignment

	getEventsErr  error
	getSignupsErr error
}

func (m *mockComputeStore) GetEvents(ctx context.Context) ([]db.Event, error) {
	if m.getEventsErr != nil {
		return nil, m.getEventsErr
	}
	return m.events, nil
}

func (m *mockComputeStore) GetCompetitors(ctx context.Context, ids []string) ([]db.Competitor, error) {
	if ids == nil {
		return m.competitors, nil
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []db.Competitor
	for _, c := range m.competitors {
		if want[c.ID] {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockComputeStore) GetSignups(ctx context.Context, tournamentID string) ([]db.Signup, error) {
	if m.getSignupsErr != nil {
		return nil, m.getSignupsErr
	}
	var out []db.Signup
	for _, s := range m.signups {
		if s.TournamentID == tournamentID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockComputeStore) GetAcceptedJudges(ctx context.Context, tournamentID string) ([]db.JudgeAssignment, error) {
	var out []db.JudgeAssignment
	for _, j := range m.judges {
		if j.TournamentID == tournamentID && j.Accepted {
			out = append(out, j)
		}
	}
	return out, nil
}

func testConfig() *config.Config {
	return &config.Config{
		DatabaseURL:      "postgres://localhost/test",
		TournamentWeight: 0.7,
		EffortWeight:     0.3,
		SlotsPerJudge:    config.SlotsPerJudge{Speech: 6, LD: 2, PF: 4},
	}
}

func ldFixture() *mockComputeStore {
	mock := &mockComputeStore{
		events: []db.Event{
			{ID: "ev-ld", Name: "Lincoln Douglas", Category: 1},
		},
		judges: []db.JudgeAssignment{
			{ID: "ja-1", TournamentID: "t-1", JudgeID: "judge-1", EventID: "ev-ld", Accepted: true},
		},
	}

	// Ten competitors, descending points with competitor ID; both point
	// pools equal so the weighted score is 100-i under any weight split
	for i := 0; i < 10; i++ {
		id := string(rune('a' + i))
		mock.competitors = append(mock.competitors, db.Competitor{
			ID:               "c-" + id,
			FirstName:        "Comp",
			LastName:         id,
			TournamentPoints: float64(100 - i),
			EffortPoints:     float64(100 - i),
		})
		mock.signups = append(mock.signups, db.Signup{
			ID:           "s-" + id,
			TournamentID: "t-1",
			CompetitorID: "c-" + id,
			EventID:      "ev-ld",
			IsGoing:      true,
		})
	}

	return mock
}

func TestComputeRoster_LDTopTwo(t *testing.T) {
	mock := ldFixture()
	logger := zap.NewNop()
	ctx := context.Background()

	res, err := ComputeRoster(ctx, mock, testConfig(), logger, "t-1", rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	// One LD judge covers two slots
	assert.Equal(t, 2, res.Capacity.LD)
	require.Len(t, res.Allocation.RankView, 2)
	assert.Equal(t, "c-a", res.Allocation.RankView[0].CompetitorID)
	assert.Equal(t, 1, res.Allocation.RankView[0].Rank)
	assert.Equal(t, "c-b", res.Allocation.RankView[1].CompetitorID)
	assert.Equal(t, 2, res.Allocation.RankView[1].Rank)

	assert.Empty(t, res.Decrements)
	assert.Empty(t, res.Penalties)
}

func TestComputeRoster_DropPenaltyFiltersTopRank(t *testing.T) {
	mock := ldFixture()
	mock.competitors[0].DropPenalties = 1 // c-a

	logger := zap.NewNop()
	ctx := context.Background()

	res, err := ComputeRoster(ctx, mock, testConfig(), logger, "t-1", rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	// c-a is filtered out; the next two ranks fill the slots
	require.Len(t, res.Allocation.RankView, 2)
	assert.Equal(t, "c-b", res.Allocation.RankView[0].CompetitorID)
	assert.Equal(t, "c-c", res.Allocation.RankView[1].CompetitorID)

	require.Len(t, res.Penalties["ev-ld"], 1)
	entry := res.Penalties["ev-ld"][0]
	assert.Equal(t, "c-a", entry.CompetitorID)
	assert.Equal(t, 1, entry.OriginalRank)
	assert.Equal(t, "c-b", entry.ReplacementID)

	require.Len(t, res.Decrements, 1)
	assert.Equal(t, roster.DropDecrement{CompetitorID: "c-a", Amount: 1}, res.Decrements[0])
}

func TestComputeRoster_JudgeChildGuaranteedSeat(t *testing.T) {
	mock := ldFixture()
	// The judge's child is ranked last and would never make top 2
	mock.judges[0].ChildID = "c-j"

	logger := zap.NewNop()
	ctx := context.Background()

	res, err := ComputeRoster(ctx, mock, testConfig(), logger, "t-1", rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	selected := make(map[string]bool)
	for _, sel := range res.Allocation.EventView {
		selected[sel.CompetitorID] = true
	}
	assert.True(t, selected["c-j"], "judge's child should hold a guaranteed seat")
	assert.Len(t, res.Allocation.EventView, 2, "capacity still binds")
}

func TestComputeRoster_SkipsNotGoingSignups(t *testing.T) {
	mock := ldFixture()
	for i := range mock.signups {
		mock.signups[i].IsGoing = false
	}

	logger := zap.NewNop()
	ctx := context.Background()

	res, err := ComputeRoster(ctx, mock, testConfig(), logger, "t-1", rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	assert.Empty(t, res.Allocation.EventView)
}

func TestComputeRoster_UnknownEventCategory(t *testing.T) {
	mock := ldFixture()
	mock.events[0].Category = 9

	logger := zap.NewNop()
	ctx := context.Background()

	_, err := ComputeRoster(ctx, mock, testConfig(), logger, "t-1", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, roster.ErrUnknownCategory)
}

func TestComputeRoster_StoreError(t *testing.T) {
	mock := ldFixture()
	mock.getSignupsErr = errors.New("connection lost")

	logger := zap.NewNop()
	ctx := context.Background()

	_, err := ComputeRoster(ctx, mock, testConfig(), logger, "t-1", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch signups")
}
