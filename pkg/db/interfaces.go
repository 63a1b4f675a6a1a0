package db

import "context"

// Database defines the full set of store operations. postgres.DB
// implements this interface; services depend on narrower per-operation
// subsets declared next to each service.
type Database interface {
	GetTournaments(ctx context.Context) ([]Tournament, error)
	InsertTournaments(ctx context.Context, tournaments []Tournament) error
	GetEvents(ctx context.Context) ([]Event, error)
	GetCompetitors(ctx context.Context, ids []string) ([]Competitor, error)
	GetSignups(ctx context.Context, tournamentID string) ([]Signup, error)
	GetAcceptedJudges(ctx context.Context, tournamentID string) ([]JudgeAssignment, error)

	SaveRoster(ctx context.Context, snapshot *RosterSnapshot) error
	GetRoster(ctx context.Context, rosterID string) (*Roster, error)
	GetRosters(ctx context.Context) ([]Roster, error)
	GetRosterCompetitors(ctx context.Context, rosterID string) ([]RosterCompetitor, error)
	GetRosterJudges(ctx context.Context, rosterID string) ([]RosterJudge, error)
	GetPenaltyEntries(ctx context.Context, rosterID string) ([]PenaltyEntry, error)
	GetRosterPartners(ctx context.Context, rosterID string) ([]RosterPartner, error)
	InsertRosterCompetitors(ctx context.Context, competitors []RosterCompetitor) error
	InsertRosterJudges(ctx context.Context, judges []RosterJudge) error
	RenameRoster(ctx context.Context, rosterID, name string) error
	DeleteRoster(ctx context.Context, rosterID string) error

	PublishRoster(ctx context.Context, rosterID string, entries []PublishedEntry) error
	UnpublishRoster(ctx context.Context, rosterID string) error
	MarkNotified(ctx context.Context, rosterID, competitorID string) error
}
