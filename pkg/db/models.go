package db

import "time"

// Tournament represents a tournament record
type Tournament struct {
	ID             string
	Name           string
	Date           time.Time
	SignupDeadline time.Time
}

// Event represents a competition event. Category is 0=Speech, 1=LD,
// 2=PF; IsPartnerEvent marks events entered in pairs (e.g. PF).
type Event struct {
	ID             string
	Name           string
	Category       int
	IsPartnerEvent bool
}

// Competitor represents a team member who can sign up for tournaments.
// TournamentPoints and EffortPoints are maintained by the metrics
// system and combined into a weighted score at roster-generation time;
// DropPenalties is the outstanding drop-penalty count consumed during
// roster generation.
type Competitor struct {
	ID               string
	FirstName        string
	LastName         string
	Email            string
	TournamentPoints float64
	EffortPoints     float64
	DropPenalties    int
}

// Signup represents a competitor's registration for one event at a
// tournament
type Signup struct {
	ID           string
	TournamentID string
	CompetitorID string
	EventID      string
	PartnerID    string
	IsGoing      bool
}

// JudgeAssignment represents a judge's commitment to an event at a
// tournament. Only accepted assignments contribute roster capacity.
type JudgeAssignment struct {
	ID           string
	TournamentID string
	JudgeID      string
	ChildID      string
	EventID      string
	Accepted     bool
}

// Roster is the persisted snapshot of one allocation run
type Roster struct {
	ID           string
	TournamentID string
	Name         string
	CreatedAt    time.Time
	Published    bool
	PublishedAt  *time.Time
}

// RosterCompetitor is one selected (competitor, event) pair on a roster
type RosterCompetitor struct {
	ID           string
	RosterID     string
	CompetitorID string
	EventID      string
	Rank         int
}

// RosterJudge is a judge captured on a roster with their memoized
// capacity contribution
type RosterJudge struct {
	ID            string
	RosterID      string
	JudgeID       string
	ChildID       string
	EventID       string
	SlotsProvided int
}

// PenaltyEntry records a drop penalty applied during roster generation
type PenaltyEntry struct {
	ID            string
	RosterID      string
	TournamentID  string
	EventID       string
	CompetitorID  string
	OriginalRank  int
	UnitsApplied  int
	ReplacementID string
}

// RosterPartner is a partner pairing captured at roster-creation time.
// Partner1ID sorts before Partner2ID so a pair is stored once.
type RosterPartner struct {
	ID         string
	RosterID   string
	Partner1ID string
	Partner2ID string
}

// PublishedEntry links a competitor to a published roster so they can
// see their assignment; Notified tracks whether the email went out.
type PublishedEntry struct {
	ID           string
	RosterID     string
	TournamentID string
	CompetitorID string
	EventID      string
	Notified     bool
}

// DropDecrement is a pending penalty-counter decrement applied
// transactionally alongside roster persistence
type DropDecrement struct {
	CompetitorID string
	Amount       int
}

// RosterSnapshot bundles everything persisted in one roster-save
// transaction
type RosterSnapshot struct {
	Roster      Roster
	Competitors []RosterCompetitor
	Judges      []RosterJudge
	Penalties   []PenaltyEntry
	Partners    []RosterPartner
	Decrements  []DropDecrement
}
