package roster

// Category classifies an event and drives both judge capacity and the
// selection policy used when filling slots.
type Category int

const (
	CategorySpeech Category = iota
	CategoryLD
	CategoryPF
)

// SelectionPolicy determines how an event's slots are filled
type SelectionPolicy int

const (
	// SelectRotation round-robins across all events of the category,
	// drawing from a category-wide slot pool
	SelectRotation SelectionPolicy = iota

	// SelectTopN takes the top N competitors per event, where N is the
	// category's total capacity
	SelectTopN
)

// CategoryPolicy carries the per-category constants: how many competitor
// slots each accepted judge contributes and which selection policy applies.
type CategoryPolicy struct {
	SlotsPerJudge int
	Selection     SelectionPolicy
}

// DefaultPolicies returns the standard policy table. Slot counts can be
// overridden from configuration; the selection policy per category is fixed.
func DefaultPolicies() map[Category]CategoryPolicy {
	return map[Category]CategoryPolicy{
		CategorySpeech: {SlotsPerJudge: 6, Selection: SelectRotation},
		CategoryLD:     {SlotsPerJudge: 2, Selection: SelectTopN},
		CategoryPF:     {SlotsPerJudge: 4, Selection: SelectTopN},
	}
}

// String returns the display name used in exports and logs
func (c Category) String() string {
	switch c {
	case CategorySpeech:
		return "Speech"
	case CategoryLD:
		return "LD"
	case CategoryPF:
		return "PF"
	}
	return "Unknown"
}

// Signup is a competitor's registration for one event at a tournament.
// WeightedScore is computed upstream by the metrics system and is treated
// as an opaque sortable number here. DropPenalties is read-only within the
// algorithm; decrements are reported as instructions, never applied in place.
type Signup struct {
	CompetitorID  string
	EventID       string
	WeightedScore float64
	DropPenalties int
	PartnerID     string
	IsGoing       bool
}

// JudgeAssignment is an accepted judge's commitment to an event.
// ChildID is the judge's own child, who is guaranteed a roster seat
// in the judged event if they signed up.
type JudgeAssignment struct {
	JudgeID  string
	ChildID  string
	EventID  string
	Accepted bool
}

// Capacity holds the total competitor slots per category, summed across
// all accepted judges.
type Capacity struct {
	Speech int
	LD     int
	PF     int
}

// ForCategory returns the slot count for the given category
func (c Capacity) ForCategory(cat Category) int {
	switch cat {
	case CategorySpeech:
		return c.Speech
	case CategoryLD:
		return c.LD
	case CategoryPF:
		return c.PF
	}
	return 0
}

// PenaltyEntry records one applied drop penalty: who was filtered out,
// where they ranked before removal, and who moved up in their place.
type PenaltyEntry struct {
	EventID       string
	CompetitorID  string
	OriginalRank  int
	ReplacementID string
	UnitsApplied  int
}

// DropDecrement is a side-effect instruction produced by the penalty
// filter. The caller applies these transactionally alongside roster
// persistence; the filter itself never mutates competitor records.
type DropDecrement struct {
	CompetitorID string
	Amount       int
}

// Selection is one (competitor, event) pair chosen by the allocator
type Selection struct {
	CompetitorID string
	EventID      string
}

// RankedSelection pairs a selection with the competitor's 1-indexed
// position in the filtered ranking it was drawn from.
type RankedSelection struct {
	CompetitorID string
	EventID      string
	Rank         int
}

// Result is the allocator's output: the unordered event view, the
// parallel rank view, and the set of picks made through a randomized or
// middle-offset path (kept for audit display).
type Result struct {
	EventView        []Selection
	RankView         []RankedSelection
	RandomSelections map[Selection]bool
}
