package roster

import (
	"fmt"
	"math/rand"
	"slices"
	"time"
)

// Input carries everything the allocator needs: penalty-filtered ranked
// lists, the event category map, per-category capacity, the policy
// table, accepted-judge counts per category, and the set of judges'
// children (who are guaranteed seats in the event their parent judges).
type Input struct {
	Ranked            map[string][]Signup
	Categories        map[string]Category
	Capacity          Capacity
	Policies          map[Category]CategoryPolicy
	JudgesPerCategory map[Category]int
	JudgeChildIDs     map[string]bool
}

// allocation tracks selection state across all category passes
type allocation struct {
	in  Input
	rng *rand.Rand

	selected      map[string]bool
	partners      map[string]string
	perEventCount map[string]int
	categoryCount map[Category]int

	result Result
}

// Allocate fills competitor slots from the filtered rankings.
//
// Speech events share a category-wide slot pool filled by round-robin
// rotation; with 4 or more Speech events every 5th pick is drawn from
// the middle third of that event's list instead of the next rank. LD
// and PF events are filled top-N per event; with 2 or more judges of
// the category the starting index shifts to the list's middle, and
// those picks are recorded as random selections.
//
// Randomized picks draw from rng; pass a seeded source for
// reproducible output. A nil rng falls back to a time-seeded source.
// Running out of competitors before capacity is normal and yields a
// short result, not an error.
func Allocate(in Input, rng *rand.Rand) (*Result, error) {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if in.Policies == nil {
		in.Policies = DefaultPolicies()
	}

	for eventID := range in.Ranked {
		if _, ok := in.Categories[eventID]; !ok {
			return nil, fmt.Errorf("%w: signups reference event %s", ErrUnknownCategory, eventID)
		}
	}

	a := &allocation{
		in:            in,
		rng:           rng,
		selected:      make(map[string]bool),
		partners:      buildPartnerMap(in.Ranked),
		perEventCount: make(map[string]int),
		categoryCount: make(map[Category]int),
		result: Result{
			EventView:        []Selection{},
			RankView:         []RankedSelection{},
			RandomSelections: make(map[Selection]bool),
		},
	}

	a.allocateRotation(CategorySpeech)
	a.allocateTopN(CategoryLD)
	a.allocateTopN(CategoryPF)

	return &a.result, nil
}

// buildPartnerMap indexes partner relationships both ways from the
// ranked signups
func buildPartnerMap(ranked map[string][]Signup) map[string]string {
	partners := make(map[string]string)
	for _, signups := range ranked {
		for _, s := range signups {
			if s.PartnerID != "" {
				partners[s.CompetitorID] = s.PartnerID
				partners[s.PartnerID] = s.CompetitorID
			}
		}
	}
	return partners
}

// eventsOf returns the category's event IDs in a stable order
func (a *allocation) eventsOf(cat Category) []string {
	var ids []string
	for eventID, c := range a.in.Categories {
		if c == cat {
			ids = append(ids, eventID)
		}
	}
	slices.Sort(ids)
	return ids
}

// add selects a competitor (and their partner, for partner events) into
// the given event. Returns false without side effects when the
// competitor is already selected elsewhere, or when their partner is
// unavailable: already taken, or not in this event's ranked list.
func (a *allocation) add(s Signup, eventID string, rank int, random bool) bool {
	if a.selected[s.CompetitorID] {
		return false
	}

	cat := a.in.Categories[eventID]
	list := a.in.Ranked[eventID]

	partnerID := a.partners[s.CompetitorID]
	if partnerID != "" {
		if a.selected[partnerID] {
			return false
		}
		if rankOf(list, partnerID) == 0 {
			return false
		}
		// The pair lands together; skip when only one slot remains.
		if a.categoryCount[cat]+2 > a.in.Capacity.ForCategory(cat) {
			return false
		}
	}

	a.selected[s.CompetitorID] = true
	a.record(s.CompetitorID, eventID, rank, cat, random)

	if partnerID != "" {
		a.selected[partnerID] = true
		a.record(partnerID, eventID, rankOf(list, partnerID), cat, random)
	}

	return true
}

func (a *allocation) record(competitorID, eventID string, rank int, cat Category, random bool) {
	sel := Selection{CompetitorID: competitorID, EventID: eventID}
	a.result.EventView = append(a.result.EventView, sel)
	a.result.RankView = append(a.result.RankView, RankedSelection{
		CompetitorID: competitorID,
		EventID:      eventID,
		Rank:         rank,
	})
	if random {
		a.result.RandomSelections[sel] = true
	}
	a.perEventCount[eventID]++
	a.categoryCount[cat]++
}

// rankOf returns the competitor's 1-indexed rank in the list, 0 if absent
func rankOf(list []Signup, competitorID string) int {
	for i, s := range list {
		if s.CompetitorID == competitorID {
			return i + 1
		}
	}
	return 0
}

// seedJudgeChildren guarantees seats for judges' children who signed up
// for an event of this category, bounded by the remaining capacity.
func (a *allocation) seedJudgeChildren(cat Category, events []string, capacity int) {
	if len(a.in.JudgeChildIDs) == 0 {
		return
	}
	for _, eventID := range events {
		for i, s := range a.in.Ranked[eventID] {
			if !a.in.JudgeChildIDs[s.CompetitorID] {
				continue
			}
			if a.categoryCount[cat] >= capacity {
				return
			}
			a.add(s, eventID, i+1, false)
		}
	}
}

// allocateRotation fills the category's shared slot pool by cycling
// through its events, taking the next unselected competitor from each
// list in turn. With 4+ events, every 5th pick (0-indexed positions
// congruent to 4 mod 5) substitutes a draw from the middle third of the
// event's list.
func (a *allocation) allocateRotation(cat Category) {
	capacity := a.in.Capacity.ForCategory(cat)
	events := a.eventsOf(cat)
	if capacity == 0 || len(events) == 0 {
		return
	}

	a.seedJudgeChildren(cat, events, capacity)

	indices := make(map[string]int, len(events))
	randomize := len(events) >= 4
	counter := 0

	for a.categoryCount[cat] < capacity {
		progressed := false
		for _, eventID := range events {
			competitors := a.in.Ranked[eventID]
			if indices[eventID] >= len(competitors) {
				continue
			}

			idx := indices[eventID]
			viaRandom := false
			if randomize && counter%5 == 4 && len(competitors) > 2 {
				midStart := len(competitors) / 3
				midEnd := 2 * len(competitors) / 3
				idx = midStart + a.rng.Intn(midEnd-midStart+1)
				viaRandom = true
			}

			for idx < len(competitors) {
				s := competitors[idx]
				if a.add(s, eventID, idx+1, viaRandom) {
					indices[eventID] = idx + 1
					counter++
					progressed = true
					break
				}
				idx++
				indices[eventID] = max(indices[eventID], idx)
			}

			if a.categoryCount[cat] >= capacity {
				return
			}
		}
		if !progressed {
			break
		}
	}
}

// allocateTopN fills each event of the category independently. The
// per-event cap is the category's total capacity; a category-wide guard
// keeps the combined total within capacity as well. With 2+ judges of
// the category the starting index moves to the list's middle and those
// picks are marked as random selections.
func (a *allocation) allocateTopN(cat Category) {
	capacity := a.in.Capacity.ForCategory(cat)
	events := a.eventsOf(cat)
	if capacity == 0 || len(events) == 0 {
		return
	}

	a.seedJudgeChildren(cat, events, capacity)

	offsetToMiddle := a.in.JudgesPerCategory[cat] >= 2

	for _, eventID := range events {
		competitors := a.in.Ranked[eventID]

		idx := 0
		for a.perEventCount[eventID] < capacity && idx < len(competitors) {
			if a.categoryCount[cat] >= capacity {
				return
			}

			pickIdx := idx
			viaRandom := false
			if offsetToMiddle && len(competitors) > 2 {
				pickIdx = min(idx+len(competitors)/2, len(competitors)-1)
				viaRandom = true
			}

			attempts := 0
			searchIdx := pickIdx
			for searchIdx < len(competitors) && attempts < len(competitors) {
				if a.add(competitors[searchIdx], eventID, searchIdx+1, viaRandom) {
					break
				}
				searchIdx++
				attempts++
			}

			idx++
			if attempts >= len(competitors) {
				break
			}
		}
	}
}
