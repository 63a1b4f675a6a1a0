package roster

import (
	"cmp"
	"slices"
)

// Rank sorts each event's signups by weighted score, highest first.
// Ties break on competitor ID ascending so repeated runs over the same
// data produce the same order. Pure function; input lists are not
// mutated.
func Rank(byEvent map[string][]Signup) map[string][]Signup {
	ranked := make(map[string][]Signup, len(byEvent))
	for eventID, signups := range byEvent {
		list := slices.Clone(signups)
		slices.SortFunc(list, func(a, b Signup) int {
			if c := cmp.Compare(b.WeightedScore, a.WeightedScore); c != 0 {
				return c
			}
			return cmp.Compare(a.CompetitorID, b.CompetitorID)
		})
		ranked[eventID] = list
	}
	return ranked
}
