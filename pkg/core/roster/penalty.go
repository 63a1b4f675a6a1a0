package roster

// ApplyDropPenalties walks each event's ranked list and removes
// competitors carrying an outstanding drop penalty. For each removal it
// records a PenaltyEntry (with the competitor's 1-indexed rank before
// removal and the next clean competitor as replacement) and emits a
// DropDecrement instruction for exactly one penalty unit, even when the
// competitor holds more than one.
//
// A competitor with penalties in several events is decremented once per
// event appearance; the store deduplicates per-run application when the
// caller persists the instructions.
//
// The function never mutates its input. Callers that persist a roster
// must apply the returned decrements in the same transaction.
func ApplyDropPenalties(ranked map[string][]Signup) (map[string][]Signup, map[string][]PenaltyEntry, []DropDecrement) {
	filtered := make(map[string][]Signup, len(ranked))
	penalties := make(map[string][]PenaltyEntry)
	var decrements []DropDecrement

	decremented := make(map[string]bool)

	for eventID, signups := range ranked {
		kept := make([]Signup, 0, len(signups))
		for i, s := range signups {
			if s.DropPenalties <= 0 {
				kept = append(kept, s)
				continue
			}

			// Replacement is the next competitor down the ranking with
			// no outstanding penalty, if any.
			replacement := ""
			for j := i + 1; j < len(signups); j++ {
				if signups[j].DropPenalties == 0 {
					replacement = signups[j].CompetitorID
					break
				}
			}

			penalties[eventID] = append(penalties[eventID], PenaltyEntry{
				EventID:       eventID,
				CompetitorID:  s.CompetitorID,
				OriginalRank:  i + 1,
				ReplacementID: replacement,
				UnitsApplied:  1,
			})

			if !decremented[s.CompetitorID] {
				decrements = append(decrements, DropDecrement{
					CompetitorID: s.CompetitorID,
					Amount:       1,
				})
				decremented[s.CompetitorID] = true
			}
		}
		filtered[eventID] = kept
	}

	return filtered, penalties, decrements
}
