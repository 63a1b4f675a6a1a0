package roster

import "fmt"

// CapacityFromJudges sums competitor slots per category across accepted
// judge assignments. Each judge contributes the slot count of their
// event's category from the policy table. Unaccepted assignments are
// skipped; a judge assigned to an event missing from the category map is
// a data-integrity failure, not a default.
func CapacityFromJudges(judges []JudgeAssignment, categories map[string]Category, policies map[Category]CategoryPolicy) (Capacity, error) {
	var cap Capacity
	for _, j := range judges {
		if !j.Accepted {
			continue
		}
		cat, ok := categories[j.EventID]
		if !ok {
			return Capacity{}, fmt.Errorf("%w: judge %s assigned to event %s", ErrUnknownEvent, j.JudgeID, j.EventID)
		}
		policy, ok := policies[cat]
		if !ok {
			return Capacity{}, fmt.Errorf("%w: category %s has no policy", ErrUnknownCategory, cat)
		}
		switch cat {
		case CategorySpeech:
			cap.Speech += policy.SlotsPerJudge
		case CategoryLD:
			cap.LD += policy.SlotsPerJudge
		case CategoryPF:
			cap.PF += policy.SlotsPerJudge
		}
	}
	return cap, nil
}

// SlotsForJudge returns the capacity contribution of a single accepted
// judge, memoized onto the persisted roster-judge row.
func SlotsForJudge(j JudgeAssignment, categories map[string]Category, policies map[Category]CategoryPolicy) (int, error) {
	cat, ok := categories[j.EventID]
	if !ok {
		return 0, fmt.Errorf("%w: judge %s assigned to event %s", ErrUnknownEvent, j.JudgeID, j.EventID)
	}
	policy, ok := policies[cat]
	if !ok {
		return 0, fmt.Errorf("%w: category %s has no policy", ErrUnknownCategory, cat)
	}
	return policy.SlotsPerJudge, nil
}
