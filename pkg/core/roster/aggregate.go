package roster

// GroupByEvent buckets tournament signups by event, keeping only
// confirmed attendees (IsGoing). Output lists carry no ordering
// guarantee; ranking happens downstream. An empty tournament yields an
// empty map, not an error.
func GroupByEvent(signups []Signup) map[string][]Signup {
	byEvent := make(map[string][]Signup)
	for _, s := range signups {
		if !s.IsGoing {
			continue
		}
		byEvent[s.EventID] = append(byEvent[s.EventID], s)
	}
	return byEvent
}
