package services

import (
	"fmt"

	"github.com/jakechorley/debate-rosters/internal/config"
	"github.com/jakechorley/debate-rosters/pkg/core/roster"
	"github.com/jakechorley/debate-rosters/pkg/db"
)

// fullName returns the competitor's display name
func fullName(c db.Competitor) string {
	return fmt.Sprintf("%s %s", c.FirstName, c.LastName)
}

// categoryOf converts a stored event category code to the allocator's
// category type
func categoryOf(e db.Event) (roster.Category, error) {
	switch e.Category {
	case 0:
		return roster.CategorySpeech, nil
	case 1:
		return roster.CategoryLD, nil
	case 2:
		return roster.CategoryPF, nil
	}
	return 0, fmt.Errorf("%w: event %s has category %d", roster.ErrUnknownCategory, e.ID, e.Category)
}

// buildCategories maps event IDs to allocator categories
func buildCategories(events []db.Event) (map[string]roster.Category, error) {
	categories := make(map[string]roster.Category, len(events))
	for _, e := range events {
		cat, err := categoryOf(e)
		if err != nil {
			return nil, err
		}
		categories[e.ID] = cat
	}
	return categories, nil
}

// policiesFromConfig builds the policy table with configured slot counts
// layered over the standard selection policies
func policiesFromConfig(cfg *config.Config) map[roster.Category]roster.CategoryPolicy {
	policies := roster.DefaultPolicies()

	speech := policies[roster.CategorySpeech]
	speech.SlotsPerJudge = cfg.SlotsPerJudge.Speech
	policies[roster.CategorySpeech] = speech

	ld := policies[roster.CategoryLD]
	ld.SlotsPerJudge = cfg.SlotsPerJudge.LD
	policies[roster.CategoryLD] = ld

	pf := policies[roster.CategoryPF]
	pf.SlotsPerJudge = cfg.SlotsPerJudge.PF
	policies[roster.CategoryPF] = pf

	return policies
}

// competitorsByID indexes competitors for name lookups
func competitorsByID(competitors []db.Competitor) map[string]db.Competitor {
	byID := make(map[string]db.Competitor, len(competitors))
	for _, c := range competitors {
		byID[c.ID] = c
	}
	return byID
}

// eventsByID indexes events for name lookups
func eventsByID(events []db.Event) map[string]db.Event {
	byID := make(map[string]db.Event, len(events))
	for _, e := range events {
		byID[e.ID] = e
	}
	return byID
}
