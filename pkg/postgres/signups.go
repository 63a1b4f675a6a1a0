package postgres

import (
	"context"
	"fmt"

	"github.com/jakechorley/debate-rosters/pkg/db"
)

// GetSignups retrieves all signup records for a tournament
func (d *DB) GetSignups(ctx context.Context, tournamentID string) ([]db.Signup, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, tournament_id, competitor_id, event_id, partner_id, is_going
		FROM signup
		WHERE tournament_id = $1
	`, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query signups: %w", err)
	}
	defer rows.Close()

	var signups []db.Signup
	for rows.Next() {
		var s db.Signup
		var partnerID *string
		if err := rows.Scan(&s.ID, &s.TournamentID, &s.CompetitorID, &s.EventID, &partnerID, &s.IsGoing); err != nil {
			return nil, fmt.Errorf("failed to scan signup: %w", err)
		}
		if partnerID != nil {
			s.PartnerID = *partnerID
		}
		signups = append(signups, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating signups: %w", err)
	}

	return signups, nil
}

// GetAcceptedJudges retrieves accepted judge assignments for a tournament
func (d *DB) GetAcceptedJudges(ctx context.Context, tournamentID string) ([]db.JudgeAssignment, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, tournament_id, judge_id, child_id, event_id, accepted
		FROM judge_assignment
		WHERE tournament_id = $1 AND accepted = TRUE
	`, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query judge assignments: %w", err)
	}
	defer rows.Close()

	var judges []db.JudgeAssignment
	for rows.Next() {
		var j db.JudgeAssignment
		var childID *string
		if err := rows.Scan(&j.ID, &j.TournamentID, &j.JudgeID, &childID, &j.EventID, &j.Accepted); err != nil {
			return nil, fmt.Errorf("failed to scan judge assignment: %w", err)
		}
		if childID != nil {
			j.ChildID = *childID
		}
		judges = append(judges, j)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating judge assignments: %w", err)
	}

	return judges, nil
}
