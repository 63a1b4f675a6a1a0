package postgres

import (
	"context"
	"fmt"

	"github.com/jakechorley/debate-rosters/pkg/db"
)

// SaveRoster persists a full roster snapshot in a single transaction:
// the roster row, its competitors, judges, penalty entries, partner
// pairings, and the drop-penalty decrements those penalties imply. Any
// failure rolls back everything; no partially-saved roster is ever
// visible and no decrement is committed on rollback.
func (d *DB) SaveRoster(ctx context.Context, snapshot *db.RosterSnapshot) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	r := snapshot.Roster
	_, err = tx.Exec(ctx, `
		INSERT INTO roster (id, tournament_id, name, created_at, published, published_at)
		VALUES ($1, $2, $3, $4, FALSE, NULL)
	`, r.ID, r.TournamentID, r.Name, r.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert roster: %w", err)
	}

	for _, c := range snapshot.Competitors {
		_, err := tx.Exec(ctx, `
			INSERT INTO roster_competitor (id, roster_id, competitor_id, event_id, rank)
			VALUES ($1, $2, $3, $4, $5)
		`, c.ID, c.RosterID, c.CompetitorID, c.EventID, c.Rank)
		if err != nil {
			return fmt.Errorf("failed to insert roster competitor: %w", err)
		}
	}

	for _, j := range snapshot.Judges {
		var childID *string
		if j.ChildID != "" {
			childID = &j.ChildID
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO roster_judge (id, roster_id, judge_id, child_id, event_id, slots_provided)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, j.ID, j.RosterID, j.JudgeID, childID, j.EventID, j.SlotsProvided)
		if err != nil {
			return fmt.Errorf("failed to insert roster judge: %w", err)
		}
	}

	for _, p := range snapshot.Penalties {
		var replacementID *string
		if p.ReplacementID != "" {
			replacementID = &p.ReplacementID
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO penalty_entry (id, roster_id, tournament_id, event_id, competitor_id, original_rank, units_applied, replacement_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, p.ID, p.RosterID, p.TournamentID, p.EventID, p.CompetitorID, p.OriginalRank, p.UnitsApplied, replacementID)
		if err != nil {
			return fmt.Errorf("failed to insert penalty entry: %w", err)
		}
	}

	for _, p := range snapshot.Partners {
		_, err := tx.Exec(ctx, `
			INSERT INTO roster_partner (id, roster_id, partner1_id, partner2_id)
			VALUES ($1, $2, $3, $4)
		`, p.ID, p.RosterID, p.Partner1ID, p.Partner2ID)
		if err != nil {
			return fmt.Errorf("failed to insert roster partner: %w", err)
		}
	}

	// Penalty decrements commit or roll back with the roster itself
	for _, dec := range snapshot.Decrements {
		_, err := tx.Exec(ctx, `
			UPDATE competitor
			SET drop_penalties = GREATEST(drop_penalties - $2, 0)
			WHERE id = $1
		`, dec.CompetitorID, dec.Amount)
		if err != nil {
			return fmt.Errorf("failed to apply penalty decrement: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetRoster retrieves a single roster record
func (d *DB) GetRoster(ctx context.Context, rosterID string) (*db.Roster, error) {
	var r db.Roster
	err := d.pool.QueryRow(ctx, `
		SELECT id, tournament_id, name, created_at, published, published_at
		FROM roster
		WHERE id = $1
	`, rosterID).Scan(&r.ID, &r.TournamentID, &r.Name, &r.CreatedAt, &r.Published, &r.PublishedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to query roster %s: %w", rosterID, err)
	}
	return &r, nil
}

// GetRosters retrieves all roster records, newest first
func (d *DB) GetRosters(ctx context.Context) ([]db.Roster, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, tournament_id, name, created_at, published, published_at
		FROM roster
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query rosters: %w", err)
	}
	defer rows.Close()

	var rosters []db.Roster
	for rows.Next() {
		var r db.Roster
		if err := rows.Scan(&r.ID, &r.TournamentID, &r.Name, &r.CreatedAt, &r.Published, &r.PublishedAt); err != nil {
			return nil, fmt.Errorf("failed to scan roster: %w", err)
		}
		rosters = append(rosters, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rosters: %w", err)
	}

	return rosters, nil
}

// GetRosterCompetitors retrieves a roster's selected competitors
func (d *DB) GetRosterCompetitors(ctx context.Context, rosterID string) ([]db.RosterCompetitor, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, roster_id, competitor_id, event_id, rank
		FROM roster_competitor
		WHERE roster_id = $1
		ORDER BY event_id, rank
	`, rosterID)
	if err != nil {
		return nil, fmt.Errorf("failed to query roster competitors: %w", err)
	}
	defer rows.Close()

	var competitors []db.RosterCompetitor
	for rows.Next() {
		var c db.RosterCompetitor
		if err := rows.Scan(&c.ID, &c.RosterID, &c.CompetitorID, &c.EventID, &c.Rank); err != nil {
			return nil, fmt.Errorf("failed to scan roster competitor: %w", err)
		}
		competitors = append(competitors, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating roster competitors: %w", err)
	}

	return competitors, nil
}

// GetRosterJudges retrieves a roster's judges
func (d *DB) GetRosterJudges(ctx context.Context, rosterID string) ([]db.RosterJudge, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, roster_id, judge_id, child_id, event_id, slots_provided
		FROM roster_judge
		WHERE roster_id = $1
	`, rosterID)
	if err != nil {
		return nil, fmt.Errorf("failed to query roster judges: %w", err)
	}
	defer rows.Close()

	var judges []db.RosterJudge
	for rows.Next() {
		var j db.RosterJudge
		var childID *string
		if err := rows.Scan(&j.ID, &j.RosterID, &j.JudgeID, &childID, &j.EventID, &j.SlotsProvided); err != nil {
			return nil, fmt.Errorf("failed to scan roster judge: %w", err)
		}
		if childID != nil {
			j.ChildID = *childID
		}
		judges = append(judges, j)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating roster judges: %w", err)
	}

	return judges, nil
}

// GetPenaltyEntries retrieves the penalty entries recorded against a roster
func (d *DB) GetPenaltyEntries(ctx context.Context, rosterID string) ([]db.PenaltyEntry, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, roster_id, tournament_id, event_id, competitor_id, original_rank, units_applied, replacement_id
		FROM penalty_entry
		WHERE roster_id = $1
	`, rosterID)
	if err != nil {
		return nil, fmt.Errorf("failed to query penalty entries: %w", err)
	}
	defer rows.Close()

	var entries []db.PenaltyEntry
	for rows.Next() {
		var p db.PenaltyEntry
		var replacementID *string
		if err := rows.Scan(&p.ID, &p.RosterID, &p.TournamentID, &p.EventID, &p.CompetitorID, &p.OriginalRank, &p.UnitsApplied, &replacementID); err != nil {
			return nil, fmt.Errorf("failed to scan penalty entry: %w", err)
		}
		if replacementID != nil {
			p.ReplacementID = *replacementID
		}
		entries = append(entries, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating penalty entries: %w", err)
	}

	return entries, nil
}

// GetRosterPartners retrieves a roster's partner pairings
func (d *DB) GetRosterPartners(ctx context.Context, rosterID string) ([]db.RosterPartner, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, roster_id, partner1_id, partner2_id
		FROM roster_partner
		WHERE roster_id = $1
	`, rosterID)
	if err != nil {
		return nil, fmt.Errorf("failed to query roster partners: %w", err)
	}
	defer rows.Close()

	var partners []db.RosterPartner
	for rows.Next() {
		var p db.RosterPartner
		if err := rows.Scan(&p.ID, &p.RosterID, &p.Partner1ID, &p.Partner2ID); err != nil {
			return nil, fmt.Errorf("failed to scan roster partner: %w", err)
		}
		partners = append(partners, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating roster partners: %w", err)
	}

	return partners, nil
}

// InsertRosterCompetitors inserts competitor rows onto an existing
// roster (spreadsheet import path)
func (d *DB) InsertRosterCompetitors(ctx context.Context, competitors []db.RosterCompetitor) error {
	if len(competitors) == 0 {
		return nil
	}

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, c := range competitors {
		_, err := tx.Exec(ctx, `
			INSERT INTO roster_competitor (id, roster_id, competitor_id, event_id, rank)
			VALUES ($1, $2, $3, $4, $5)
		`, c.ID, c.RosterID, c.CompetitorID, c.EventID, c.Rank)
		if err != nil {
			return fmt.Errorf("failed to insert roster competitor: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// InsertRosterJudges inserts judge rows onto an existing roster
// (spreadsheet import path)
func (d *DB) InsertRosterJudges(ctx context.Context, judges []db.RosterJudge) error {
	if len(judges) == 0 {
		return nil
	}

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, j := range judges {
		var childID *string
		if j.ChildID != "" {
			childID = &j.ChildID
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO roster_judge (id, roster_id, judge_id, child_id, event_id, slots_provided)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, j.ID, j.RosterID, j.JudgeID, childID, j.EventID, j.SlotsProvided)
		if err != nil {
			return fmt.Errorf("failed to insert roster judge: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// RenameRoster updates a roster's display name
func (d *DB) RenameRoster(ctx context.Context, rosterID, name string) error {
	tag, err := d.pool.Exec(ctx, `UPDATE roster SET name = $2 WHERE id = $1`, rosterID, name)
	if err != nil {
		return fmt.Errorf("failed to rename roster: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("roster %s not found", rosterID)
	}
	return nil
}

// DeleteRoster removes a roster; competitor, judge, penalty, partner
// and published rows cascade
func (d *DB) DeleteRoster(ctx context.Context, rosterID string) error {
	tag, err := d.pool.Exec(ctx, `DELETE FROM roster WHERE id = $1`, rosterID)
	if err != nil {
		return fmt.Errorf("failed to delete roster: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("roster %s not found", rosterID)
	}
	return nil
}

// PublishRoster flips the published flag and records per-competitor
// published entries in one transaction
func (d *DB) PublishRoster(ctx context.Context, rosterID string, entries []db.PublishedEntry) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE roster SET published = TRUE, published_at = NOW()
		WHERE id = $1 AND published = FALSE
	`, rosterID)
	if err != nil {
		return fmt.Errorf("failed to publish roster: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("roster %s not found or already published", rosterID)
	}

	for _, e := range entries {
		_, err := tx.Exec(ctx, `
			INSERT INTO published_entry (id, roster_id, tournament_id, competitor_id, event_id, notified)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, e.ID, e.RosterID, e.TournamentID, e.CompetitorID, e.EventID, e.Notified)
		if err != nil {
			return fmt.Errorf("failed to insert published entry: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// UnpublishRoster clears the published flag and removes the roster's
// published entries
func (d *DB) UnpublishRoster(ctx context.Context, rosterID string) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE roster SET published = FALSE, published_at = NULL
		WHERE id = $1
	`, rosterID)
	if err != nil {
		return fmt.Errorf("failed to unpublish roster: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("roster %s not found", rosterID)
	}

	_, err = tx.Exec(ctx, `DELETE FROM published_entry WHERE roster_id = $1`, rosterID)
	if err != nil {
		return fmt.Errorf("failed to delete published entries: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// MarkNotified records that a competitor's publish notification was sent
func (d *DB) MarkNotified(ctx context.Context, rosterID, competitorID string) error {
	_, err := d.pool.Exec(ctx, `
		UPDATE published_entry SET notified = TRUE
		WHERE roster_id = $1 AND competitor_id = $2
	`, rosterID, competitorID)
	if err != nil {
		return fmt.Errorf("failed to mark notification sent: %w", err)
	}
	return nil
}
