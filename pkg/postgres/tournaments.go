package postgres

import (
	"context"
	"fmt"

	"github.com/jakechorley/debate-rosters/pkg/db"
)

// GetTournaments retrieves all tournament records
func (d *DB) GetTournaments(ctx context.Context) ([]db.Tournament, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, name, date, signup_deadline
		FROM tournament
		ORDER BY date
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tournaments: %w", err)
	}
	defer rows.Close()

	var tournaments []db.Tournament
	for rows.Next() {
		var t db.Tournament
		if err := rows.Scan(&t.ID, &t.Name, &t.Date, &t.SignupDeadline); err != nil {
			return nil, fmt.Errorf("failed to scan tournament: %w", err)
		}
		tournaments = append(tournaments, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tournaments: %w", err)
	}

	return tournaments, nil
}

// InsertTournaments inserts tournament records in a single transaction
func (d *DB) InsertTournaments(ctx context.Context, tournaments []db.Tournament) error {
	if len(tournaments) == 0 {
		return nil
	}

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, t := range tournaments {
		_, err := tx.Exec(ctx, `
			INSERT INTO tournament (id, name, date, signup_deadline)
			VALUES ($1, $2, $3, $4)
		`, t.ID, t.Name, t.Date, t.SignupDeadline)
		if err != nil {
			return fmt.Errorf("failed to insert tournament: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetEvents retrieves all event records
func (d *DB) GetEvents(ctx context.Context) ([]db.Event, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, name, category, is_partner_event
		FROM event
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []db.Event
	for rows.Next() {
		var e db.Event
		if err := rows.Scan(&e.ID, &e.Name, &e.Category, &e.IsPartnerEvent); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}

	return events, nil
}

// GetCompetitors retrieves competitor records by ID. An empty id list
// returns all competitors.
func (d *DB) GetCompetitors(ctx context.Context, ids []string) ([]db.Competitor, error) {
	query := `
		SELECT id, first_name, last_name, email, tournament_points, effort_points, drop_penalties
		FROM competitor
	`
	args := []any{}
	if len(ids) > 0 {
		query += ` WHERE id = ANY($1)`
		args = append(args, ids)
	}

	rows, err := d.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query competitors: %w", err)
	}
	defer rows.Close()

	var competitors []db.Competitor
	for rows.Next() {
		var c db.Competitor
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.TournamentPoints, &c.EffortPoints, &c.DropPenalties); err != nil {
			return nil, fmt.Errorf("failed to scan competitor: %w", err)
		}
		competitors = append(competitors, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating competitors: %w", err)
	}

	return competitors, nil
}
