package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/conference-scheduler/internal/persistence"
)

// ConferenceRepository implements persistence.ConferenceRepository on SQLite.
type ConferenceRepository struct {
	pool *ConnectionPool
}

// NewConferenceRepository creates a SQLite-backed conference repository.
func NewConferenceRepository(pool *ConnectionPool) *ConferenceRepository {
	return &ConferenceRepository{pool: pool}
}

const conferenceColumns = "id, name, description, location, start_time, end_time, created_by, created_at, updated_at"

// CreateConference inserts a new conference.
func (r *ConferenceRepository) CreateConference(ctx context.Context, conference persistence.Conference) error {
	if conference.ID == "" {
		return persistence.ErrConstraintViolation
	}

	_, err := r.pool.db.ExecContext(ctx, `
		INSERT INTO conferences (`+conferenceColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		conference.ID,
		conference.Name,
		nullString(conference.Description),
		nullString(conference.Location),
		formatTime(conference.Start),
		formatTime(conference.End),
		nullIfEmpty(conference.CreatedBy),
		formatTime(conference.CreatedAt),
		formatTime(conference.UpdatedAt),
	)
	return mapError(err)
}

// UpdateConference rewrites an existing conference; CreatedBy and CreatedAt
// keep their stored values.
func (r *ConferenceRepository) UpdateConference(ctx context.Context, conference persistence.Conference) error {
	result, err := r.pool.db.ExecContext(ctx, `
		UPDATE conferences
		SET name = ?, description = ?, location = ?, start_time = ?, end_time = ?, updated_at = ?
		WHERE id = ?`,
		conference.Name,
		nullString(conference.Description),
		nullString(conference.Location),
		formatTime(conference.Start),
		formatTime(conference.End),
		formatTime(conference.UpdatedAt),
		conference.ID,
	)
	if err != nil {
		return mapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// GetConference retrieves a conference by ID.
func (r *ConferenceRepository) GetConference(ctx context.Context, id string) (persistence.Conference, error) {
	if id == "" {
		return persistence.Conference{}, persistence.ErrNotFound
	}

	row := r.pool.db.QueryRowContext(ctx, "SELECT "+conferenceColumns+" FROM conferences WHERE id = ?", id)
	conference, err := scanConference(row)
	if err != nil {
		return persistence.Conference{}, mapError(err)
	}
	return conference, nil
}

// ListConferences returns all conferences ordered by start time.
func (r *ConferenceRepository) ListConferences(ctx context.Context) ([]persistence.Conference, error) {
	rows, err := r.pool.db.QueryContext(ctx,
		"SELECT "+conferenceColumns+" FROM conferences ORDER BY start_time ASC, id ASC")
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var conferences []persistence.Conference
	for rows.Next() {
		conference, err := scanConference(rows)
		if err != nil {
			return nil, mapError(err)
		}
		conferences = append(conferences, conference)
	}
	return conferences, rows.Err()
}

// DeleteConference removes a conference, cascading to its sessions, their
// allocations, and their registrations within one transaction.
func (r *ConferenceRepository) DeleteConference(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`
			DELETE FROM registrations
			WHERE session_id IN (SELECT id FROM sessions WHERE conference_id = ?)`, id); err != nil {
			return mapError(err)
		}
		if _, err := tx.Exec(`
			DELETE FROM session_resources
			WHERE session_id IN (SELECT id FROM sessions WHERE conference_id = ?)`, id); err != nil {
			return mapError(err)
		}
		if _, err := tx.Exec("DELETE FROM sessions WHERE conference_id = ?", id); err != nil {
			return mapError(err)
		}

		result, err := tx.Exec("DELETE FROM conferences WHERE id = ?", id)
		if err != nil {
			return mapError(err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if affected == 0 {
			return persistence.ErrNotFound
		}
		return nil
	})
}

func scanConference(row rowScanner) (persistence.Conference, error) {
	var conference persistence.Conference
	var description, location, createdBy sql.NullString
	var startStr, endStr, createdStr, updatedStr string

	err := row.Scan(
		&conference.ID,
		&conference.Name,
		&description,
		&location,
		&startStr,
		&endStr,
		&createdBy,
		&createdStr,
		&updatedStr,
	)
	if err != nil {
		return persistence.Conference{}, err
	}

	conference.Description = stringPtr(description)
	conference.Location = stringPtr(location)
	if createdBy.Valid {
		conference.CreatedBy = createdBy.String
	}

	if conference.Start, err = parseTime(startStr); err != nil {
		return persistence.Conference{}, fmt.Errorf("failed to parse start_time: %w", err)
	}
	if conference.End, err = parseTime(endStr); err != nil {
		return persistence.Conference{}, fmt.Errorf("failed to parse end_time: %w", err)
	}
	if conference.CreatedAt, err = parseTime(createdStr); err != nil {
		return persistence.Conference{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if conference.UpdatedAt, err = parseTime(updatedStr); err != nil {
		return persistence.Conference{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return conference, nil
}
