package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/example/conference-scheduler/internal/persistence"
)

// SessionRepository implements persistence.SessionRepository on SQLite.
type SessionRepository struct {
	pool *ConnectionPool
}

// NewSessionRepository creates a SQLite-backed session repository.
func NewSessionRepository(pool *ConnectionPool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

const sessionColumns = "id, conference_id, title, description, session_type, speaker, start_time, end_time, room_id, created_by, created_at, updated_at"

// CreateSession inserts a session and its resource allocations atomically.
func (r *SessionRepository) CreateSession(ctx context.Context, session persistence.Session) error {
	if session.ID == "" {
		return persistence.ErrConstraintViolation
	}

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO sessions (`+sessionColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			session.ID,
			session.ConferenceID,
			session.Title,
			nullString(session.Description),
			session.SessionType,
			nullString(session.Speaker),
			formatTime(session.Start),
			formatTime(session.End),
			nullString(session.RoomID),
			nullIfEmpty(session.CreatedBy),
			formatTime(session.CreatedAt),
			formatTime(session.UpdatedAt),
		)
		if err != nil {
			return mapError(err)
		}

		return insertAllocations(tx, session.ID, session.Allocations)
	})
}

// UpdateSession rewrites a session row and replaces its allocations.
// ConferenceID, CreatedBy, and CreatedAt keep their stored values.
func (r *SessionRepository) UpdateSession(ctx context.Context, session persistence.Session) error {
	if session.ID == "" {
		return persistence.ErrNotFound
	}

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		result, err := tx.Exec(`
			UPDATE sessions
			SET title = ?, description = ?, session_type = ?, speaker = ?,
			    start_time = ?, end_time = ?, room_id = ?, updated_at = ?
			WHERE id = ?`,
			session.Title,
			nullString(session.Description),
			session.SessionType,
			nullString(session.Speaker),
			formatTime(session.Start),
			formatTime(session.End),
			nullString(session.RoomID),
			formatTime(session.UpdatedAt),
			session.ID,
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

		if _, err := tx.Exec("DELETE FROM session_resources WHERE session_id = ?", session.ID); err != nil {
			return mapError(err)
		}

		return insertAllocations(tx, session.ID, session.Allocations)
	})
}

// GetSession retrieves a session and its allocations by ID.
func (r *SessionRepository) GetSession(ctx context.Context, id string) (persistence.Session, error) {
	if id == "" {
		return persistence.Session{}, persistence.ErrNotFound
	}

	row := r.pool.db.QueryRowContext(ctx, "SELECT "+sessionColumns+" FROM sessions WHERE id = ?", id)
	session, err := scanSession(row)
	if err != nil {
		return persistence.Session{}, mapError(err)
	}

	allocations, err := r.loadAllocations(ctx, id)
	if err != nil {
		return persistence.Session{}, err
	}
	session.Allocations = allocations

	return session, nil
}

// ListSessions returns sessions matching the filter ordered by start time.
func (r *SessionRepository) ListSessions(ctx context.Context, filter persistence.SessionFilter) ([]persistence.Session, error) {
	query := "SELECT " + sessionColumns + " FROM sessions"

	var conditions []string
	var args []any

	if filter.ConferenceID != nil {
		conditions = append(conditions, "conference_id = ?")
		args = append(args, *filter.ConferenceID)
	}
	if filter.RoomID != nil {
		conditions = append(conditions, "room_id = ?")
		args = append(args, *filter.RoomID)
	}
	if filter.StartsAfter != nil {
		conditions = append(conditions, "end_time > ?")
		args = append(args, formatTime(*filter.StartsAfter))
	}
	if filter.EndsBefore != nil {
		conditions = append(conditions, "start_time < ?")
		args = append(args, formatTime(*filter.EndsBefore))
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY start_time ASC, id ASC"

	return r.querySessions(ctx, query, args...)
}

// ListSessionsByRoom returns every session assigned to the room, excluding
// the session identified by excludeID when non-empty.
func (r *SessionRepository) ListSessionsByRoom(ctx context.Context, roomID, excludeID string) ([]persistence.Session, error) {
	query := "SELECT " + sessionColumns + " FROM sessions WHERE room_id = ?"
	args := []any{roomID}
	if excludeID != "" {
		query += " AND id != ?"
		args = append(args, excludeID)
	}
	query += " ORDER BY start_time ASC, id ASC"

	return r.querySessions(ctx, query, args...)
}

// ListSessionsByResourceOverlap returns sessions holding an allocation for
// the resource whose [start_time, end_time) interval overlaps [start, end).
func (r *SessionRepository) ListSessionsByResourceOverlap(ctx context.Context, resourceID string, start, end time.Time, excludeID string) ([]persistence.Session, error) {
	query := `
		SELECT DISTINCT s.id, s.conference_id, s.title, s.description, s.session_type, s.speaker,
		       s.start_time, s.end_time, s.room_id, s.created_by, s.created_at, s.updated_at
		FROM sessions s
		JOIN session_resources sr ON sr.session_id = s.id
		WHERE sr.resource_id = ?
		  AND s.start_time < ?
		  AND ? < s.end_time`
	args := []any{resourceID, formatTime(end), formatTime(start)}
	if excludeID != "" {
		query += " AND s.id != ?"
		args = append(args, excludeID)
	}
	query += " ORDER BY s.start_time ASC, s.id ASC"

	return r.querySessions(ctx, query, args...)
}

// DeleteSession removes a session, its allocations, and its registrations.
func (r *SessionRepository) DeleteSession(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM registrations WHERE session_id = ?", id); err != nil {
			return mapError(err)
		}
		if _, err := tx.Exec("DELETE FROM session_resources WHERE session_id = ?", id); err != nil {
			return mapError(err)
		}

		result, err := tx.Exec("DELETE FROM sessions WHERE id = ?", id)
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

func (r *SessionRepository) querySessions(ctx context.Context, query string, args ...any) ([]persistence.Session, error) {
	rows, err := r.pool.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var sessions []persistence.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, mapError(err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	for i := range sessions {
		allocations, err := r.loadAllocations(ctx, sessions[i].ID)
		if err != nil {
			return nil, err
		}
		sessions[i].Allocations = allocations
	}

	return sessions, nil
}

func (r *SessionRepository) loadAllocations(ctx context.Context, sessionID string) ([]persistence.Allocation, error) {
	rows, err := r.pool.db.QueryContext(ctx, `
		SELECT resource_id, quantity
		FROM session_resources
		WHERE session_id = ?
		ORDER BY position ASC`, sessionID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var allocations []persistence.Allocation
	for rows.Next() {
		var allocation persistence.Allocation
		if err := rows.Scan(&allocation.ResourceID, &allocation.Quantity); err != nil {
			return nil, mapError(err)
		}
		allocations = append(allocations, allocation)
	}
	return allocations, rows.Err()
}

func insertAllocations(tx *sql.Tx, sessionID string, allocations []persistence.Allocation) error {
	for position, allocation := range allocations {
		_, err := tx.Exec(`
			INSERT INTO session_resources (session_id, resource_id, quantity, position)
			VALUES (?, ?, ?, ?)`,
			sessionID, allocation.ResourceID, allocation.Quantity, position)
		if err != nil {
			return mapError(err)
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (persistence.Session, error) {
	var session persistence.Session
	var description, speaker, roomID, createdBy sql.NullString
	var startStr, endStr, createdStr, updatedStr string

	err := row.Scan(
		&session.ID,
		&session.ConferenceID,
		&session.Title,
		&description,
		&session.SessionType,
		&speaker,
		&startStr,
		&endStr,
		&roomID,
		&createdBy,
		&createdStr,
		&updatedStr,
	)
	if err != nil {
		return persistence.Session{}, err
	}

	session.Description = stringPtr(description)
	session.Speaker = stringPtr(speaker)
	session.RoomID = stringPtr(roomID)
	if createdBy.Valid {
		session.CreatedBy = createdBy.String
	}

	if session.Start, err = parseTime(startStr); err != nil {
		return persistence.Session{}, fmt.Errorf("failed to parse start_time: %w", err)
	}
	if session.End, err = parseTime(endStr); err != nil {
		return persistence.Session{}, fmt.Errorf("failed to parse end_time: %w", err)
	}
	if session.CreatedAt, err = parseTime(createdStr); err != nil {
		return persistence.Session{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if session.UpdatedAt, err = parseTime(updatedStr); err != nil {
		return persistence.Session{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return session, nil
}
