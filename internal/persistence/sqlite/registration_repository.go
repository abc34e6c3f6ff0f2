package sqlite

import (
	"context"
	"fmt"

	"github.com/example/conference-scheduler/internal/persistence"
)

// RegistrationRepository implements persistence.RegistrationRepository on SQLite.
type RegistrationRepository struct {
	pool *ConnectionPool
}

// NewRegistrationRepository creates a SQLite-backed registration repository.
func NewRegistrationRepository(pool *ConnectionPool) *RegistrationRepository {
	return &RegistrationRepository{pool: pool}
}

const registrationColumns = "id, user_id, session_id, status, registered_at"

// CreateRegistration inserts a new registration. A second registration for
// the same user and session violates a unique constraint.
func (r *RegistrationRepository) CreateRegistration(ctx context.Context, registration persistence.Registration) error {
	if registration.ID == "" {
		return persistence.ErrConstraintViolation
	}

	_, err := r.pool.db.ExecContext(ctx, `
		INSERT INTO registrations (`+registrationColumns+`)
		VALUES (?, ?, ?, ?, ?)`,
		registration.ID,
		registration.UserID,
		registration.SessionID,
		registration.Status,
		formatTime(registration.RegisteredAt),
	)
	return mapError(err)
}

// UpdateRegistration rewrites the status of an existing registration.
func (r *RegistrationRepository) UpdateRegistration(ctx context.Context, registration persistence.Registration) error {
	result, err := r.pool.db.ExecContext(ctx,
		"UPDATE registrations SET status = ? WHERE id = ?",
		registration.Status, registration.ID)
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

// GetRegistration retrieves a registration by ID.
func (r *RegistrationRepository) GetRegistration(ctx context.Context, id string) (persistence.Registration, error) {
	if id == "" {
		return persistence.Registration{}, persistence.ErrNotFound
	}

	row := r.pool.db.QueryRowContext(ctx,
		"SELECT "+registrationColumns+" FROM registrations WHERE id = ?", id)
	registration, err := scanRegistration(row)
	if err != nil {
		return persistence.Registration{}, mapError(err)
	}
	return registration, nil
}

// GetRegistrationByUserAndSession retrieves the registration a user holds
// for a session, if any.
func (r *RegistrationRepository) GetRegistrationByUserAndSession(ctx context.Context, userID, sessionID string) (persistence.Registration, error) {
	row := r.pool.db.QueryRowContext(ctx,
		"SELECT "+registrationColumns+" FROM registrations WHERE user_id = ? AND session_id = ?",
		userID, sessionID)
	registration, err := scanRegistration(row)
	if err != nil {
		return persistence.Registration{}, mapError(err)
	}
	return registration, nil
}

// ListRegistrationsByUser returns a user's registrations ordered by date.
func (r *RegistrationRepository) ListRegistrationsByUser(ctx context.Context, userID string) ([]persistence.Registration, error) {
	return r.queryRegistrations(ctx,
		"SELECT "+registrationColumns+" FROM registrations WHERE user_id = ? ORDER BY registered_at ASC, id ASC",
		userID)
}

// ListRegistrationsBySession returns a session's registrations ordered by date.
func (r *RegistrationRepository) ListRegistrationsBySession(ctx context.Context, sessionID string) ([]persistence.Registration, error) {
	return r.queryRegistrations(ctx,
		"SELECT "+registrationColumns+" FROM registrations WHERE session_id = ? ORDER BY registered_at ASC, id ASC",
		sessionID)
}

// CountRegistrationsBySessionStatus counts a session's registrations in the
// given status.
func (r *RegistrationRepository) CountRegistrationsBySessionStatus(ctx context.Context, sessionID, status string) (int, error) {
	var count int
	err := r.pool.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM registrations WHERE session_id = ? AND status = ?",
		sessionID, status).Scan(&count)
	if err != nil {
		return 0, mapError(err)
	}
	return count, nil
}

// DeleteRegistrationsBySession removes every registration for a session.
func (r *RegistrationRepository) DeleteRegistrationsBySession(ctx context.Context, sessionID string) error {
	_, err := r.pool.db.ExecContext(ctx,
		"DELETE FROM registrations WHERE session_id = ?", sessionID)
	return mapError(err)
}

func (r *RegistrationRepository) queryRegistrations(ctx context.Context, query string, args ...any) ([]persistence.Registration, error) {
	rows, err := r.pool.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var registrations []persistence.Registration
	for rows.Next() {
		registration, err := scanRegistration(rows)
		if err != nil {
			return nil, mapError(err)
		}
		registrations = append(registrations, registration)
	}
	return registrations, rows.Err()
}

func scanRegistration(row rowScanner) (persistence.Registration, error) {
	var registration persistence.Registration
	var registeredStr string

	err := row.Scan(
		&registration.ID,
		&registration.UserID,
		&registration.SessionID,
		&registration.Status,
		&registeredStr,
	)
	if err != nil {
		return persistence.Registration{}, err
	}

	if registration.RegisteredAt, err = parseTime(registeredStr); err != nil {
		return persistence.Registration{}, fmt.Errorf("failed to parse registered_at: %w", err)
	}

	return registration, nil
}
