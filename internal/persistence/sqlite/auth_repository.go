package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/conference-scheduler/internal/persistence"
)

// AuthSessionRepository implements persistence.AuthSessionRepository on SQLite.
type AuthSessionRepository struct {
	pool *ConnectionPool
}

// NewAuthSessionRepository creates a SQLite-backed auth session repository.
func NewAuthSessionRepository(pool *ConnectionPool) *AuthSessionRepository {
	return &AuthSessionRepository{pool: pool}
}

// CreateAuthSession stores a newly issued token.
func (r *AuthSessionRepository) CreateAuthSession(ctx context.Context, session persistence.AuthSession) error {
	_, err := r.pool.db.ExecContext(ctx, `
		INSERT INTO auth_sessions (id, user_id, token, expires_at, created_at, revoked_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		session.ID,
		session.UserID,
		session.Token,
		formatTime(session.ExpiresAt),
		formatTime(session.CreatedAt),
		nullTime(session.RevokedAt),
	)
	return mapError(err)
}

// GetAuthSessionByToken retrieves an auth session by its token value.
func (r *AuthSessionRepository) GetAuthSessionByToken(ctx context.Context, token string) (persistence.AuthSession, error) {
	row := r.pool.db.QueryRowContext(ctx, `
		SELECT id, user_id, token, expires_at, created_at, revoked_at
		FROM auth_sessions WHERE token = ?`, token)

	var session persistence.AuthSession
	var expiresStr, createdStr string
	var revokedStr sql.NullString

	err := row.Scan(
		&session.ID,
		&session.UserID,
		&session.Token,
		&expiresStr,
		&createdStr,
		&revokedStr,
	)
	if err != nil {
		return persistence.AuthSession{}, mapError(err)
	}

	if session.ExpiresAt, err = parseTime(expiresStr); err != nil {
		return persistence.AuthSession{}, fmt.Errorf("failed to parse expires_at: %w", err)
	}
	if session.CreatedAt, err = parseTime(createdStr); err != nil {
		return persistence.AuthSession{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if revokedStr.Valid {
		revoked, err := parseTime(revokedStr.String)
		if err != nil {
			return persistence.AuthSession{}, fmt.Errorf("failed to parse revoked_at: %w", err)
		}
		session.RevokedAt = &revoked
	}

	return session, nil
}

// RevokeAuthSession marks the token as revoked. Revoking an already revoked
// token is a no-op as long as the token exists.
func (r *AuthSessionRepository) RevokeAuthSession(ctx context.Context, token string, revokedAt time.Time) error {
	result, err := r.pool.db.ExecContext(ctx, `
		UPDATE auth_sessions
		SET revoked_at = COALESCE(revoked_at, ?)
		WHERE token = ?`,
		formatTime(revokedAt),
		token,
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

// DeleteExpiredAuthSessions removes sessions that expired before the
// reference time. Used for periodic cleanup.
func (r *AuthSessionRepository) DeleteExpiredAuthSessions(ctx context.Context, reference time.Time) error {
	_, err := r.pool.db.ExecContext(ctx,
		"DELETE FROM auth_sessions WHERE expires_at < ?", formatTime(reference))
	return mapError(err)
}
