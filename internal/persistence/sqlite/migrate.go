package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// migrations are applied in order; each entry runs once inside its own
// transaction and is recorded in schema_migrations.
var migrations = []struct {
	version string
	sql     string
}{
	{
		version: "001_initial_schema",
		sql: `
CREATE TABLE users (
    id            TEXT PRIMARY KEY,
    email         TEXT NOT NULL UNIQUE COLLATE NOCASE,
    display_name  TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    is_admin      INTEGER NOT NULL DEFAULT 0,
    created_at    TEXT NOT NULL,
    updated_at    TEXT NOT NULL
);

CREATE TABLE conferences (
    id          TEXT PRIMARY KEY,
    name        TEXT NOT NULL,
    description TEXT,
    location    TEXT,
    start_time  TEXT NOT NULL,
    end_time    TEXT NOT NULL,
    created_by  TEXT REFERENCES users(id),
    created_at  TEXT NOT NULL,
    updated_at  TEXT NOT NULL,
    CHECK (end_time > start_time)
);

CREATE TABLE rooms (
    id          TEXT PRIMARY KEY,
    room_number TEXT NOT NULL UNIQUE,
    capacity    INTEGER NOT NULL CHECK (capacity > 0),
    location    TEXT,
    created_at  TEXT NOT NULL,
    updated_at  TEXT NOT NULL
);

CREATE TABLE resources (
    id             TEXT PRIMARY KEY,
    name           TEXT NOT NULL UNIQUE,
    description    TEXT,
    total_quantity INTEGER NOT NULL CHECK (total_quantity >= 0),
    created_at     TEXT NOT NULL,
    updated_at     TEXT NOT NULL
);

CREATE TABLE sessions (
    id            TEXT PRIMARY KEY,
    conference_id TEXT NOT NULL REFERENCES conferences(id) ON DELETE CASCADE,
    title         TEXT NOT NULL,
    description   TEXT,
    session_type  TEXT NOT NULL CHECK (session_type IN ('WORKSHOP', 'PRESENTATION', 'KEYNOTE')),
    speaker       TEXT,
    start_time    TEXT NOT NULL,
    end_time      TEXT NOT NULL,
    room_id       TEXT REFERENCES rooms(id),
    created_by    TEXT REFERENCES users(id),
    created_at    TEXT NOT NULL,
    updated_at    TEXT NOT NULL,
    CHECK (end_time > start_time)
);

CREATE TABLE session_resources (
    session_id  TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
    resource_id TEXT NOT NULL REFERENCES resources(id),
    quantity    INTEGER NOT NULL CHECK (quantity >= 1),
    position    INTEGER NOT NULL,
    PRIMARY KEY (session_id, resource_id)
);

CREATE TABLE registrations (
    id            TEXT PRIMARY KEY,
    user_id       TEXT NOT NULL REFERENCES users(id),
    session_id    TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
    status        TEXT NOT NULL CHECK (status IN ('REGISTERED', 'WAITLISTED', 'CANCELED')),
    registered_at TEXT NOT NULL,
    UNIQUE (user_id, session_id)
);

CREATE TABLE auth_sessions (
    id         TEXT PRIMARY KEY,
    user_id    TEXT NOT NULL REFERENCES users(id),
    token      TEXT NOT NULL UNIQUE,
    expires_at TEXT NOT NULL,
    created_at TEXT NOT NULL,
    revoked_at TEXT
);

CREATE INDEX idx_sessions_conference ON sessions(conference_id);
CREATE INDEX idx_sessions_room ON sessions(room_id);
CREATE INDEX idx_session_resources_resource ON session_resources(resource_id);
CREATE INDEX idx_registrations_session ON registrations(session_id);
CREATE INDEX idx_registrations_user ON registrations(user_id);
`,
	},
}

// Migrate brings the schema up to date, applying any pending migrations in
// sequential order. Already-applied versions are skipped.
func (cp *ConnectionPool) Migrate(ctx context.Context) error {
	if _, err := cp.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
		    version    TEXT PRIMARY KEY,
		    applied_at TEXT NOT NULL
		)`); err != nil {
		return fmt.Errorf("failed to initialize schema_migrations: %w", err)
	}

	applied := make(map[string]bool)
	rows, err := cp.db.QueryContext(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return fmt.Errorf("failed to read applied migrations: %w", err)
	}
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			rows.Close()
			return err
		}
		applied[version] = true
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	for _, migration := range migrations {
		if applied[migration.version] {
			continue
		}
		err := cp.WithTransaction(ctx, func(tx *sql.Tx) error {
			if _, err := tx.Exec(migration.sql); err != nil {
				return err
			}
			_, err := tx.Exec(
				"INSERT INTO schema_migrations (version, applied_at) VALUES (?, datetime('now'))",
				migration.version,
			)
			return err
		})
		if err != nil {
			return fmt.Errorf("migration %s failed: %w", migration.version, err)
		}
	}

	return nil
}
