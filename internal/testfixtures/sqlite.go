package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/example/conference-scheduler/internal/persistence"
	"github.com/example/conference-scheduler/internal/persistence/sqlite"
)

// SQLiteHarness provides repository access backed by a temporary SQLite
// database for integration-style persistence tests.
type SQLiteHarness struct {
	Users         persistence.UserRepository
	Conferences   persistence.ConferenceRepository
	Rooms         persistence.RoomRepository
	Resources     persistence.ResourceRepository
	Sessions      persistence.SessionRepository
	Registrations persistence.RegistrationRepository
	AuthSessions  persistence.AuthSessionRepository

	cleanup func()
}

// Close releases resources associated with the harness.
func (h *SQLiteHarness) Close() {
	if h != nil && h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// NewSQLiteHarness constructs a SQLiteHarness over a temporary database file
// that is migrated automatically. Callers may optionally invoke Close, but the
// helper also registers a cleanup callback with the provided testing.TB.
func NewSQLiteHarness(tb testing.TB) *SQLiteHarness {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "confsched.db")

	pool, err := sqlite.Open(path)
	if err != nil {
		tb.Fatalf("failed to open database: %v", err)
	}

	if err := pool.Migrate(context.Background()); err != nil {
		_ = pool.Close()
		tb.Fatalf("failed to migrate database: %v", err)
	}

	harness := &SQLiteHarness{
		Users:         sqlite.NewUserRepository(pool),
		Conferences:   sqlite.NewConferenceRepository(pool),
		Rooms:         sqlite.NewRoomRepository(pool),
		Resources:     sqlite.NewResourceRepository(pool),
		Sessions:      sqlite.NewSessionRepository(pool),
		Registrations: sqlite.NewRegistrationRepository(pool),
		AuthSessions:  sqlite.NewAuthSessionRepository(pool),
		cleanup: func() {
			_ = pool.Close()
		},
	}

	tb.Cleanup(harness.Close)
	return harness
}
