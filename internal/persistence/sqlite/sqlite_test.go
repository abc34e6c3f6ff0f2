package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/example/conference-scheduler/internal/persistence"
)

// setupTestPool opens a temp-file database with the full schema applied.
func setupTestPool(t *testing.T) *ConnectionPool {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	pool, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { pool.Close() })

	if err := pool.Migrate(context.Background()); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return pool
}

var testEpoch = time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC)

func at(hours int) time.Time {
	return testEpoch.Add(time.Duration(hours) * time.Hour)
}

func strptr(s string) *string {
	return &s
}

func createTestUser(t *testing.T, pool *ConnectionPool, id, email string) {
	t.Helper()

	repo := NewUserRepository(pool)
	err := repo.CreateUser(context.Background(), persistence.User{
		ID:           id,
		Email:        email,
		DisplayName:  "Test User",
		PasswordHash: "hash",
		CreatedAt:    testEpoch,
		UpdatedAt:    testEpoch,
	})
	if err != nil {
		t.Fatalf("Failed to create test user %s: %v", id, err)
	}
}

func createTestConference(t *testing.T, pool *ConnectionPool, id string, start, end time.Time) {
	t.Helper()

	repo := NewConferenceRepository(pool)
	err := repo.CreateConference(context.Background(), persistence.Conference{
		ID:        id,
		Name:      "Test Conference",
		Start:     start,
		End:       end,
		CreatedAt: testEpoch,
		UpdatedAt: testEpoch,
	})
	if err != nil {
		t.Fatalf("Failed to create test conference %s: %v", id, err)
	}
}

func createTestRoom(t *testing.T, pool *ConnectionPool, id, roomNumber string) {
	t.Helper()

	repo := NewRoomRepository(pool)
	err := repo.CreateRoom(context.Background(), persistence.Room{
		ID:         id,
		RoomNumber: roomNumber,
		Capacity:   30,
		CreatedAt:  testEpoch,
		UpdatedAt:  testEpoch,
	})
	if err != nil {
		t.Fatalf("Failed to create test room %s: %v", id, err)
	}
}

func createTestResource(t *testing.T, pool *ConnectionPool, id, name string, total int) {
	t.Helper()

	repo := NewResourceRepository(pool)
	err := repo.CreateResource(context.Background(), persistence.Resource{
		ID:            id,
		Name:          name,
		TotalQuantity: total,
		CreatedAt:     testEpoch,
		UpdatedAt:     testEpoch,
	})
	if err != nil {
		t.Fatalf("Failed to create test resource %s: %v", id, err)
	}
}

func createTestSession(t *testing.T, pool *ConnectionPool, session persistence.Session) {
	t.Helper()

	if session.SessionType == "" {
		session.SessionType = "PRESENTATION"
	}
	if session.Title == "" {
		session.Title = "Test Session"
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = testEpoch
		session.UpdatedAt = testEpoch
	}

	repo := NewSessionRepository(pool)
	if err := repo.CreateSession(context.Background(), session); err != nil {
		t.Fatalf("Failed to create test session %s: %v", session.ID, err)
	}
}
