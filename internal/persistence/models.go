package persistence

import "time"

// User represents an account in the conference management domain.
type User struct {
	ID           string
	Email        string
	DisplayName  string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Conference represents a top-level event that owns sessions.
type Conference struct {
	ID          string
	Name        string
	Description *string
	Location    *string
	Start       time.Time
	End         time.Time
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Room represents a physical room sessions can be assigned to.
type Room struct {
	ID         string
	RoomNumber string
	Capacity   int
	Location   *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Resource represents a finite pool of shared equipment.
type Resource struct {
	ID            string
	Name          string
	Description   *string
	TotalQuantity int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Allocation is a session's claim on a resource for its time window.
type Allocation struct {
	ResourceID string
	Quantity   int
}

// Session represents a scheduled conference session and its allocations.
type Session struct {
	ID           string
	ConferenceID string
	Title        string
	Description  *string
	SessionType  string
	Speaker      *string
	Start        time.Time
	End          time.Time
	RoomID       *string
	Allocations  []Allocation
	CreatedBy    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Registration represents a user's attendance record for a session.
type Registration struct {
	ID           string
	UserID       string
	SessionID    string
	Status       string
	RegisteredAt time.Time
}

// AuthSession represents an authentication token issued to a user.
type AuthSession struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	RevokedAt *time.Time
}
