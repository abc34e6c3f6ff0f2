package persistence

import (
	"context"
	"time"
)

// UserRepository exposes CRUD operations for user accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, user User) error
	UpdateUser(ctx context.Context, user User) error
	GetUser(ctx context.Context, id string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	ListUsers(ctx context.Context) ([]User, error)
	DeleteUser(ctx context.Context, id string) error
}

// ConferenceRepository exposes CRUD operations for conferences. Deleting a
// conference cascades to its sessions and their registrations.
type ConferenceRepository interface {
	CreateConference(ctx context.Context, conference Conference) error
	UpdateConference(ctx context.Context, conference Conference) error
	GetConference(ctx context.Context, id string) (Conference, error)
	ListConferences(ctx context.Context) ([]Conference, error)
	DeleteConference(ctx context.Context, id string) error
}

// RoomRepository exposes CRUD operations for rooms.
type RoomRepository interface {
	CreateRoom(ctx context.Context, room Room) error
	UpdateRoom(ctx context.Context, room Room) error
	GetRoom(ctx context.Context, id string) (Room, error)
	ListRooms(ctx context.Context) ([]Room, error)
	DeleteRoom(ctx context.Context, id string) error
}

// ResourceRepository exposes CRUD operations for shared resources.
type ResourceRepository interface {
	CreateResource(ctx context.Context, resource Resource) error
	UpdateResource(ctx context.Context, resource Resource) error
	GetResource(ctx context.Context, id string) (Resource, error)
	ListResources(ctx context.Context) ([]Resource, error)
	DeleteResource(ctx context.Context, id string) error
}

// SessionFilter narrows session listings.
type SessionFilter struct {
	ConferenceID *string
	RoomID       *string
	StartsAfter  *time.Time
	EndsBefore   *time.Time
}

// SessionRepository stores conference sessions together with their resource
// allocations. Deleting a session cascades to its registrations.
type SessionRepository interface {
	CreateSession(ctx context.Context, session Session) error
	UpdateSession(ctx context.Context, session Session) error
	GetSession(ctx context.Context, id string) (Session, error)
	ListSessions(ctx context.Context, filter SessionFilter) ([]Session, error)
	// ListSessionsByRoom returns every session assigned to the room,
	// excluding the session identified by excludeID when non-empty.
	ListSessionsByRoom(ctx context.Context, roomID, excludeID string) ([]Session, error)
	// ListSessionsByResourceOverlap returns sessions carrying an allocation
	// for the resource whose interval overlaps [start, end), excluding the
	// session identified by excludeID when non-empty.
	ListSessionsByResourceOverlap(ctx context.Context, resourceID string, start, end time.Time, excludeID string) ([]Session, error)
	DeleteSession(ctx context.Context, id string) error
}

// RegistrationRepository stores attendance records.
type RegistrationRepository interface {
	CreateRegistration(ctx context.Context, registration Registration) error
	UpdateRegistration(ctx context.Context, registration Registration) error
	GetRegistration(ctx context.Context, id string) (Registration, error)
	GetRegistrationByUserAndSession(ctx context.Context, userID, sessionID string) (Registration, error)
	ListRegistrationsByUser(ctx context.Context, userID string) ([]Registration, error)
	ListRegistrationsBySession(ctx context.Context, sessionID string) ([]Registration, error)
	CountRegistrationsBySessionStatus(ctx context.Context, sessionID, status string) (int, error)
	DeleteRegistrationsBySession(ctx context.Context, sessionID string) error
}

// AuthSessionRepository stores issued authentication tokens.
type AuthSessionRepository interface {
	CreateAuthSession(ctx context.Context, session AuthSession) error
	GetAuthSessionByToken(ctx context.Context, token string) (AuthSession, error)
	RevokeAuthSession(ctx context.Context, token string, revokedAt time.Time) error
	DeleteExpiredAuthSessions(ctx context.Context, reference time.Time) error
}
