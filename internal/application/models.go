package application

import "time"

// Principal represents the authenticated user invoking a service method.
type Principal struct {
	UserID  string
	IsAdmin bool
}

// SessionType classifies a conference session.
type SessionType string

const (
	SessionTypeWorkshop     SessionType = "WORKSHOP"
	SessionTypePresentation SessionType = "PRESENTATION"
	SessionTypeKeynote      SessionType = "KEYNOTE"
)

// ValidSessionType reports whether the value is a known session type.
func ValidSessionType(value SessionType) bool {
	switch value {
	case SessionTypeWorkshop, SessionTypePresentation, SessionTypeKeynote:
		return true
	}
	return false
}

// RegistrationStatus tracks a user's standing for a session.
type RegistrationStatus string

const (
	RegistrationStatusRegistered RegistrationStatus = "REGISTERED"
	RegistrationStatusWaitlisted RegistrationStatus = "WAITLISTED"
	RegistrationStatusCanceled   RegistrationStatus = "CANCELED"
)

// User represents an account.
type User struct {
	ID          string
	Email       string
	DisplayName string
	IsAdmin     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// UserCredentials bundles a user with their stored password hash.
type UserCredentials struct {
	User         User
	PasswordHash string
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

// Session represents a scheduled conference session.
type Session struct {
	ID           string
	ConferenceID string
	Title        string
	Description  *string
	SessionType  SessionType
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
	Status       RegistrationStatus
	RegisteredAt time.Time
}

// TokenSession represents an issued authentication token.
type TokenSession struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	RevokedAt *time.Time
}

// ConferenceInput captures caller provided conference fields.
type ConferenceInput struct {
	Name        string
	Description *string
	Location    *string
	Start       time.Time
	End         time.Time
}

// CreateConferenceParams wraps the data required to create a conference.
type CreateConferenceParams struct {
	Principal Principal
	Input     ConferenceInput
}

// UpdateConferenceParams wraps the data required to update a conference.
type UpdateConferenceParams struct {
	Principal    Principal
	ConferenceID string
	Input        ConferenceInput
}

// RoomInput captures caller provided room fields.
type RoomInput struct {
	RoomNumber string
	Capacity   int
	Location   *string
}

// CreateRoomParams wraps the data required to create a room.
type CreateRoomParams struct {
	Principal Principal
	Input     RoomInput
}

// UpdateRoomParams wraps the data required to update a room.
type UpdateRoomParams struct {
	Principal Principal
	RoomID    string
	Input     RoomInput
}

// ResourceInput captures caller provided resource fields.
type ResourceInput struct {
	Name          string
	Description   *string
	TotalQuantity int
}

// CreateResourceParams wraps the data required to create a resource.
type CreateResourceParams struct {
	Principal Principal
	Input     ResourceInput
}

// UpdateResourceParams wraps the data required to update a resource.
type UpdateResourceParams struct {
	Principal  Principal
	ResourceID string
	Input      ResourceInput
}

// SessionInput captures caller provided session fields for creation.
type SessionInput struct {
	ConferenceID string
	Title        string
	Description  *string
	SessionType  SessionType
	Speaker      *string
	Start        time.Time
	End          time.Time
	RoomID       *string
	Allocations  []Allocation
}

// SessionPatch captures a partial update; nil fields keep their stored value.
type SessionPatch struct {
	Title       *string
	Description *string
	SessionType *SessionType
	Speaker     *string
	Start       *time.Time
	End         *time.Time
	RoomID      *string
	Allocations *[]Allocation
}

// CreateSessionParams wraps the data required to create a session.
type CreateSessionParams struct {
	Principal Principal
	Input     SessionInput
}

// UpdateSessionParams wraps the data required to partially update a session.
type UpdateSessionParams struct {
	Principal Principal
	SessionID string
	Patch     SessionPatch
}

// ListSessionsParams narrows session listings.
type ListSessionsParams struct {
	ConferenceID *string
	RoomID       *string
	StartsAfter  *time.Time
	EndsBefore   *time.Time
}

// UserInput captures caller provided account fields.
type UserInput struct {
	Email       string
	DisplayName string
	Password    string
	IsAdmin     bool
}

// CreateUserParams wraps the data required to create an account.
type CreateUserParams struct {
	Principal Principal
	Input     UserInput
}

// RegisterParams wraps the data required to register for a session.
type RegisterParams struct {
	Principal Principal
	SessionID string
}

// CancelRegistrationParams wraps the data required to cancel a registration.
type CancelRegistrationParams struct {
	Principal      Principal
	RegistrationID string
}

// AuthenticateParams wraps login credentials.
type AuthenticateParams struct {
	Email    string
	Password string
}

// AuthenticateResult bundles the authenticated user with the issued session.
type AuthenticateResult struct {
	User    User
	Session TokenSession
}
