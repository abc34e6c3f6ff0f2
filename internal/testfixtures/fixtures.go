package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/conference-scheduler/internal/persistence"
)

var (
	userCounter         uint64
	conferenceCounter   uint64
	roomCounter         uint64
	resourceCounter     uint64
	sessionCounter      uint64
	registrationCounter uint64
)

var referenceTime = time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// ----------------------------- User fixtures -----------------------------

// UserOption configures a generated user fixture.
type UserOption func(*persistence.User)

// WithUserEmail overrides the generated email.
func WithUserEmail(email string) UserOption {
	return func(u *persistence.User) { u.Email = email }
}

// WithAdmin marks the fixture as an administrator.
func WithAdmin() UserOption {
	return func(u *persistence.User) { u.IsAdmin = true }
}

// NewUser returns a deterministic user record with optional overrides.
func NewUser(opts ...UserOption) persistence.User {
	idx := atomic.AddUint64(&userCounter, 1)
	id := fmt.Sprintf("user-%03d", idx)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	user := persistence.User{
		ID:           id,
		Email:        fmt.Sprintf("%s@example.com", id),
		DisplayName:  fmt.Sprintf("User %03d", idx),
		PasswordHash: fmt.Sprintf("hash-%03d", idx),
		IsAdmin:      false,
		CreatedAt:    created,
		UpdatedAt:    created,
	}
	for _, opt := range opts {
		opt(&user)
	}
	return user
}

// -------------------------- Conference fixtures --------------------------

// ConferenceOption configures a generated conference fixture.
type ConferenceOption func(*persistence.Conference)

// WithConferenceWindow overrides the conference start and end.
func WithConferenceWindow(start, end time.Time) ConferenceOption {
	return func(c *persistence.Conference) {
		c.Start = start
		c.End = end
	}
}

// WithConferenceCreator records the creating user.
func WithConferenceCreator(userID string) ConferenceOption {
	return func(c *persistence.Conference) { c.CreatedBy = userID }
}

// NewConference returns a deterministic conference spanning three days from
// the reference time.
func NewConference(opts ...ConferenceOption) persistence.Conference {
	idx := atomic.AddUint64(&conferenceCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	conference := persistence.Conference{
		ID:        fmt.Sprintf("conf-%03d", idx),
		Name:      fmt.Sprintf("Conference %03d", idx),
		Start:     referenceTime,
		End:       referenceTime.Add(72 * time.Hour),
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&conference)
	}
	return conference
}

// ----------------------------- Room fixtures -----------------------------

// RoomOption configures a generated room fixture.
type RoomOption func(*persistence.Room)

// WithCapacity overrides the room capacity.
func WithCapacity(capacity int) RoomOption {
	return func(r *persistence.Room) { r.Capacity = capacity }
}

// NewRoom returns a deterministic room record.
func NewRoom(opts ...RoomOption) persistence.Room {
	idx := atomic.AddUint64(&roomCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	room := persistence.Room{
		ID:         fmt.Sprintf("room-%03d", idx),
		RoomNumber: fmt.Sprintf("%d01", idx),
		Capacity:   40,
		CreatedAt:  created,
		UpdatedAt:  created,
	}
	for _, opt := range opts {
		opt(&room)
	}
	return room
}

// --------------------------- Resource fixtures ---------------------------

// ResourceOption configures a generated resource fixture.
type ResourceOption func(*persistence.Resource)

// WithTotalQuantity overrides the resource pool size.
func WithTotalQuantity(total int) ResourceOption {
	return func(r *persistence.Resource) { r.TotalQuantity = total }
}

// NewResource returns a deterministic shared-resource record.
func NewResource(opts ...ResourceOption) persistence.Resource {
	idx := atomic.AddUint64(&resourceCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	resource := persistence.Resource{
		ID:            fmt.Sprintf("res-%03d", idx),
		Name:          fmt.Sprintf("Resource %03d", idx),
		TotalQuantity: 5,
		CreatedAt:     created,
		UpdatedAt:     created,
	}
	for _, opt := range opts {
		opt(&resource)
	}
	return resource
}

// ---------------------------- Session fixtures ---------------------------

// SessionOption configures a generated session fixture.
type SessionOption func(*persistence.Session)

// WithSessionConference attaches the session to a conference.
func WithSessionConference(conferenceID string) SessionOption {
	return func(s *persistence.Session) { s.ConferenceID = conferenceID }
}

// WithSessionRoom assigns the session to a room.
func WithSessionRoom(roomID string) SessionOption {
	return func(s *persistence.Session) { s.RoomID = &roomID }
}

// WithSessionInterval overrides the session start and end.
func WithSessionInterval(start, end time.Time) SessionOption {
	return func(s *persistence.Session) {
		s.Start = start
		s.End = end
	}
}

// WithSessionAllocations replaces the session's resource allocations.
func WithSessionAllocations(allocations ...persistence.Allocation) SessionOption {
	return func(s *persistence.Session) { s.Allocations = allocations }
}

// NewSession returns a deterministic one-hour session. Callers almost always
// want WithSessionConference so the record satisfies the foreign key.
func NewSession(opts ...SessionOption) persistence.Session {
	idx := atomic.AddUint64(&sessionCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	session := persistence.Session{
		ID:          fmt.Sprintf("sess-%03d", idx),
		Title:       fmt.Sprintf("Session %03d", idx),
		SessionType: "PRESENTATION",
		Start:       referenceTime.Add(time.Duration(idx) * time.Hour),
		End:         referenceTime.Add(time.Duration(idx+1) * time.Hour),
		CreatedAt:   created,
		UpdatedAt:   created,
	}
	for _, opt := range opts {
		opt(&session)
	}
	return session
}

// ------------------------- Registration fixtures -------------------------

// RegistrationOption configures a generated registration fixture.
type RegistrationOption func(*persistence.Registration)

// WithRegistrationStatus overrides the registration status.
func WithRegistrationStatus(status string) RegistrationOption {
	return func(r *persistence.Registration) { r.Status = status }
}

// NewRegistration returns a deterministic registration linking the supplied
// user and session.
func NewRegistration(userID, sessionID string, opts ...RegistrationOption) persistence.Registration {
	idx := atomic.AddUint64(&registrationCounter, 1)
	registration := persistence.Registration{
		ID:           fmt.Sprintf("reg-%03d", idx),
		UserID:       userID,
		SessionID:    sessionID,
		Status:       "REGISTERED",
		RegisteredAt: referenceTime.Add(time.Duration(idx) * time.Minute),
	}
	for _, opt := range opts {
		opt(&registration)
	}
	return registration
}
