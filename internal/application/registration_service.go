package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/conference-scheduler/internal/persistence"
)

// RegistrationStore captures the persistence interactions needed by the service.
type RegistrationStore interface {
	CreateRegistration(ctx context.Context, registration Registration) (Registration, error)
	GetRegistration(ctx context.Context, id string) (Registration, error)
	GetRegistrationByUserAndSession(ctx context.Context, userID, sessionID string) (Registration, error)
	UpdateRegistration(ctx context.Context, registration Registration) (Registration, error)
	ListRegistrationsByUser(ctx context.Context, userID string) ([]Registration, error)
	ListRegistrationsBySession(ctx context.Context, sessionID string) ([]Registration, error)
	CountActiveRegistrations(ctx context.Context, sessionID string) (int, error)
}

// SessionDirectory exposes session lookup operations.
type SessionDirectory interface {
	GetSession(ctx context.Context, id string) (Session, error)
}

// RoomDirectory exposes room lookup operations.
type RoomDirectory interface {
	GetRoom(ctx context.Context, id string) (Room, error)
}

// RegistrationService handles attendance records. When a session's room is
// already full, counting REGISTERED rows against the room capacity, new
// registrations are recorded as WAITLISTED. Registrations for the same
// session serialize on a per-session lock so the capacity count stays
// accurate under concurrent signups.
type RegistrationService struct {
	registrations RegistrationStore
	sessions      SessionDirectory
	rooms         RoomDirectory
	locks         *lockTable
	idGenerator   func() string
	now           func() time.Time
	logger        *slog.Logger
}

// NewRegistrationService wires dependencies for registration operations.
func NewRegistrationService(registrations RegistrationStore, sessions SessionDirectory, rooms RoomDirectory, idGenerator func() string, now func() time.Time) *RegistrationService {
	return NewRegistrationServiceWithLogger(registrations, sessions, rooms, idGenerator, now, nil)
}

// NewRegistrationServiceWithLogger wires dependencies with a specified logger.
func NewRegistrationServiceWithLogger(registrations RegistrationStore, sessions SessionDirectory, rooms RoomDirectory, idGenerator func() string, now func() time.Time, logger *slog.Logger) *RegistrationService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &RegistrationService{
		registrations: registrations,
		sessions:      sessions,
		rooms:         rooms,
		locks:         newLockTable(),
		idGenerator:   idGenerator,
		now:           now,
		logger:        defaultLogger(logger),
	}
}

func (s *RegistrationService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "RegistrationService", operation, attrs...)
}

// Register records the principal's attendance for a session. Duplicate
// registrations are rejected; a previously canceled one is reactivated.
func (s *RegistrationService) Register(ctx context.Context, params RegisterParams) (registration Registration, err error) {
	if s == nil {
		err = fmt.Errorf("RegistrationService is nil")
		return
	}
	if s.registrations == nil || s.sessions == nil {
		err = fmt.Errorf("registration store not configured")
		return
	}

	logger := s.loggerWith(ctx, "Register",
		"principal_id", params.Principal.UserID,
		"session_id", params.SessionID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to register", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With(
			"registration_id", registration.ID,
			"status", string(registration.Status),
		).InfoContext(ctx, "registration recorded")
	}()

	var session Session
	session, err = s.sessions.GetSession(ctx, params.SessionID)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) || errors.Is(err, ErrNotFound) {
			err = sessionNotFoundError(params.SessionID)
			return
		}
		return
	}

	release := s.locks.acquire([]string{"session:" + session.ID})
	defer release()

	existing, lookupErr := s.registrations.GetRegistrationByUserAndSession(ctx, params.Principal.UserID, session.ID)
	switch {
	case lookupErr == nil:
		if existing.Status != RegistrationStatusCanceled {
			err = ErrAlreadyExists
			return
		}
	case errors.Is(lookupErr, persistence.ErrNotFound) || errors.Is(lookupErr, ErrNotFound):
	default:
		err = lookupErr
		return
	}

	var status RegistrationStatus
	status, err = s.admissionStatus(ctx, session)
	if err != nil {
		return
	}

	if lookupErr == nil {
		// Reactivate the canceled row instead of inserting a second one.
		existing.Status = status
		existing.RegisteredAt = s.now()
		registration, err = s.registrations.UpdateRegistration(ctx, existing)
		if err != nil {
			err = mapRegistrationRepoError(err)
		}
		return
	}

	registration, err = s.registrations.CreateRegistration(ctx, Registration{
		ID:           s.idGenerator(),
		UserID:       params.Principal.UserID,
		SessionID:    session.ID,
		Status:       status,
		RegisteredAt: s.now(),
	})
	if err != nil {
		err = mapRegistrationRepoError(err)
	}
	return
}

// Cancel marks a registration as canceled. Only the owner or an
// administrator may cancel it.
func (s *RegistrationService) Cancel(ctx context.Context, params CancelRegistrationParams) (err error) {
	if s == nil || s.registrations == nil {
		return fmt.Errorf("registration store not configured")
	}

	logger := s.loggerWith(ctx, "Cancel",
		"principal_id", params.Principal.UserID,
		"registration_id", params.RegistrationID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to cancel registration", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "registration canceled")
	}()

	var registration Registration
	registration, err = s.registrations.GetRegistration(ctx, params.RegistrationID)
	if err != nil {
		err = mapRegistrationRepoError(err)
		return
	}

	if registration.UserID != params.Principal.UserID && !params.Principal.IsAdmin {
		err = ErrUnauthorized
		return
	}
	if registration.Status == RegistrationStatusCanceled {
		return
	}

	release := s.locks.acquire([]string{"session:" + registration.SessionID})
	defer release()

	registration.Status = RegistrationStatusCanceled
	if _, err = s.registrations.UpdateRegistration(ctx, registration); err != nil {
		err = mapRegistrationRepoError(err)
	}
	return
}

// ListForUser enumerates a user's registrations. Non-administrators can only
// view their own.
func (s *RegistrationService) ListForUser(ctx context.Context, principal Principal, userID string) ([]Registration, error) {
	if s == nil || s.registrations == nil {
		return nil, fmt.Errorf("registration store not configured")
	}
	if userID == "" {
		userID = principal.UserID
	}
	if userID != principal.UserID && !principal.IsAdmin {
		return nil, ErrUnauthorized
	}

	registrations, err := s.registrations.ListRegistrationsByUser(ctx, userID)
	if err != nil {
		return nil, mapRegistrationRepoError(err)
	}
	return registrations, nil
}

// ListForSession enumerates every registration for a session, for administrators.
func (s *RegistrationService) ListForSession(ctx context.Context, principal Principal, sessionID string) ([]Registration, error) {
	if s == nil || s.registrations == nil {
		return nil, fmt.Errorf("registration store not configured")
	}
	if !principal.IsAdmin {
		return nil, ErrUnauthorized
	}

	registrations, err := s.registrations.ListRegistrationsBySession(ctx, sessionID)
	if err != nil {
		return nil, mapRegistrationRepoError(err)
	}
	return registrations, nil
}

// admissionStatus decides between REGISTERED and WAITLISTED based on the
// room capacity. Sessions without a room admit everyone.
func (s *RegistrationService) admissionStatus(ctx context.Context, session Session) (RegistrationStatus, error) {
	if session.RoomID == nil || s.rooms == nil {
		return RegistrationStatusRegistered, nil
	}

	room, err := s.rooms.GetRoom(ctx, *session.RoomID)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) || errors.Is(err, ErrNotFound) {
			return RegistrationStatusRegistered, nil
		}
		return "", err
	}

	active, err := s.registrations.CountActiveRegistrations(ctx, session.ID)
	if err != nil {
		return "", mapRegistrationRepoError(err)
	}
	if active >= room.Capacity {
		return RegistrationStatusWaitlisted, nil
	}
	return RegistrationStatusRegistered, nil
}

func mapRegistrationRepoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, persistence.ErrDuplicate) {
		return ErrAlreadyExists
	}
	if errors.Is(err, persistence.ErrForeignKeyViolation) {
		vErr := &ValidationError{}
		vErr.add("reference", "referenced record does not exist")
		return vErr
	}
	return err
}
