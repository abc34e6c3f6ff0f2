package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/conference-scheduler/internal/persistence"
	"github.com/example/conference-scheduler/internal/scheduling"
)

// SessionStore captures the persistence interactions needed by the service.
type SessionStore interface {
	CreateSession(ctx context.Context, session Session) (Session, error)
	GetSession(ctx context.Context, id string) (Session, error)
	UpdateSession(ctx context.Context, session Session) (Session, error)
	DeleteSession(ctx context.Context, id string) error
	ListSessions(ctx context.Context, filter ListSessionsParams) ([]Session, error)
	ListSessionsByRoom(ctx context.Context, roomID, excludeID string) ([]Session, error)
	ListSessionsByResourceOverlap(ctx context.Context, resourceID string, start, end time.Time, excludeID string) ([]Session, error)
}

// ConferenceDirectory exposes conference lookup operations.
type ConferenceDirectory interface {
	GetConference(ctx context.Context, id string) (Conference, error)
}

// RoomCatalog exposes room lookup operations.
type RoomCatalog interface {
	RoomExists(ctx context.Context, id string) (bool, error)
}

// ResourceCatalog exposes resource lookup operations.
type ResourceCatalog interface {
	GetResource(ctx context.Context, id string) (Resource, error)
}

// SessionService orchestrates validation, conflict detection, and persistence
// for conference sessions. Mutations hold per-room and per-resource advisory
// locks across the whole validate-then-persist sequence, so two conflicting
// writes cannot both pass validation.
type SessionService struct {
	sessions    SessionStore
	conferences ConferenceDirectory
	rooms       RoomCatalog
	resources   ResourceCatalog
	locks       *lockTable
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewSessionService wires dependencies for session operations.
func NewSessionService(sessions SessionStore, conferences ConferenceDirectory, rooms RoomCatalog, resources ResourceCatalog, idGenerator func() string, now func() time.Time) *SessionService {
	return NewSessionServiceWithLogger(sessions, conferences, rooms, resources, idGenerator, now, nil)
}

// NewSessionServiceWithLogger wires dependencies with a specified logger.
func NewSessionServiceWithLogger(sessions SessionStore, conferences ConferenceDirectory, rooms RoomCatalog, resources ResourceCatalog, idGenerator func() string, now func() time.Time, logger *slog.Logger) *SessionService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &SessionService{
		sessions:    sessions,
		conferences: conferences,
		rooms:       rooms,
		resources:   resources,
		locks:       newLockTable(),
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *SessionService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "SessionService", operation, attrs...)
}

// CreateSession validates the request, checks the room and every allocated
// resource for its time window, and persists the session.
func (s *SessionService) CreateSession(ctx context.Context, params CreateSessionParams) (session Session, err error) {
	if s == nil {
		err = fmt.Errorf("SessionService is nil")
		return
	}
	if s.sessions == nil {
		err = fmt.Errorf("session store not configured")
		return
	}

	logger := s.loggerWith(ctx, "CreateSession",
		"principal_id", params.Principal.UserID,
		"conference_id", params.Input.ConferenceID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create session", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("session_id", session.ID).InfoContext(ctx, "session created")
	}()

	if !params.Principal.IsAdmin {
		err = ErrUnauthorized
		return
	}

	input := params.Input

	if err = s.validateSessionFields(input); err != nil {
		return
	}

	if err = s.checkConferenceWindow(ctx, input.ConferenceID, input.Start, input.End); err != nil {
		return
	}
	if err = s.ensureRoomExists(ctx, input.RoomID); err != nil {
		return
	}

	createdAt := s.now()
	candidate := Session{
		ID:           s.idGenerator(),
		ConferenceID: input.ConferenceID,
		Title:        strings.TrimSpace(input.Title),
		Description:  input.Description,
		SessionType:  input.SessionType,
		Speaker:      input.Speaker,
		Start:        input.Start,
		End:          input.End,
		RoomID:       input.RoomID,
		Allocations:  input.Allocations,
		CreatedBy:    params.Principal.UserID,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}

	release := s.locks.acquire(advisoryKeys(candidate))
	defer release()

	if err = s.checkRoomConflict(ctx, candidate, ""); err != nil {
		return
	}
	if err = s.checkResourceLedger(ctx, candidate, ""); err != nil {
		return
	}

	session, err = s.sessions.CreateSession(ctx, candidate)
	if err != nil {
		err = mapSessionRepoError(err)
	}
	return
}

// UpdateSession applies a partial update; absent fields keep their stored
// value. The merged session runs through the full validation pipeline with
// the session's own id excluded from conflict and ledger checks.
func (s *SessionService) UpdateSession(ctx context.Context, params UpdateSessionParams) (session Session, err error) {
	if s == nil {
		err = fmt.Errorf("SessionService is nil")
		return
	}
	if s.sessions == nil {
		err = fmt.Errorf("session store not configured")
		return
	}

	logger := s.loggerWith(ctx, "UpdateSession",
		"principal_id", params.Principal.UserID,
		"session_id", params.SessionID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update session", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "session updated")
	}()

	if !params.Principal.IsAdmin {
		err = ErrUnauthorized
		return
	}

	var existing Session
	existing, err = s.sessions.GetSession(ctx, params.SessionID)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) || errors.Is(err, ErrNotFound) {
			err = sessionNotFoundError(params.SessionID)
			return
		}
		return
	}

	merged := applySessionPatch(existing, params.Patch)
	merged.UpdatedAt = s.now()

	if err = s.validateSessionFields(SessionInput{
		ConferenceID: merged.ConferenceID,
		Title:        merged.Title,
		SessionType:  merged.SessionType,
		Start:        merged.Start,
		End:          merged.End,
		Allocations:  merged.Allocations,
	}); err != nil {
		return
	}

	if err = s.checkConferenceWindow(ctx, merged.ConferenceID, merged.Start, merged.End); err != nil {
		return
	}
	if params.Patch.RoomID != nil {
		if err = s.ensureRoomExists(ctx, merged.RoomID); err != nil {
			return
		}
	}

	// Lock both the previous and the new advisory keys so a concurrent write
	// against the room or resources being vacated still serializes.
	release := s.locks.acquire(append(advisoryKeys(existing), advisoryKeys(merged)...))
	defer release()

	if err = s.checkRoomConflict(ctx, merged, merged.ID); err != nil {
		return
	}
	if err = s.checkResourceLedger(ctx, merged, merged.ID); err != nil {
		return
	}

	session, err = s.sessions.UpdateSession(ctx, merged)
	if err != nil {
		err = mapSessionRepoError(err)
	}
	return
}

// GetSession retrieves a single session.
func (s *SessionService) GetSession(ctx context.Context, id string) (Session, error) {
	if s == nil || s.sessions == nil {
		return Session{}, fmt.Errorf("session store not configured")
	}

	session, err := s.sessions.GetSession(ctx, id)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) || errors.Is(err, ErrNotFound) {
			return Session{}, sessionNotFoundError(id)
		}
		return Session{}, err
	}
	return session, nil
}

// ListSessions enumerates sessions matching the filter, ordered by start time.
func (s *SessionService) ListSessions(ctx context.Context, params ListSessionsParams) ([]Session, error) {
	if s == nil || s.sessions == nil {
		return nil, fmt.Errorf("session store not configured")
	}

	sessions, err := s.sessions.ListSessions(ctx, params)
	if err != nil {
		return nil, mapSessionRepoError(err)
	}
	return sessions, nil
}

// DeleteSession removes a session together with its registrations.
func (s *SessionService) DeleteSession(ctx context.Context, principal Principal, id string) (err error) {
	if s == nil || s.sessions == nil {
		return fmt.Errorf("session store not configured")
	}

	logger := s.loggerWith(ctx, "DeleteSession",
		"principal_id", principal.UserID,
		"session_id", id,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to delete session", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "session deleted")
	}()

	if !principal.IsAdmin {
		err = ErrUnauthorized
		return
	}

	if err = s.sessions.DeleteSession(ctx, id); err != nil {
		if errors.Is(err, persistence.ErrNotFound) || errors.Is(err, ErrNotFound) {
			err = sessionNotFoundError(id)
			return
		}
		err = mapSessionRepoError(err)
	}
	return
}

// validateSessionFields runs the field, interval, and type checks that need
// no storage access.
func (s *SessionService) validateSessionFields(input SessionInput) error {
	vErr := &ValidationError{}
	if strings.TrimSpace(input.Title) == "" {
		vErr.add("title", "title is required")
	}
	if input.ConferenceID == "" {
		vErr.add("conference_id", "conference is required")
	}
	seen := make(map[string]bool, len(input.Allocations))
	for _, allocation := range input.Allocations {
		if allocation.ResourceID == "" {
			vErr.add("resources", "resource id is required")
			continue
		}
		if seen[allocation.ResourceID] {
			vErr.add("resources", fmt.Sprintf("resource %s requested more than once", allocation.ResourceID))
		}
		seen[allocation.ResourceID] = true
		if allocation.Quantity < 1 {
			vErr.add("resources", fmt.Sprintf("quantity for resource %s must be at least 1", allocation.ResourceID))
		}
	}
	if vErr.HasErrors() {
		return vErr
	}

	if input.Start.IsZero() || input.End.IsZero() || !input.Start.Before(input.End) {
		return invalidIntervalError()
	}
	if !ValidSessionType(input.SessionType) {
		return invalidSessionTypeError(string(input.SessionType))
	}
	return nil
}

func (s *SessionService) checkConferenceWindow(ctx context.Context, conferenceID string, start, end time.Time) error {
	if s.conferences == nil {
		return nil
	}
	conference, err := s.conferences.GetConference(ctx, conferenceID)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) || errors.Is(err, ErrNotFound) {
			return conferenceNotFoundError(conferenceID)
		}
		return err
	}
	if !scheduling.WithinWindow(conference.Start, conference.End, start, end) {
		return outsideConferenceWindowError(conference.Start, conference.End)
	}
	return nil
}

func (s *SessionService) ensureRoomExists(ctx context.Context, roomID *string) error {
	if roomID == nil || s.rooms == nil {
		return nil
	}
	exists, err := s.rooms.RoomExists(ctx, *roomID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	vErr := &ValidationError{}
	vErr.add("room_id", "room does not exist")
	return vErr
}

func (s *SessionService) checkRoomConflict(ctx context.Context, candidate Session, excludeID string) error {
	if candidate.RoomID == nil {
		return nil
	}

	occupants, err := s.sessions.ListSessionsByRoom(ctx, *candidate.RoomID, excludeID)
	if err != nil {
		return mapSessionRepoError(err)
	}

	conflict, found := scheduling.FindRoomConflict(toSchedulingSessions(occupants), toSchedulingSession(candidate))
	if !found {
		return nil
	}
	return roomConflictError(RoomConflictDetail{
		RoomID:        conflict.RoomID,
		WithSessionID: conflict.WithSessionID,
		Start:         conflict.Start,
		End:           conflict.End,
	})
}

// checkResourceLedger verifies, per allocation, that the requested quantity
// fits in what every other overlapping session leaves of the resource pool.
func (s *SessionService) checkResourceLedger(ctx context.Context, candidate Session, excludeID string) error {
	if s.resources == nil {
		return nil
	}

	for _, allocation := range candidate.Allocations {
		resource, err := s.resources.GetResource(ctx, allocation.ResourceID)
		if err != nil {
			if errors.Is(err, persistence.ErrNotFound) || errors.Is(err, ErrNotFound) {
				return resourceNotFoundError(allocation.ResourceID)
			}
			return err
		}

		overlapping, err := s.sessions.ListSessionsByResourceOverlap(ctx, allocation.ResourceID, candidate.Start, candidate.End, excludeID)
		if err != nil {
			return mapSessionRepoError(err)
		}

		allocated := scheduling.AllocatedQuantity(toSchedulingSessions(overlapping), allocation.ResourceID, candidate.Start, candidate.End, excludeID)
		available := resource.TotalQuantity - allocated
		if allocation.Quantity > available {
			return insufficientResourceError(ResourceShortageDetail{
				ResourceID:   resource.ID,
				ResourceName: resource.Name,
				Requested:    allocation.Quantity,
				Available:    available,
				Total:        resource.TotalQuantity,
			})
		}
	}
	return nil
}

func applySessionPatch(existing Session, patch SessionPatch) Session {
	merged := existing
	if patch.Title != nil {
		merged.Title = *patch.Title
	}
	if patch.Description != nil {
		merged.Description = patch.Description
	}
	if patch.SessionType != nil {
		merged.SessionType = *patch.SessionType
	}
	if patch.Speaker != nil {
		merged.Speaker = patch.Speaker
	}
	if patch.Start != nil {
		merged.Start = *patch.Start
	}
	if patch.End != nil {
		merged.End = *patch.End
	}
	if patch.RoomID != nil {
		merged.RoomID = patch.RoomID
	}
	if patch.Allocations != nil {
		merged.Allocations = *patch.Allocations
	}
	return merged
}

func advisoryKeys(session Session) []string {
	keys := make([]string, 0, len(session.Allocations)+1)
	if session.RoomID != nil {
		keys = append(keys, "room:"+*session.RoomID)
	}
	for _, allocation := range session.Allocations {
		keys = append(keys, "resource:"+allocation.ResourceID)
	}
	return keys
}

func toSchedulingSession(session Session) scheduling.Session {
	allocations := make([]scheduling.Allocation, 0, len(session.Allocations))
	for _, allocation := range session.Allocations {
		allocations = append(allocations, scheduling.Allocation{
			ResourceID: allocation.ResourceID,
			Quantity:   allocation.Quantity,
		})
	}
	return scheduling.Session{
		ID:           session.ID,
		ConferenceID: session.ConferenceID,
		RoomID:       session.RoomID,
		Start:        session.Start,
		End:          session.End,
		Allocations:  allocations,
	}
}

func toSchedulingSessions(sessions []Session) []scheduling.Session {
	converted := make([]scheduling.Session, 0, len(sessions))
	for _, session := range sessions {
		converted = append(converted, toSchedulingSession(session))
	}
	return converted
}

func mapSessionRepoError(err error) error {
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
	if errors.Is(err, persistence.ErrConstraintViolation) {
		vErr := &ValidationError{}
		vErr.add("time", "start must be before end")
		return vErr
	}
	return err
}
