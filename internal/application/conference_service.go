package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/conference-scheduler/internal/persistence"
)

// ConferenceStore captures the persistence interactions needed by the service.
type ConferenceStore interface {
	CreateConference(ctx context.Context, conference Conference) (Conference, error)
	GetConference(ctx context.Context, id string) (Conference, error)
	UpdateConference(ctx context.Context, conference Conference) (Conference, error)
	DeleteConference(ctx context.Context, id string) error
	ListConferences(ctx context.Context) ([]Conference, error)
}

// ConferenceService orchestrates validation, authorization, and persistence
// for conferences.
type ConferenceService struct {
	conferences ConferenceStore
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewConferenceService constructs a conference service with the provided dependencies.
func NewConferenceService(conferences ConferenceStore, idGenerator func() string, now func() time.Time) *ConferenceService {
	return NewConferenceServiceWithLogger(conferences, idGenerator, now, nil)
}

// NewConferenceServiceWithLogger constructs a conference service with a specified logger.
func NewConferenceServiceWithLogger(conferences ConferenceStore, idGenerator func() string, now func() time.Time, logger *slog.Logger) *ConferenceService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &ConferenceService{conferences: conferences, idGenerator: idGenerator, now: now, logger: defaultLogger(logger)}
}

func (s *ConferenceService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "ConferenceService", operation, attrs...)
}

// CreateConference validates input and persists a new conference for administrators.
func (s *ConferenceService) CreateConference(ctx context.Context, params CreateConferenceParams) (conference Conference, err error) {
	if s == nil {
		err = fmt.Errorf("ConferenceService is nil")
		return
	}
	if s.conferences == nil {
		err = fmt.Errorf("conference store not configured")
		return
	}

	logger := s.loggerWith(ctx, "CreateConference",
		"principal_id", params.Principal.UserID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create conference", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("conference_id", conference.ID).InfoContext(ctx, "conference created")
	}()

	if !params.Principal.IsAdmin {
		err = ErrUnauthorized
		return
	}

	vErr := validateConferenceInput(params.Input)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	createdAt := s.now()
	conference = Conference{
		ID:          s.idGenerator(),
		Name:        strings.TrimSpace(params.Input.Name),
		Description: params.Input.Description,
		Location:    params.Input.Location,
		Start:       params.Input.Start,
		End:         params.Input.End,
		CreatedBy:   params.Principal.UserID,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}

	var persisted Conference
	persisted, err = s.conferences.CreateConference(ctx, conference)
	if err != nil {
		err = mapConferenceRepoError(err)
		return
	}
	conference = persisted
	return
}

// UpdateConference validates input and updates an existing conference for administrators.
func (s *ConferenceService) UpdateConference(ctx context.Context, params UpdateConferenceParams) (conference Conference, err error) {
	if s == nil {
		err = fmt.Errorf("ConferenceService is nil")
		return
	}
	if s.conferences == nil {
		err = fmt.Errorf("conference store not configured")
		return
	}

	logger := s.loggerWith(ctx, "UpdateConference",
		"principal_id", params.Principal.UserID,
		"conference_id", params.ConferenceID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update conference", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "conference updated")
	}()

	if !params.Principal.IsAdmin {
		err = ErrUnauthorized
		return
	}

	var existing Conference
	existing, err = s.conferences.GetConference(ctx, params.ConferenceID)
	if err != nil {
		err = mapConferenceRepoError(err)
		return
	}

	vErr := validateConferenceInput(params.Input)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	updated := existing
	updated.Name = strings.TrimSpace(params.Input.Name)
	updated.Description = params.Input.Description
	updated.Location = params.Input.Location
	updated.Start = params.Input.Start
	updated.End = params.Input.End
	updated.UpdatedAt = s.now()

	var persisted Conference
	persisted, err = s.conferences.UpdateConference(ctx, updated)
	if err != nil {
		err = mapConferenceRepoError(err)
		return
	}
	conference = persisted
	return
}

// GetConference retrieves a single conference.
func (s *ConferenceService) GetConference(ctx context.Context, id string) (Conference, error) {
	if s == nil || s.conferences == nil {
		return Conference{}, fmt.Errorf("conference store not configured")
	}
	conference, err := s.conferences.GetConference(ctx, id)
	if err != nil {
		return Conference{}, mapConferenceRepoError(err)
	}
	return conference, nil
}

// ListConferences enumerates all conferences.
func (s *ConferenceService) ListConferences(ctx context.Context) ([]Conference, error) {
	if s == nil || s.conferences == nil {
		return nil, fmt.Errorf("conference store not configured")
	}
	conferences, err := s.conferences.ListConferences(ctx)
	if err != nil {
		return nil, mapConferenceRepoError(err)
	}
	return conferences, nil
}

// DeleteConference removes a conference together with its sessions and their
// registrations.
func (s *ConferenceService) DeleteConference(ctx context.Context, principal Principal, id string) (err error) {
	if s == nil || s.conferences == nil {
		return fmt.Errorf("conference store not configured")
	}

	logger := s.loggerWith(ctx, "DeleteConference",
		"principal_id", principal.UserID,
		"conference_id", id,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to delete conference", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "conference deleted")
	}()

	if !principal.IsAdmin {
		err = ErrUnauthorized
		return
	}

	if err = s.conferences.DeleteConference(ctx, id); err != nil {
		err = mapConferenceRepoError(err)
	}
	return
}

func validateConferenceInput(input ConferenceInput) *ValidationError {
	vErr := &ValidationError{}
	if strings.TrimSpace(input.Name) == "" {
		vErr.add("name", "name is required")
	}
	if input.Start.IsZero() || input.End.IsZero() {
		vErr.add("time", "start and end are required")
	} else if !input.Start.Before(input.End) {
		vErr.add("time", "start must be before end")
	}
	return vErr
}

func mapConferenceRepoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, persistence.ErrDuplicate) {
		return ErrAlreadyExists
	}
	if errors.Is(err, persistence.ErrConstraintViolation) {
		vErr := &ValidationError{}
		vErr.add("time", "start must be before end")
		return vErr
	}
	return err
}
