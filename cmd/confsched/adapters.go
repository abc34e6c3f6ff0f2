package main

import (
	"context"
	"errors"
	"time"

	"github.com/example/conference-scheduler/internal/application"
	"github.com/example/conference-scheduler/internal/persistence"
)

// The adapters below translate between application models and persistence
// models so the service layer stays free of storage concerns.

func toPersistenceConference(conference application.Conference) persistence.Conference {
	return persistence.Conference{
		ID:          conference.ID,
		Name:        conference.Name,
		Description: conference.Description,
		Location:    conference.Location,
		Start:       conference.Start,
		End:         conference.End,
		CreatedBy:   conference.CreatedBy,
		CreatedAt:   conference.CreatedAt,
		UpdatedAt:   conference.UpdatedAt,
	}
}

func toApplicationConference(conference persistence.Conference) application.Conference {
	return application.Conference{
		ID:          conference.ID,
		Name:        conference.Name,
		Description: conference.Description,
		Location:    conference.Location,
		Start:       conference.Start,
		End:         conference.End,
		CreatedBy:   conference.CreatedBy,
		CreatedAt:   conference.CreatedAt,
		UpdatedAt:   conference.UpdatedAt,
	}
}

func toPersistenceRoom(room application.Room) persistence.Room {
	return persistence.Room{
		ID:         room.ID,
		RoomNumber: room.RoomNumber,
		Capacity:   room.Capacity,
		Location:   room.Location,
		CreatedAt:  room.CreatedAt,
		UpdatedAt:  room.UpdatedAt,
	}
}

func toApplicationRoom(room persistence.Room) application.Room {
	return application.Room{
		ID:         room.ID,
		RoomNumber: room.RoomNumber,
		Capacity:   room.Capacity,
		Location:   room.Location,
		CreatedAt:  room.CreatedAt,
		UpdatedAt:  room.UpdatedAt,
	}
}

func toPersistenceResource(resource application.Resource) persistence.Resource {
	return persistence.Resource{
		ID:            resource.ID,
		Name:          resource.Name,
		Description:   resource.Description,
		TotalQuantity: resource.TotalQuantity,
		CreatedAt:     resource.CreatedAt,
		UpdatedAt:     resource.UpdatedAt,
	}
}

func toApplicationResource(resource persistence.Resource) application.Resource {
	return application.Resource{
		ID:            resource.ID,
		Name:          resource.Name,
		Description:   resource.Description,
		TotalQuantity: resource.TotalQuantity,
		CreatedAt:     resource.CreatedAt,
		UpdatedAt:     resource.UpdatedAt,
	}
}

func toPersistenceSession(session application.Session) persistence.Session {
	allocations := make([]persistence.Allocation, 0, len(session.Allocations))
	for _, allocation := range session.Allocations {
		allocations = append(allocations, persistence.Allocation{
			ResourceID: allocation.ResourceID,
			Quantity:   allocation.Quantity,
		})
	}
	if len(allocations) == 0 {
		allocations = nil
	}
	return persistence.Session{
		ID:           session.ID,
		ConferenceID: session.ConferenceID,
		Title:        session.Title,
		Description:  session.Description,
		SessionType:  string(session.SessionType),
		Speaker:      session.Speaker,
		Start:        session.Start,
		End:          session.End,
		RoomID:       session.RoomID,
		Allocations:  allocations,
		CreatedBy:    session.CreatedBy,
		CreatedAt:    session.CreatedAt,
		UpdatedAt:    session.UpdatedAt,
	}
}

func toApplicationSession(session persistence.Session) application.Session {
	allocations := make([]application.Allocation, 0, len(session.Allocations))
	for _, allocation := range session.Allocations {
		allocations = append(allocations, application.Allocation{
			ResourceID: allocation.ResourceID,
			Quantity:   allocation.Quantity,
		})
	}
	if len(allocations) == 0 {
		allocations = nil
	}
	return application.Session{
		ID:           session.ID,
		ConferenceID: session.ConferenceID,
		Title:        session.Title,
		Description:  session.Description,
		SessionType:  application.SessionType(session.SessionType),
		Speaker:      session.Speaker,
		Start:        session.Start,
		End:          session.End,
		RoomID:       session.RoomID,
		Allocations:  allocations,
		CreatedBy:    session.CreatedBy,
		CreatedAt:    session.CreatedAt,
		UpdatedAt:    session.UpdatedAt,
	}
}

func toApplicationUser(user persistence.User) application.User {
	return application.User{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		IsAdmin:     user.IsAdmin,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
	}
}

func toApplicationRegistration(registration persistence.Registration) application.Registration {
	return application.Registration{
		ID:           registration.ID,
		UserID:       registration.UserID,
		SessionID:    registration.SessionID,
		Status:       application.RegistrationStatus(registration.Status),
		RegisteredAt: registration.RegisteredAt,
	}
}

func toPersistenceRegistration(registration application.Registration) persistence.Registration {
	return persistence.Registration{
		ID:           registration.ID,
		UserID:       registration.UserID,
		SessionID:    registration.SessionID,
		Status:       string(registration.Status),
		RegisteredAt: registration.RegisteredAt,
	}
}

type conferenceStoreAdapter struct {
	repo persistence.ConferenceRepository
}

func newConferenceStoreAdapter(repo persistence.ConferenceRepository) *conferenceStoreAdapter {
	return &conferenceStoreAdapter{repo: repo}
}

func (a *conferenceStoreAdapter) CreateConference(ctx context.Context, conference application.Conference) (application.Conference, error) {
	if err := a.repo.CreateConference(ctx, toPersistenceConference(conference)); err != nil {
		return application.Conference{}, err
	}
	return a.GetConference(ctx, conference.ID)
}

func (a *conferenceStoreAdapter) GetConference(ctx context.Context, id string) (application.Conference, error) {
	stored, err := a.repo.GetConference(ctx, id)
	if err != nil {
		return application.Conference{}, err
	}
	return toApplicationConference(stored), nil
}

func (a *conferenceStoreAdapter) UpdateConference(ctx context.Context, conference application.Conference) (application.Conference, error) {
	if err := a.repo.UpdateConference(ctx, toPersistenceConference(conference)); err != nil {
		return application.Conference{}, err
	}
	return a.GetConference(ctx, conference.ID)
}

func (a *conferenceStoreAdapter) DeleteConference(ctx context.Context, id string) error {
	return a.repo.DeleteConference(ctx, id)
}

func (a *conferenceStoreAdapter) ListConferences(ctx context.Context) ([]application.Conference, error) {
	models, err := a.repo.ListConferences(ctx)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	conferences := make([]application.Conference, 0, len(models))
	for _, model := range models {
		conferences = append(conferences, toApplicationConference(model))
	}
	return conferences, nil
}

type roomStoreAdapter struct {
	repo persistence.RoomRepository
}

func newRoomStoreAdapter(repo persistence.RoomRepository) *roomStoreAdapter {
	return &roomStoreAdapter{repo: repo}
}

func (a *roomStoreAdapter) CreateRoom(ctx context.Context, room application.Room) (application.Room, error) {
	if err := a.repo.CreateRoom(ctx, toPersistenceRoom(room)); err != nil {
		return application.Room{}, err
	}
	return a.GetRoom(ctx, room.ID)
}

func (a *roomStoreAdapter) GetRoom(ctx context.Context, id string) (application.Room, error) {
	stored, err := a.repo.GetRoom(ctx, id)
	if err != nil {
		return application.Room{}, err
	}
	return toApplicationRoom(stored), nil
}

func (a *roomStoreAdapter) UpdateRoom(ctx context.Context, room application.Room) (application.Room, error) {
	if err := a.repo.UpdateRoom(ctx, toPersistenceRoom(room)); err != nil {
		return application.Room{}, err
	}
	return a.GetRoom(ctx, room.ID)
}

func (a *roomStoreAdapter) DeleteRoom(ctx context.Context, id string) error {
	return a.repo.DeleteRoom(ctx, id)
}

func (a *roomStoreAdapter) ListRooms(ctx context.Context) ([]application.Room, error) {
	models, err := a.repo.ListRooms(ctx)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	rooms := make([]application.Room, 0, len(models))
	for _, model := range models {
		rooms = append(rooms, toApplicationRoom(model))
	}
	return rooms, nil
}

// RoomExists satisfies application.RoomCatalog.
func (a *roomStoreAdapter) RoomExists(ctx context.Context, id string) (bool, error) {
	if _, err := a.repo.GetRoom(ctx, id); err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

type resourceStoreAdapter struct {
	repo persistence.ResourceRepository
}

func newResourceStoreAdapter(repo persistence.ResourceRepository) *resourceStoreAdapter {
	return &resourceStoreAdapter{repo: repo}
}

func (a *resourceStoreAdapter) CreateResource(ctx context.Context, resource application.Resource) (application.Resource, error) {
	if err := a.repo.CreateResource(ctx, toPersistenceResource(resource)); err != nil {
		return application.Resource{}, err
	}
	return a.GetResource(ctx, resource.ID)
}

func (a *resourceStoreAdapter) GetResource(ctx context.Context, id string) (application.Resource, error) {
	stored, err := a.repo.GetResource(ctx, id)
	if err != nil {
		return application.Resource{}, err
	}
	return toApplicationResource(stored), nil
}

func (a *resourceStoreAdapter) UpdateResource(ctx context.Context, resource application.Resource) (application.Resource, error) {
	if err := a.repo.UpdateResource(ctx, toPersistenceResource(resource)); err != nil {
		return application.Resource{}, err
	}
	return a.GetResource(ctx, resource.ID)
}

func (a *resourceStoreAdapter) DeleteResource(ctx context.Context, id string) error {
	return a.repo.DeleteResource(ctx, id)
}

func (a *resourceStoreAdapter) ListResources(ctx context.Context) ([]application.Resource, error) {
	models, err := a.repo.ListResources(ctx)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	resources := make([]application.Resource, 0, len(models))
	for _, model := range models {
		resources = append(resources, toApplicationResource(model))
	}
	return resources, nil
}

type sessionStoreAdapter struct {
	repo persistence.SessionRepository
}

func newSessionStoreAdapter(repo persistence.SessionRepository) *sessionStoreAdapter {
	return &sessionStoreAdapter{repo: repo}
}

func (a *sessionStoreAdapter) CreateSession(ctx context.Context, session application.Session) (application.Session, error) {
	if err := a.repo.CreateSession(ctx, toPersistenceSession(session)); err != nil {
		return application.Session{}, err
	}
	return a.GetSession(ctx, session.ID)
}

func (a *sessionStoreAdapter) GetSession(ctx context.Context, id string) (application.Session, error) {
	stored, err := a.repo.GetSession(ctx, id)
	if err != nil {
		return application.Session{}, err
	}
	return toApplicationSession(stored), nil
}

func (a *sessionStoreAdapter) UpdateSession(ctx context.Context, session application.Session) (application.Session, error) {
	if err := a.repo.UpdateSession(ctx, toPersistenceSession(session)); err != nil {
		return application.Session{}, err
	}
	return a.GetSession(ctx, session.ID)
}

func (a *sessionStoreAdapter) DeleteSession(ctx context.Context, id string) error {
	return a.repo.DeleteSession(ctx, id)
}

func (a *sessionStoreAdapter) ListSessions(ctx context.Context, filter application.ListSessionsParams) ([]application.Session, error) {
	models, err := a.repo.ListSessions(ctx, persistence.SessionFilter{
		ConferenceID: filter.ConferenceID,
		RoomID:       filter.RoomID,
		StartsAfter:  filter.StartsAfter,
		EndsBefore:   filter.EndsBefore,
	})
	if err != nil {
		return nil, err
	}
	return toApplicationSessions(models), nil
}

func (a *sessionStoreAdapter) ListSessionsByRoom(ctx context.Context, roomID, excludeID string) ([]application.Session, error) {
	models, err := a.repo.ListSessionsByRoom(ctx, roomID, excludeID)
	if err != nil {
		return nil, err
	}
	return toApplicationSessions(models), nil
}

func (a *sessionStoreAdapter) ListSessionsByResourceOverlap(ctx context.Context, resourceID string, start, end time.Time, excludeID string) ([]application.Session, error) {
	models, err := a.repo.ListSessionsByResourceOverlap(ctx, resourceID, start, end, excludeID)
	if err != nil {
		return nil, err
	}
	return toApplicationSessions(models), nil
}

func toApplicationSessions(models []persistence.Session) []application.Session {
	if len(models) == 0 {
		return nil
	}
	sessions := make([]application.Session, 0, len(models))
	for _, model := range models {
		sessions = append(sessions, toApplicationSession(model))
	}
	return sessions
}

type registrationStoreAdapter struct {
	repo persistence.RegistrationRepository
}

func newRegistrationStoreAdapter(repo persistence.RegistrationRepository) *registrationStoreAdapter {
	return &registrationStoreAdapter{repo: repo}
}

func (a *registrationStoreAdapter) CreateRegistration(ctx context.Context, registration application.Registration) (application.Registration, error) {
	if err := a.repo.CreateRegistration(ctx, toPersistenceRegistration(registration)); err != nil {
		return application.Registration{}, err
	}
	return a.GetRegistration(ctx, registration.ID)
}

func (a *registrationStoreAdapter) GetRegistration(ctx context.Context, id string) (application.Registration, error) {
	stored, err := a.repo.GetRegistration(ctx, id)
	if err != nil {
		return application.Registration{}, err
	}
	return toApplicationRegistration(stored), nil
}

func (a *registrationStoreAdapter) GetRegistrationByUserAndSession(ctx context.Context, userID, sessionID string) (application.Registration, error) {
	stored, err := a.repo.GetRegistrationByUserAndSession(ctx, userID, sessionID)
	if err != nil {
		return application.Registration{}, err
	}
	return toApplicationRegistration(stored), nil
}

func (a *registrationStoreAdapter) UpdateRegistration(ctx context.Context, registration application.Registration) (application.Registration, error) {
	if err := a.repo.UpdateRegistration(ctx, toPersistenceRegistration(registration)); err != nil {
		return application.Registration{}, err
	}
	return a.GetRegistration(ctx, registration.ID)
}

func (a *registrationStoreAdapter) ListRegistrationsByUser(ctx context.Context, userID string) ([]application.Registration, error) {
	models, err := a.repo.ListRegistrationsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toApplicationRegistrations(models), nil
}

func (a *registrationStoreAdapter) ListRegistrationsBySession(ctx context.Context, sessionID string) ([]application.Registration, error) {
	models, err := a.repo.ListRegistrationsBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return toApplicationRegistrations(models), nil
}

func (a *registrationStoreAdapter) CountActiveRegistrations(ctx context.Context, sessionID string) (int, error) {
	return a.repo.CountRegistrationsBySessionStatus(ctx, sessionID, string(application.RegistrationStatusRegistered))
}

func toApplicationRegistrations(models []persistence.Registration) []application.Registration {
	if len(models) == 0 {
		return nil
	}
	registrations := make([]application.Registration, 0, len(models))
	for _, model := range models {
		registrations = append(registrations, toApplicationRegistration(model))
	}
	return registrations
}

type userStoreAdapter struct {
	repo persistence.UserRepository
}

func newUserStoreAdapter(repo persistence.UserRepository) *userStoreAdapter {
	return &userStoreAdapter{repo: repo}
}

func (a *userStoreAdapter) CreateUser(ctx context.Context, user application.User, passwordHash string) (application.User, error) {
	model := persistence.User{
		ID:           user.ID,
		Email:        user.Email,
		DisplayName:  user.DisplayName,
		PasswordHash: passwordHash,
		IsAdmin:      user.IsAdmin,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
	if err := a.repo.CreateUser(ctx, model); err != nil {
		return application.User{}, err
	}
	return a.GetUser(ctx, user.ID)
}

func (a *userStoreAdapter) GetUser(ctx context.Context, id string) (application.User, error) {
	stored, err := a.repo.GetUser(ctx, id)
	if err != nil {
		return application.User{}, err
	}
	return toApplicationUser(stored), nil
}

func (a *userStoreAdapter) ListUsers(ctx context.Context) ([]application.User, error) {
	models, err := a.repo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	users := make([]application.User, 0, len(models))
	for _, model := range models {
		users = append(users, toApplicationUser(model))
	}
	return users, nil
}

// GetUserCredentialsByEmail satisfies application.CredentialStore.
func (a *userStoreAdapter) GetUserCredentialsByEmail(ctx context.Context, email string) (application.UserCredentials, error) {
	stored, err := a.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return application.UserCredentials{}, err
	}
	return application.UserCredentials{
		User:         toApplicationUser(stored),
		PasswordHash: stored.PasswordHash,
	}, nil
}

type tokenStoreAdapter struct {
	repo persistence.AuthSessionRepository
}

func newTokenStoreAdapter(repo persistence.AuthSessionRepository) *tokenStoreAdapter {
	return &tokenStoreAdapter{repo: repo}
}

func (a *tokenStoreAdapter) CreateTokenSession(ctx context.Context, session application.TokenSession) (application.TokenSession, error) {
	model := persistence.AuthSession{
		ID:        session.ID,
		UserID:    session.UserID,
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		CreatedAt: session.CreatedAt,
		RevokedAt: session.RevokedAt,
	}
	if err := a.repo.CreateAuthSession(ctx, model); err != nil {
		return application.TokenSession{}, err
	}
	return a.GetTokenSessionByToken(ctx, session.Token)
}

func (a *tokenStoreAdapter) GetTokenSessionByToken(ctx context.Context, token string) (application.TokenSession, error) {
	stored, err := a.repo.GetAuthSessionByToken(ctx, token)
	if err != nil {
		return application.TokenSession{}, err
	}
	return application.TokenSession{
		ID:        stored.ID,
		UserID:    stored.UserID,
		Token:     stored.Token,
		ExpiresAt: stored.ExpiresAt,
		CreatedAt: stored.CreatedAt,
		RevokedAt: stored.RevokedAt,
	}, nil
}

func (a *tokenStoreAdapter) RevokeTokenSession(ctx context.Context, token string, revokedAt time.Time) error {
	return a.repo.RevokeAuthSession(ctx, token, revokedAt)
}

func (a *tokenStoreAdapter) DeleteExpiredTokenSessions(ctx context.Context, reference time.Time) error {
	return a.repo.DeleteExpiredAuthSessions(ctx, reference)
}
