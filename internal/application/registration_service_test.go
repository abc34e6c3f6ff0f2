package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

type registrationStoreStub struct {
	mu            sync.Mutex
	registrations map[string]Registration
}

func newRegistrationStoreStub() *registrationStoreStub {
	return &registrationStoreStub{registrations: make(map[string]Registration)}
}

func (s *registrationStoreStub) CreateRegistration(ctx context.Context, registration Registration) (Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.registrations {
		if existing.UserID == registration.UserID && existing.SessionID == registration.SessionID {
			return Registration{}, ErrAlreadyExists
		}
	}
	s.registrations[registration.ID] = registration
	return registration, nil
}

func (s *registrationStoreStub) GetRegistration(ctx context.Context, id string) (Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	registration, ok := s.registrations[id]
	if !ok {
		return Registration{}, ErrNotFound
	}
	return registration, nil
}

func (s *registrationStoreStub) GetRegistrationByUserAndSession(ctx context.Context, userID, sessionID string) (Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, registration := range s.registrations {
		if registration.UserID == userID && registration.SessionID == sessionID {
			return registration, nil
		}
	}
	return Registration{}, ErrNotFound
}

func (s *registrationStoreStub) UpdateRegistration(ctx context.Context, registration Registration) (Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.registrations[registration.ID]; !ok {
		return Registration{}, ErrNotFound
	}
	s.registrations[registration.ID] = registration
	return registration, nil
}

func (s *registrationStoreStub) ListRegistrationsByUser(ctx context.Context, userID string) ([]Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Registration
	for _, registration := range s.registrations {
		if registration.UserID == userID {
			out = append(out, registration)
		}
	}
	return out, nil
}

func (s *registrationStoreStub) ListRegistrationsBySession(ctx context.Context, sessionID string) ([]Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Registration
	for _, registration := range s.registrations {
		if registration.SessionID == sessionID {
			out = append(out, registration)
		}
	}
	return out, nil
}

func (s *registrationStoreStub) CountActiveRegistrations(ctx context.Context, sessionID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, registration := range s.registrations {
		if registration.SessionID == sessionID && registration.Status == RegistrationStatusRegistered {
			count++
		}
	}
	return count, nil
}

type sessionDirectoryStub struct {
	sessions map[string]Session
}

func (s *sessionDirectoryStub) GetSession(ctx context.Context, id string) (Session, error) {
	session, ok := s.sessions[id]
	if !ok {
		return Session{}, ErrNotFound
	}
	return session, nil
}

type roomDirectoryStub struct {
	rooms map[string]Room
}

func (s *roomDirectoryStub) GetRoom(ctx context.Context, id string) (Room, error) {
	room, ok := s.rooms[id]
	if !ok {
		return Room{}, ErrNotFound
	}
	return room, nil
}

func newRegistrationFixture(roomCapacity int) (*RegistrationService, *registrationStoreStub) {
	store := newRegistrationStoreStub()
	room := "room1"
	sessions := &sessionDirectoryStub{sessions: map[string]Session{
		"s1": {ID: "s1", ConferenceID: "conf1", RoomID: &room,
			Start: time.Date(2025, time.June, 1, 10, 0, 0, 0, time.UTC),
			End:   time.Date(2025, time.June, 1, 11, 0, 0, 0, time.UTC)},
		"s2": {ID: "s2", ConferenceID: "conf1",
			Start: time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC),
			End:   time.Date(2025, time.June, 1, 13, 0, 0, 0, time.UTC)},
	}}
	rooms := &roomDirectoryStub{rooms: map[string]Room{
		"room1": {ID: "room1", RoomNumber: "101", Capacity: roomCapacity},
	}}

	counter := 0
	idGen := func() string {
		counter++
		return fmt.Sprintf("reg-%d", counter)
	}

	service := NewRegistrationService(store, sessions, rooms, idGen, nil)
	return service, store
}

func TestRegistrationService_Register(t *testing.T) {
	t.Run("records a registration", func(t *testing.T) {
		service, _ := newRegistrationFixture(10)

		registration, err := service.Register(context.Background(), RegisterParams{
			Principal: Principal{UserID: "user1"},
			SessionID: "s1",
		})
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if registration.Status != RegistrationStatusRegistered {
			t.Errorf("expected REGISTERED, got %s", registration.Status)
		}
	})

	t.Run("rejects duplicate registrations", func(t *testing.T) {
		service, _ := newRegistrationFixture(10)

		params := RegisterParams{Principal: Principal{UserID: "user1"}, SessionID: "s1"}
		if _, err := service.Register(context.Background(), params); err != nil {
			t.Fatalf("first register failed: %v", err)
		}

		_, err := service.Register(context.Background(), params)
		if !errors.Is(err, ErrAlreadyExists) {
			t.Fatalf("expected ErrAlreadyExists, got %v", err)
		}
	})

	t.Run("reports unknown sessions", func(t *testing.T) {
		service, _ := newRegistrationFixture(10)

		_, err := service.Register(context.Background(), RegisterParams{
			Principal: Principal{UserID: "user1"},
			SessionID: "missing",
		})
		var sErr *SchedulingError
		if !errors.As(err, &sErr) || sErr.Code != CodeSessionNotFound {
			t.Fatalf("expected %s, got %v", CodeSessionNotFound, err)
		}
	})

	t.Run("waitlists once the room is full", func(t *testing.T) {
		service, _ := newRegistrationFixture(2)

		for i, expected := range []RegistrationStatus{
			RegistrationStatusRegistered,
			RegistrationStatusRegistered,
			RegistrationStatusWaitlisted,
		} {
			registration, err := service.Register(context.Background(), RegisterParams{
				Principal: Principal{UserID: fmt.Sprintf("user%d", i)},
				SessionID: "s1",
			})
			if err != nil {
				t.Fatalf("register %d failed: %v", i, err)
			}
			if registration.Status != expected {
				t.Errorf("register %d: expected %s, got %s", i, expected, registration.Status)
			}
		}
	})

	t.Run("always admits to sessions without a room", func(t *testing.T) {
		service, _ := newRegistrationFixture(1)

		for i := 0; i < 3; i++ {
			registration, err := service.Register(context.Background(), RegisterParams{
				Principal: Principal{UserID: fmt.Sprintf("user%d", i)},
				SessionID: "s2",
			})
			if err != nil {
				t.Fatalf("register %d failed: %v", i, err)
			}
			if registration.Status != RegistrationStatusRegistered {
				t.Errorf("register %d: expected REGISTERED, got %s", i, registration.Status)
			}
		}
	})

	t.Run("reactivates a canceled registration", func(t *testing.T) {
		service, _ := newRegistrationFixture(10)
		principal := Principal{UserID: "user1"}

		created, err := service.Register(context.Background(), RegisterParams{Principal: principal, SessionID: "s1"})
		if err != nil {
			t.Fatalf("register failed: %v", err)
		}
		if err := service.Cancel(context.Background(), CancelRegistrationParams{
			Principal: principal, RegistrationID: created.ID,
		}); err != nil {
			t.Fatalf("cancel failed: %v", err)
		}

		reactivated, err := service.Register(context.Background(), RegisterParams{Principal: principal, SessionID: "s1"})
		if err != nil {
			t.Fatalf("re-register failed: %v", err)
		}
		if reactivated.ID != created.ID {
			t.Errorf("expected the canceled row to be reused, got %s", reactivated.ID)
		}
		if reactivated.Status != RegistrationStatusRegistered {
			t.Errorf("expected REGISTERED, got %s", reactivated.Status)
		}
	})
}

func TestRegistrationService_Cancel(t *testing.T) {
	t.Run("owners can cancel", func(t *testing.T) {
		service, store := newRegistrationFixture(10)
		principal := Principal{UserID: "user1"}

		created, err := service.Register(context.Background(), RegisterParams{Principal: principal, SessionID: "s1"})
		if err != nil {
			t.Fatalf("register failed: %v", err)
		}

		if err := service.Cancel(context.Background(), CancelRegistrationParams{
			Principal: principal, RegistrationID: created.ID,
		}); err != nil {
			t.Fatalf("cancel failed: %v", err)
		}

		stored, _ := store.GetRegistration(context.Background(), created.ID)
		if stored.Status != RegistrationStatusCanceled {
			t.Errorf("expected CANCELED, got %s", stored.Status)
		}
	})

	t.Run("strangers cannot cancel", func(t *testing.T) {
		service, _ := newRegistrationFixture(10)

		created, err := service.Register(context.Background(), RegisterParams{
			Principal: Principal{UserID: "user1"}, SessionID: "s1",
		})
		if err != nil {
			t.Fatalf("register failed: %v", err)
		}

		err = service.Cancel(context.Background(), CancelRegistrationParams{
			Principal: Principal{UserID: "user2"}, RegistrationID: created.ID,
		})
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("administrators can cancel any registration", func(t *testing.T) {
		service, _ := newRegistrationFixture(10)

		created, err := service.Register(context.Background(), RegisterParams{
			Principal: Principal{UserID: "user1"}, SessionID: "s1",
		})
		if err != nil {
			t.Fatalf("register failed: %v", err)
		}

		if err := service.Cancel(context.Background(), CancelRegistrationParams{
			Principal: Principal{UserID: "admin1", IsAdmin: true}, RegistrationID: created.ID,
		}); err != nil {
			t.Fatalf("admin cancel failed: %v", err)
		}
	})
}

func TestRegistrationService_Listing(t *testing.T) {
	service, _ := newRegistrationFixture(10)

	for _, userID := range []string{"user1", "user2"} {
		if _, err := service.Register(context.Background(), RegisterParams{
			Principal: Principal{UserID: userID}, SessionID: "s1",
		}); err != nil {
			t.Fatalf("register failed: %v", err)
		}
	}

	own, err := service.ListForUser(context.Background(), Principal{UserID: "user1"}, "")
	if err != nil {
		t.Fatalf("ListForUser failed: %v", err)
	}
	if len(own) != 1 {
		t.Errorf("expected 1 own registration, got %d", len(own))
	}

	if _, err := service.ListForUser(context.Background(), Principal{UserID: "user1"}, "user2"); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized for peeking at another user, got %v", err)
	}

	all, err := service.ListForSession(context.Background(), Principal{UserID: "admin1", IsAdmin: true}, "s1")
	if err != nil {
		t.Fatalf("ListForSession failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 registrations, got %d", len(all))
	}

	if _, err := service.ListForSession(context.Background(), Principal{UserID: "user1"}, "s1"); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized for non-admin session listing, got %v", err)
	}
}
