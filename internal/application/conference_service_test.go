package application

import (
	"context"
	"errors"
	"testing"
	"time"
)

type conferenceStoreStub struct {
	created   Conference
	updated   Conference
	deletedID string

	get    Conference
	getErr error
	list   []Conference
}

func (s *conferenceStoreStub) CreateConference(ctx context.Context, conference Conference) (Conference, error) {
	s.created = conference
	return conference, nil
}

func (s *conferenceStoreStub) GetConference(ctx context.Context, id string) (Conference, error) {
	if s.getErr != nil {
		return Conference{}, s.getErr
	}
	if s.get.ID == "" {
		return Conference{}, ErrNotFound
	}
	return s.get, nil
}

func (s *conferenceStoreStub) UpdateConference(ctx context.Context, conference Conference) (Conference, error) {
	s.updated = conference
	return conference, nil
}

func (s *conferenceStoreStub) DeleteConference(ctx context.Context, id string) error {
	s.deletedID = id
	return nil
}

func (s *conferenceStoreStub) ListConferences(ctx context.Context) ([]Conference, error) {
	return s.list, nil
}

func confWindow() (time.Time, time.Time) {
	start := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	return start, start.Add(72 * time.Hour)
}

func TestConferenceService_CreateConference(t *testing.T) {
	t.Run("persists a valid conference", func(t *testing.T) {
		stub := &conferenceStoreStub{}
		svc := NewConferenceService(stub, func() string { return "conf-1" }, nil)
		start, end := confWindow()

		conference, err := svc.CreateConference(context.Background(), CreateConferenceParams{
			Principal: Principal{UserID: "admin1", IsAdmin: true},
			Input:     ConferenceInput{Name: " GopherCon ", Start: start, End: end},
		})
		if err != nil {
			t.Fatalf("CreateConference failed: %v", err)
		}
		if conference.Name != "GopherCon" {
			t.Errorf("expected trimmed name, got %q", conference.Name)
		}
		if conference.CreatedBy != "admin1" {
			t.Errorf("expected creator admin1, got %q", conference.CreatedBy)
		}
		if stub.created.ID != "conf-1" {
			t.Errorf("expected generated id, got %q", stub.created.ID)
		}
	})

	t.Run("requires administrator privileges", func(t *testing.T) {
		svc := NewConferenceService(&conferenceStoreStub{}, nil, nil)
		start, end := confWindow()

		_, err := svc.CreateConference(context.Background(), CreateConferenceParams{
			Principal: Principal{UserID: "user1"},
			Input:     ConferenceInput{Name: "GopherCon", Start: start, End: end},
		})
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("rejects an inverted window", func(t *testing.T) {
		svc := NewConferenceService(&conferenceStoreStub{}, nil, nil)
		start, end := confWindow()

		_, err := svc.CreateConference(context.Background(), CreateConferenceParams{
			Principal: Principal{UserID: "admin1", IsAdmin: true},
			Input:     ConferenceInput{Name: "GopherCon", Start: end, End: start},
		})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if _, ok := vErr.FieldErrors["time"]; !ok {
			t.Errorf("expected a time error, got %v", vErr.FieldErrors)
		}
	})

	t.Run("rejects a blank name", func(t *testing.T) {
		svc := NewConferenceService(&conferenceStoreStub{}, nil, nil)
		start, end := confWindow()

		_, err := svc.CreateConference(context.Background(), CreateConferenceParams{
			Principal: Principal{UserID: "admin1", IsAdmin: true},
			Input:     ConferenceInput{Name: "  ", Start: start, End: end},
		})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})
}

func TestConferenceService_UpdateConference(t *testing.T) {
	start, end := confWindow()
	stub := &conferenceStoreStub{get: Conference{
		ID: "conf1", Name: "GopherCon", Start: start, End: end, CreatedBy: "admin1",
	}}
	svc := NewConferenceService(stub, nil, nil)

	updated, err := svc.UpdateConference(context.Background(), UpdateConferenceParams{
		Principal:    Principal{UserID: "admin1", IsAdmin: true},
		ConferenceID: "conf1",
		Input:        ConferenceInput{Name: "GopherCon EU", Start: start, End: end.Add(24 * time.Hour)},
	})
	if err != nil {
		t.Fatalf("UpdateConference failed: %v", err)
	}
	if updated.Name != "GopherCon EU" {
		t.Errorf("expected renamed conference, got %q", updated.Name)
	}
	// CreatedBy survives updates.
	if updated.CreatedBy != "admin1" {
		t.Errorf("expected creator preserved, got %q", updated.CreatedBy)
	}
}

func TestConferenceService_UpdateConference_NotFound(t *testing.T) {
	svc := NewConferenceService(&conferenceStoreStub{}, nil, nil)
	start, end := confWindow()

	_, err := svc.UpdateConference(context.Background(), UpdateConferenceParams{
		Principal:    Principal{UserID: "admin1", IsAdmin: true},
		ConferenceID: "missing",
		Input:        ConferenceInput{Name: "Ghost", Start: start, End: end},
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestConferenceService_DeleteConference(t *testing.T) {
	stub := &conferenceStoreStub{}
	svc := NewConferenceService(stub, nil, nil)

	if err := svc.DeleteConference(context.Background(), Principal{UserID: "user1"}, "conf1"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	if err := svc.DeleteConference(context.Background(), Principal{UserID: "admin1", IsAdmin: true}, "conf1"); err != nil {
		t.Fatalf("DeleteConference failed: %v", err)
	}
	if stub.deletedID != "conf1" {
		t.Errorf("expected delete to reach the store, got %q", stub.deletedID)
	}
}
