package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/example/conference-scheduler/internal/application"
)

var handlerEpoch = time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC)

type stubSessionService struct {
	session       application.Session
	sessions      []application.Session
	err           error
	lastCreate    application.CreateSessionParams
	lastUpdate    application.UpdateSessionParams
	lastList      application.ListSessionsParams
	deletedID     string
	deletedByUser string
}

func (s *stubSessionService) CreateSession(ctx context.Context, params application.CreateSessionParams) (application.Session, error) {
	s.lastCreate = params
	return s.session, s.err
}

func (s *stubSessionService) UpdateSession(ctx context.Context, params application.UpdateSessionParams) (application.Session, error) {
	s.lastUpdate = params
	return s.session, s.err
}

func (s *stubSessionService) GetSession(ctx context.Context, id string) (application.Session, error) {
	return s.session, s.err
}

func (s *stubSessionService) ListSessions(ctx context.Context, params application.ListSessionsParams) ([]application.Session, error) {
	s.lastList = params
	return s.sessions, s.err
}

func (s *stubSessionService) DeleteSession(ctx context.Context, principal application.Principal, id string) error {
	s.deletedID = id
	s.deletedByUser = principal.UserID
	return s.err
}

type stubCatalogs struct {
	conferences []application.Conference
	rooms       []application.Room
	resources   []application.Resource
}

func (s stubCatalogs) ListConferences(ctx context.Context) ([]application.Conference, error) {
	return s.conferences, nil
}

func (s stubCatalogs) ListRooms(ctx context.Context) ([]application.Room, error) {
	return s.rooms, nil
}

func (s stubCatalogs) ListResources(ctx context.Context) ([]application.Resource, error) {
	return s.resources, nil
}

func newSessionTestRouter(service *stubSessionService) http.Handler {
	catalogs := stubCatalogs{
		conferences: []application.Conference{{ID: "conf-1", Name: "GopherCon"}},
		rooms:       []application.Room{{ID: "room-1", RoomNumber: "101", Capacity: 40}},
		resources:   []application.Resource{{ID: "res-1", Name: "Projector", TotalQuantity: 5}},
	}
	handler := NewSessionHandler(service, catalogs, catalogs, catalogs, nil)
	return NewRouter(RouterConfig{Sessions: handler})
}

func sampleSession() application.Session {
	roomID := "room-1"
	return application.Session{
		ID:           "sess-1",
		ConferenceID: "conf-1",
		Title:        "Intro to Generics",
		SessionType:  application.SessionTypeWorkshop,
		Start:        handlerEpoch,
		End:          handlerEpoch.Add(time.Hour),
		RoomID:       &roomID,
		Allocations:  []application.Allocation{{ResourceID: "res-1", Quantity: 2}},
		CreatedBy:    "admin-1",
		CreatedAt:    handlerEpoch,
		UpdatedAt:    handlerEpoch,
	}
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	return out
}

func TestSessionHandlerCreate(t *testing.T) {
	t.Parallel()

	t.Run("returns denormalized payload on success", func(t *testing.T) {
		t.Parallel()

		service := &stubSessionService{session: sampleSession()}
		router := newSessionTestRouter(service)

		body := `{
			"conferenceId": "conf-1",
			"title": "Intro to Generics",
			"sessionType": "WORKSHOP",
			"start": "2025-06-01T09:00:00Z",
			"end": "2025-06-01T10:00:00Z",
			"roomId": "room-1",
			"resources": [{"resourceId": "res-1", "quantity": 2}]
		}`
		req := httptest.NewRequest(http.MethodPost, "/sessions", strings.NewReader(body))
		req = req.WithContext(ContextWithPrincipal(req.Context(), application.Principal{UserID: "admin-1", IsAdmin: true}))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d (%s)", rec.Code, rec.Body.String())
		}

		dto := decodeBody[sessionDTO](t, rec)
		if dto.ConferenceName != "GopherCon" {
			t.Fatalf("expected conference name to be denormalized, got %q", dto.ConferenceName)
		}
		if dto.RoomNumber != "101" {
			t.Fatalf("expected room number to be denormalized, got %q", dto.RoomNumber)
		}
		if len(dto.Resources) != 1 || dto.Resources[0].ResourceName != "Projector" {
			t.Fatalf("expected resource name to be denormalized, got %+v", dto.Resources)
		}

		if service.lastCreate.Input.ConferenceID != "conf-1" {
			t.Fatalf("expected conference id forwarded to service, got %q", service.lastCreate.Input.ConferenceID)
		}
		if !service.lastCreate.Principal.IsAdmin {
			t.Fatal("expected principal forwarded to service")
		}
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		t.Parallel()

		router := newSessionTestRouter(&stubSessionService{})
		req := httptest.NewRequest(http.MethodPost, "/sessions", strings.NewReader("{not json"))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestSessionHandlerErrorMapping(t *testing.T) {
	t.Parallel()

	roomID := "room-1"
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name: "room conflict maps to 409 with detail",
			err: &application.SchedulingError{
				Code:    application.CodeRoomConflict,
				Message: "room is already booked",
				Conflict: &application.RoomConflictDetail{
					RoomID:        roomID,
					WithSessionID: "sess-9",
					Start:         handlerEpoch,
					End:           handlerEpoch.Add(time.Hour),
				},
			},
			wantStatus: http.StatusConflict,
			wantCode:   "ROOM_CONFLICT",
		},
		{
			name: "resource shortage maps to 409 with detail",
			err: &application.SchedulingError{
				Code:    application.CodeInsufficientResource,
				Message: "insufficient Projector",
				Shortage: &application.ResourceShortageDetail{
					ResourceID:   "res-1",
					ResourceName: "Projector",
					Requested:    3,
					Available:    2,
					Total:        5,
				},
			},
			wantStatus: http.StatusConflict,
			wantCode:   "INSUFFICIENT_RESOURCE",
		},
		{
			name: "unknown conference maps to 404",
			err: &application.SchedulingError{
				Code:    application.CodeConferenceNotFound,
				Message: "conference does not exist",
			},
			wantStatus: http.StatusNotFound,
			wantCode:   "CONFERENCE_NOT_FOUND",
		},
		{
			name: "window violation maps to 422",
			err: &application.SchedulingError{
				Code:    application.CodeOutsideConferenceWindow,
				Message: "session must lie within the conference window",
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "OUTSIDE_CONFERENCE_WINDOW",
		},
		{
			name:       "forbidden maps to 403",
			err:        application.ErrUnauthorized,
			wantStatus: http.StatusForbidden,
			wantCode:   "AUTH_FORBIDDEN",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			router := newSessionTestRouter(&stubSessionService{err: tc.err})
			body := `{"conferenceId":"conf-1","title":"t","sessionType":"WORKSHOP","start":"2025-06-01T09:00:00Z","end":"2025-06-01T10:00:00Z"}`
			req := httptest.NewRequest(http.MethodPost, "/sessions", strings.NewReader(body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d (%s)", tc.wantStatus, rec.Code, rec.Body.String())
			}
			resp := decodeBody[errorResponse](t, rec)
			if resp.ErrorCode != tc.wantCode {
				t.Fatalf("expected error code %q, got %q", tc.wantCode, resp.ErrorCode)
			}
		})
	}

	t.Run("conflict detail is serialized", func(t *testing.T) {
		t.Parallel()

		router := newSessionTestRouter(&stubSessionService{err: &application.SchedulingError{
			Code:    application.CodeRoomConflict,
			Message: "room is already booked",
			Conflict: &application.RoomConflictDetail{
				RoomID:        roomID,
				WithSessionID: "sess-9",
				Start:         handlerEpoch,
				End:           handlerEpoch.Add(time.Hour),
			},
		}})
		body := `{"conferenceId":"conf-1","title":"t","sessionType":"WORKSHOP","start":"2025-06-01T09:00:00Z","end":"2025-06-01T10:00:00Z"}`
		req := httptest.NewRequest(http.MethodPost, "/sessions", strings.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		resp := decodeBody[errorResponse](t, rec)
		if resp.Conflict == nil {
			t.Fatal("expected conflict detail in response")
		}
		if resp.Conflict.WithSessionID != "sess-9" {
			t.Fatalf("expected colliding session id, got %q", resp.Conflict.WithSessionID)
		}
	})

	t.Run("validation errors map to 422 with field map", func(t *testing.T) {
		t.Parallel()

		vErr := &application.ValidationError{FieldErrors: map[string]string{"title": "title is required"}}
		router := newSessionTestRouter(&stubSessionService{err: vErr})
		body := `{"conferenceId":"conf-1","sessionType":"WORKSHOP","start":"2025-06-01T09:00:00Z","end":"2025-06-01T10:00:00Z"}`
		req := httptest.NewRequest(http.MethodPost, "/sessions", strings.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", rec.Code)
		}
		resp := decodeBody[errorResponse](t, rec)
		if resp.Errors["title"] != "title is required" {
			t.Fatalf("expected field error for title, got %+v", resp.Errors)
		}
	})
}

func TestSessionHandlerUpdate(t *testing.T) {
	t.Parallel()

	t.Run("forwards only the fields the caller sent", func(t *testing.T) {
		t.Parallel()

		service := &stubSessionService{session: sampleSession()}
		router := newSessionTestRouter(service)

		body := `{"title": "New Title", "roomId": "room-2"}`
		req := httptest.NewRequest(http.MethodPut, "/sessions/sess-1", strings.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
		}

		patch := service.lastUpdate.Patch
		if patch.Title == nil || *patch.Title != "New Title" {
			t.Fatalf("expected title in patch, got %+v", patch.Title)
		}
		if patch.RoomID == nil || *patch.RoomID != "room-2" {
			t.Fatalf("expected room id in patch, got %+v", patch.RoomID)
		}
		if patch.Start != nil || patch.End != nil || patch.SessionType != nil || patch.Allocations != nil {
			t.Fatal("expected absent fields to stay nil in patch")
		}
		if service.lastUpdate.SessionID != "sess-1" {
			t.Fatalf("expected session id from path, got %q", service.lastUpdate.SessionID)
		}
	})

	t.Run("empty resources array clears allocations", func(t *testing.T) {
		t.Parallel()

		service := &stubSessionService{session: sampleSession()}
		router := newSessionTestRouter(service)

		req := httptest.NewRequest(http.MethodPut, "/sessions/sess-1", strings.NewReader(`{"resources": []}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		patch := service.lastUpdate.Patch
		if patch.Allocations == nil {
			t.Fatal("expected allocations pointer to be set")
		}
		if len(*patch.Allocations) != 0 {
			t.Fatalf("expected empty allocation list, got %+v", *patch.Allocations)
		}
	})
}

func TestSessionHandlerList(t *testing.T) {
	t.Parallel()

	t.Run("maps query parameters to list filters", func(t *testing.T) {
		t.Parallel()

		service := &stubSessionService{sessions: []application.Session{sampleSession()}}
		router := newSessionTestRouter(service)

		req := httptest.NewRequest(http.MethodGet, "/sessions?conferenceId=conf-1&roomId=room-1&startsAfter=2025-06-01T00:00:00Z&endsBefore=2025-06-02T00:00:00Z", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		params := service.lastList
		if params.ConferenceID == nil || *params.ConferenceID != "conf-1" {
			t.Fatalf("expected conference filter, got %+v", params.ConferenceID)
		}
		if params.RoomID == nil || *params.RoomID != "room-1" {
			t.Fatalf("expected room filter, got %+v", params.RoomID)
		}
		if params.StartsAfter == nil || params.EndsBefore == nil {
			t.Fatal("expected time filters to be parsed")
		}

		resp := decodeBody[listSessionsResponse](t, rec)
		if len(resp.Sessions) != 1 {
			t.Fatalf("expected one session, got %d", len(resp.Sessions))
		}
		if resp.Sessions[0].ConferenceName != "GopherCon" {
			t.Fatalf("expected denormalized conference name, got %q", resp.Sessions[0].ConferenceName)
		}
	})

	t.Run("unsupported method yields 405 with Allow header", func(t *testing.T) {
		t.Parallel()

		router := newSessionTestRouter(&stubSessionService{})
		req := httptest.NewRequest(http.MethodPatch, "/sessions", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Fatalf("expected 405, got %d", rec.Code)
		}
		if allow := rec.Header().Get("Allow"); !strings.Contains(allow, http.MethodPost) {
			t.Fatalf("expected Allow header listing POST, got %q", allow)
		}
	})
}

type stubAuthService struct {
	result      application.AuthenticateResult
	err         error
	logoutErr   error
	lastEmail   string
	lastToken   string
	logoutCalls int
}

func (s *stubAuthService) Authenticate(ctx context.Context, params application.AuthenticateParams) (application.AuthenticateResult, error) {
	s.lastEmail = params.Email
	return s.result, s.err
}

func (s *stubAuthService) Logout(ctx context.Context, token string) error {
	s.logoutCalls++
	s.lastToken = token
	return s.logoutErr
}

func TestAuthHandler(t *testing.T) {
	t.Parallel()

	t.Run("login issues token via body, header and cookie", func(t *testing.T) {
		t.Parallel()

		service := &stubAuthService{result: application.AuthenticateResult{
			User: application.User{ID: "user-1", Email: "alice@example.com", DisplayName: "Alice"},
			Session: application.TokenSession{
				Token:     "token-123",
				ExpiresAt: handlerEpoch.Add(24 * time.Hour),
			},
		}}
		router := NewRouter(RouterConfig{Auth: NewAuthHandler(service, nil)})

		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":" Alice@Example.com ","password":"s3cret-pass"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d (%s)", rec.Code, rec.Body.String())
		}
		if service.lastEmail != "alice@example.com" {
			t.Fatalf("expected normalized email, got %q", service.lastEmail)
		}
		if got := rec.Header().Get("X-Session-Token"); got != "token-123" {
			t.Fatalf("expected token header, got %q", got)
		}

		var sawCookie bool
		for _, cookie := range rec.Result().Cookies() {
			if cookie.Name == "session_token" && cookie.Value == "token-123" {
				sawCookie = true
			}
		}
		if !sawCookie {
			t.Fatal("expected session_token cookie to be set")
		}

		resp := decodeBody[loginResponse](t, rec)
		if resp.Token != "token-123" || resp.User.ID != "user-1" {
			t.Fatalf("unexpected login response: %+v", resp)
		}
	})

	t.Run("login rejects bad credentials with 401", func(t *testing.T) {
		t.Parallel()

		service := &stubAuthService{err: application.ErrInvalidCredentials}
		router := NewRouter(RouterConfig{Auth: NewAuthHandler(service, nil)})

		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"a@b.c","password":"nope"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		resp := decodeBody[errorResponse](t, rec)
		if resp.ErrorCode != "AUTH_INVALID_CREDENTIALS" {
			t.Fatalf("expected invalid credentials code, got %q", resp.ErrorCode)
		}
	})

	t.Run("logout revokes the presented token and clears the cookie", func(t *testing.T) {
		t.Parallel()

		service := &stubAuthService{}
		router := NewRouter(RouterConfig{Auth: NewAuthHandler(service, nil)})

		req := httptest.NewRequest(http.MethodDelete, "/logout", nil)
		req.Header.Set("Authorization", "Bearer token-123")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
		if service.logoutCalls != 1 || service.lastToken != "token-123" {
			t.Fatalf("expected logout with token, got calls=%d token=%q", service.logoutCalls, service.lastToken)
		}

		var cleared bool
		for _, cookie := range rec.Result().Cookies() {
			if cookie.Name == "session_token" && cookie.MaxAge < 0 {
				cleared = true
			}
		}
		if !cleared {
			t.Fatal("expected session cookie to be cleared")
		}
	})

	t.Run("logout without a token yields 401", func(t *testing.T) {
		t.Parallel()

		router := NewRouter(RouterConfig{Auth: NewAuthHandler(&stubAuthService{}, nil)})
		req := httptest.NewRequest(http.MethodDelete, "/logout", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}

type stubRegistrationService struct {
	registration  application.Registration
	registrations []application.Registration
	err           error
	lastRegister  application.RegisterParams
	lastCancel    application.CancelRegistrationParams
	lastListUser  string
	lastListSess  string
}

func (s *stubRegistrationService) Register(ctx context.Context, params application.RegisterParams) (application.Registration, error) {
	s.lastRegister = params
	return s.registration, s.err
}

func (s *stubRegistrationService) Cancel(ctx context.Context, params application.CancelRegistrationParams) error {
	s.lastCancel = params
	return s.err
}

func (s *stubRegistrationService) ListForUser(ctx context.Context, principal application.Principal, userID string) ([]application.Registration, error) {
	s.lastListUser = userID
	return s.registrations, s.err
}

func (s *stubRegistrationService) ListForSession(ctx context.Context, principal application.Principal, sessionID string) ([]application.Registration, error) {
	s.lastListSess = sessionID
	return s.registrations, s.err
}

func TestRegistrationHandler(t *testing.T) {
	t.Parallel()

	t.Run("register forwards session id and principal", func(t *testing.T) {
		t.Parallel()

		service := &stubRegistrationService{registration: application.Registration{
			ID:           "reg-1",
			UserID:       "user-1",
			SessionID:    "sess-1",
			Status:       application.RegistrationStatusRegistered,
			RegisteredAt: handlerEpoch,
		}}
		router := NewRouter(RouterConfig{Registrations: NewRegistrationHandler(service, nil)})

		req := httptest.NewRequest(http.MethodPost, "/registrations", strings.NewReader(`{"sessionId":"sess-1"}`))
		req = req.WithContext(ContextWithPrincipal(req.Context(), application.Principal{UserID: "user-1"}))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d (%s)", rec.Code, rec.Body.String())
		}
		if service.lastRegister.SessionID != "sess-1" || service.lastRegister.Principal.UserID != "user-1" {
			t.Fatalf("unexpected register params: %+v", service.lastRegister)
		}

		dto := decodeBody[registrationDTO](t, rec)
		if dto.Status != "REGISTERED" {
			t.Fatalf("expected REGISTERED status, got %q", dto.Status)
		}
	})

	t.Run("duplicate registration maps to 409", func(t *testing.T) {
		t.Parallel()

		service := &stubRegistrationService{err: application.ErrAlreadyExists}
		router := NewRouter(RouterConfig{Registrations: NewRegistrationHandler(service, nil)})

		req := httptest.NewRequest(http.MethodPost, "/registrations", strings.NewReader(`{"sessionId":"sess-1"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
	})

	t.Run("cancel picks the registration id from the path", func(t *testing.T) {
		t.Parallel()

		service := &stubRegistrationService{}
		router := NewRouter(RouterConfig{Registrations: NewRegistrationHandler(service, nil)})

		req := httptest.NewRequest(http.MethodDelete, "/registrations/reg-7", nil)
		req = req.WithContext(ContextWithPrincipal(req.Context(), application.Principal{UserID: "user-1"}))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
		if service.lastCancel.RegistrationID != "reg-7" {
			t.Fatalf("expected registration id from path, got %q", service.lastCancel.RegistrationID)
		}
	})

	t.Run("list dispatches on sessionId query", func(t *testing.T) {
		t.Parallel()

		service := &stubRegistrationService{}
		router := NewRouter(RouterConfig{Registrations: NewRegistrationHandler(service, nil)})

		req := httptest.NewRequest(http.MethodGet, "/registrations?sessionId=sess-1", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if service.lastListSess != "sess-1" {
			t.Fatalf("expected session listing, got %q", service.lastListSess)
		}
	})
}

type stubConferenceService struct {
	conference application.Conference
	err        error
	lastCreate application.CreateConferenceParams
}

func (s *stubConferenceService) CreateConference(ctx context.Context, params application.CreateConferenceParams) (application.Conference, error) {
	s.lastCreate = params
	return s.conference, s.err
}

func (s *stubConferenceService) UpdateConference(ctx context.Context, params application.UpdateConferenceParams) (application.Conference, error) {
	return s.conference, s.err
}

func (s *stubConferenceService) DeleteConference(ctx context.Context, principal application.Principal, id string) error {
	return s.err
}

func (s *stubConferenceService) ListConferences(ctx context.Context) ([]application.Conference, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []application.Conference{s.conference}, nil
}

func TestConferenceHandler(t *testing.T) {
	t.Parallel()

	t.Run("create parses the window timestamps", func(t *testing.T) {
		t.Parallel()

		service := &stubConferenceService{conference: application.Conference{
			ID:    "conf-1",
			Name:  "GopherCon",
			Start: handlerEpoch,
			End:   handlerEpoch.Add(72 * time.Hour),
		}}
		router := NewRouter(RouterConfig{Conferences: NewConferenceHandler(service, nil)})

		body := `{"name":"GopherCon","start":"2025-06-01T09:00:00Z","end":"2025-06-04T09:00:00Z"}`
		req := httptest.NewRequest(http.MethodPost, "/conferences", strings.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d (%s)", rec.Code, rec.Body.String())
		}
		if !service.lastCreate.Input.Start.Equal(handlerEpoch) {
			t.Fatalf("expected parsed start, got %v", service.lastCreate.Input.Start)
		}
	})

	t.Run("unexpected errors map to 500", func(t *testing.T) {
		t.Parallel()

		service := &stubConferenceService{err: errors.New("disk on fire")}
		router := NewRouter(RouterConfig{Conferences: NewConferenceHandler(service, nil)})

		req := httptest.NewRequest(http.MethodGet, "/conferences", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
	})
}
