package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/example/conference-scheduler/internal/application"
)

type sessionService interface {
	CreateSession(ctx context.Context, params application.CreateSessionParams) (application.Session, error)
	UpdateSession(ctx context.Context, params application.UpdateSessionParams) (application.Session, error)
	GetSession(ctx context.Context, id string) (application.Session, error)
	ListSessions(ctx context.Context, params application.ListSessionsParams) ([]application.Session, error)
	DeleteSession(ctx context.Context, principal application.Principal, id string) error
}

type conferenceLister interface {
	ListConferences(ctx context.Context) ([]application.Conference, error)
}

type roomLister interface {
	ListRooms(ctx context.Context) ([]application.Room, error)
}

type resourceLister interface {
	ListResources(ctx context.Context) ([]application.Resource, error)
}

// SessionHandler exposes the session scheduling endpoints. Listings are
// denormalized with conference names, room numbers and resource names so the
// catalog listers are consulted on every read.
type SessionHandler struct {
	service     sessionService
	conferences conferenceLister
	rooms       roomLister
	resources   resourceLister
	responder   responder
}

func NewSessionHandler(service sessionService, conferences conferenceLister, rooms roomLister, resources resourceLister, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		service:     service,
		conferences: conferences,
		rooms:       rooms,
		resources:   resources,
		responder:   newResponder(logger),
	}
}

func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	session, err := h.service.CreateSession(r.Context(), application.CreateSessionParams{
		Principal: principal,
		Input:     req.toInput(),
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, h.decorate(r.Context(), toSessionDTO(session)))
}

func (h *SessionHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	sessionID, ok := SessionIDFromContext(r.Context())
	if !ok || strings.TrimSpace(sessionID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidSessionID)
		return
	}

	var req sessionPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	session, err := h.service.UpdateSession(r.Context(), application.UpdateSessionParams{
		Principal: principal,
		SessionID: sessionID,
		Patch:     req.toPatch(),
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, h.decorate(r.Context(), toSessionDTO(session)))
}

func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	sessionID, ok := SessionIDFromContext(r.Context())
	if !ok || strings.TrimSpace(sessionID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidSessionID)
		return
	}

	session, err := h.service.GetSession(r.Context(), sessionID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, h.decorate(r.Context(), toSessionDTO(session)))
}

func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	sessionID, ok := SessionIDFromContext(r.Context())
	if !ok || strings.TrimSpace(sessionID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidSessionID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	if err := h.service.DeleteSession(r.Context(), principal, sessionID); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	sessions, err := h.service.ListSessions(r.Context(), buildListSessionsParams(r.URL.Query()))
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	dtos := make([]sessionDTO, 0, len(sessions))
	for _, session := range sessions {
		dtos = append(dtos, toSessionDTO(session))
	}

	names := h.lookupNames(r.Context())
	for i := range dtos {
		dtos[i] = names.apply(dtos[i])
	}

	if len(dtos) == 0 {
		dtos = nil
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listSessionsResponse{Sessions: dtos})
}

func (h *SessionHandler) decorate(ctx context.Context, dto sessionDTO) sessionDTO {
	return h.lookupNames(ctx).apply(dto)
}

type nameIndex struct {
	conferences map[string]string
	rooms       map[string]string
	resources   map[string]string
}

// lookupNames builds the id-to-name indexes used to denormalize session
// payloads. Lookup failures leave the names blank rather than failing the
// request.
func (h *SessionHandler) lookupNames(ctx context.Context) nameIndex {
	idx := nameIndex{
		conferences: map[string]string{},
		rooms:       map[string]string{},
		resources:   map[string]string{},
	}
	if h.conferences != nil {
		if conferences, err := h.conferences.ListConferences(ctx); err == nil {
			for _, conference := range conferences {
				idx.conferences[conference.ID] = conference.Name
			}
		}
	}
	if h.rooms != nil {
		if rooms, err := h.rooms.ListRooms(ctx); err == nil {
			for _, room := range rooms {
				idx.rooms[room.ID] = room.RoomNumber
			}
		}
	}
	if h.resources != nil {
		if resources, err := h.resources.ListResources(ctx); err == nil {
			for _, resource := range resources {
				idx.resources[resource.ID] = resource.Name
			}
		}
	}
	return idx
}

func (idx nameIndex) apply(dto sessionDTO) sessionDTO {
	dto.ConferenceName = idx.conferences[dto.ConferenceID]
	if dto.RoomID != nil {
		dto.RoomNumber = idx.rooms[*dto.RoomID]
	}
	for i := range dto.Resources {
		dto.Resources[i].ResourceName = idx.resources[dto.Resources[i].ResourceID]
	}
	return dto
}

type allocationRequest struct {
	ResourceID string `json:"resourceId"`
	Quantity   int    `json:"quantity"`
}

type sessionRequest struct {
	ConferenceID string              `json:"conferenceId"`
	Title        string              `json:"title"`
	Description  *string             `json:"description"`
	SessionType  string              `json:"sessionType"`
	Speaker      *string             `json:"speaker"`
	Start        string              `json:"start"`
	End          string              `json:"end"`
	RoomID       *string             `json:"roomId"`
	Resources    []allocationRequest `json:"resources"`
}

func (r sessionRequest) toInput() application.SessionInput {
	return application.SessionInput{
		ConferenceID: strings.TrimSpace(r.ConferenceID),
		Title:        strings.TrimSpace(r.Title),
		Description:  r.Description,
		SessionType:  application.SessionType(strings.TrimSpace(r.SessionType)),
		Speaker:      r.Speaker,
		Start:        parseTime(r.Start),
		End:          parseTime(r.End),
		RoomID:       r.RoomID,
		Allocations:  toAllocations(r.Resources),
	}
}

// sessionPatchRequest distinguishes absent fields from zero values so a
// partial update only touches what the caller sent.
type sessionPatchRequest struct {
	Title       *string              `json:"title"`
	Description *string              `json:"description"`
	SessionType *string              `json:"sessionType"`
	Speaker     *string              `json:"speaker"`
	Start       *string              `json:"start"`
	End         *string              `json:"end"`
	RoomID      *string              `json:"roomId"`
	Resources   *[]allocationRequest `json:"resources"`
}

func (r sessionPatchRequest) toPatch() application.SessionPatch {
	patch := application.SessionPatch{
		Title:       r.Title,
		Description: r.Description,
		Speaker:     r.Speaker,
		RoomID:      r.RoomID,
	}
	if r.SessionType != nil {
		sessionType := application.SessionType(strings.TrimSpace(*r.SessionType))
		patch.SessionType = &sessionType
	}
	if r.Start != nil {
		start := parseTime(*r.Start)
		patch.Start = &start
	}
	if r.End != nil {
		end := parseTime(*r.End)
		patch.End = &end
	}
	if r.Resources != nil {
		allocations := toAllocations(*r.Resources)
		if allocations == nil {
			allocations = []application.Allocation{}
		}
		patch.Allocations = &allocations
	}
	return patch
}

func toAllocations(requests []allocationRequest) []application.Allocation {
	if len(requests) == 0 {
		return nil
	}
	out := make([]application.Allocation, 0, len(requests))
	for _, req := range requests {
		out = append(out, application.Allocation{
			ResourceID: strings.TrimSpace(req.ResourceID),
			Quantity:   req.Quantity,
		})
	}
	return out
}

func buildListSessionsParams(values url.Values) application.ListSessionsParams {
	var params application.ListSessionsParams

	if conferenceID := strings.TrimSpace(values.Get("conferenceId")); conferenceID != "" {
		params.ConferenceID = &conferenceID
	}
	if roomID := strings.TrimSpace(values.Get("roomId")); roomID != "" {
		params.RoomID = &roomID
	}
	if after := strings.TrimSpace(values.Get("startsAfter")); after != "" {
		if ts := parseTime(after); !ts.IsZero() {
			params.StartsAfter = &ts
		}
	}
	if before := strings.TrimSpace(values.Get("endsBefore")); before != "" {
		if ts := parseTime(before); !ts.IsZero() {
			params.EndsBefore = &ts
		}
	}

	return params
}

type listSessionsResponse struct {
	Sessions []sessionDTO `json:"sessions"`
}

type sessionAllocationDTO struct {
	ResourceID   string `json:"resourceId"`
	ResourceName string `json:"resourceName,omitempty"`
	Quantity     int    `json:"quantity"`
}

type sessionDTO struct {
	ID             string                 `json:"id"`
	ConferenceID   string                 `json:"conferenceId"`
	ConferenceName string                 `json:"conferenceName,omitempty"`
	Title          string                 `json:"title"`
	Description    *string                `json:"description,omitempty"`
	SessionType    string                 `json:"sessionType"`
	Speaker        *string                `json:"speaker,omitempty"`
	Start          string                 `json:"start"`
	End            string                 `json:"end"`
	RoomID         *string                `json:"roomId,omitempty"`
	RoomNumber     string                 `json:"roomNumber,omitempty"`
	Resources      []sessionAllocationDTO `json:"resources,omitempty"`
	CreatedBy      string                 `json:"createdBy,omitempty"`
	CreatedAt      string                 `json:"createdAt"`
	UpdatedAt      string                 `json:"updatedAt"`
}

func toSessionDTO(session application.Session) sessionDTO {
	dto := sessionDTO{
		ID:           session.ID,
		ConferenceID: session.ConferenceID,
		Title:        session.Title,
		Description:  session.Description,
		SessionType:  string(session.SessionType),
		Speaker:      session.Speaker,
		Start:        formatTimestamp(session.Start),
		End:          formatTimestamp(session.End),
		RoomID:       session.RoomID,
		CreatedBy:    session.CreatedBy,
		CreatedAt:    formatTimestamp(session.CreatedAt),
		UpdatedAt:    formatTimestamp(session.UpdatedAt),
	}
	for _, allocation := range session.Allocations {
		dto.Resources = append(dto.Resources, sessionAllocationDTO{
			ResourceID: allocation.ResourceID,
			Quantity:   allocation.Quantity,
		})
	}
	return dto
}
