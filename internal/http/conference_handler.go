package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/conference-scheduler/internal/application"
)

type conferenceService interface {
	CreateConference(ctx context.Context, params application.CreateConferenceParams) (application.Conference, error)
	UpdateConference(ctx context.Context, params application.UpdateConferenceParams) (application.Conference, error)
	DeleteConference(ctx context.Context, principal application.Principal, id string) error
	ListConferences(ctx context.Context) ([]application.Conference, error)
}

type ConferenceHandler struct {
	service   conferenceService
	responder responder
}

func NewConferenceHandler(service conferenceService, logger *slog.Logger) *ConferenceHandler {
	return &ConferenceHandler{service: service, responder: newResponder(logger)}
}

func (h *ConferenceHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req conferenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	conference, err := h.service.CreateConference(r.Context(), application.CreateConferenceParams{
		Principal: principal,
		Input:     req.toInput(),
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toConferenceDTO(conference))
}

func (h *ConferenceHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	conferenceID, ok := ConferenceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(conferenceID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidConferenceID)
		return
	}

	var req conferenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	conference, err := h.service.UpdateConference(r.Context(), application.UpdateConferenceParams{
		Principal:    principal,
		ConferenceID: conferenceID,
		Input:        req.toInput(),
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toConferenceDTO(conference))
}

func (h *ConferenceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	conferenceID, ok := ConferenceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(conferenceID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidConferenceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	if err := h.service.DeleteConference(r.Context(), principal, conferenceID); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *ConferenceHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	conferences, err := h.service.ListConferences(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, listConferencesResponse{
		Conferences: toConferenceDTOs(conferences),
	})
}

type conferenceRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Location    *string `json:"location"`
	Start       string  `json:"start"`
	End         string  `json:"end"`
}

func (r conferenceRequest) toInput() application.ConferenceInput {
	return application.ConferenceInput{
		Name:        strings.TrimSpace(r.Name),
		Description: r.Description,
		Location:    r.Location,
		Start:       parseTime(r.Start),
		End:         parseTime(r.End),
	}
}

func parseTime(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	if ts, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return ts
	}
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return ts
	}
	return time.Time{}
}

type listConferencesResponse struct {
	Conferences []conferenceDTO `json:"conferences"`
}

type conferenceDTO struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Location    *string `json:"location,omitempty"`
	Start       string  `json:"start"`
	End         string  `json:"end"`
	CreatedBy   string  `json:"createdBy,omitempty"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

func toConferenceDTO(conference application.Conference) conferenceDTO {
	return conferenceDTO{
		ID:          conference.ID,
		Name:        conference.Name,
		Description: conference.Description,
		Location:    conference.Location,
		Start:       formatTimestamp(conference.Start),
		End:         formatTimestamp(conference.End),
		CreatedBy:   conference.CreatedBy,
		CreatedAt:   formatTimestamp(conference.CreatedAt),
		UpdatedAt:   formatTimestamp(conference.UpdatedAt),
	}
}

func toConferenceDTOs(conferences []application.Conference) []conferenceDTO {
	if len(conferences) == 0 {
		return nil
	}
	out := make([]conferenceDTO, 0, len(conferences))
	for _, conference := range conferences {
		out = append(out, toConferenceDTO(conference))
	}
	return out
}
