package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/conference-scheduler/internal/application"
)

type registrationService interface {
	Register(ctx context.Context, params application.RegisterParams) (application.Registration, error)
	Cancel(ctx context.Context, params application.CancelRegistrationParams) error
	ListForUser(ctx context.Context, principal application.Principal, userID string) ([]application.Registration, error)
	ListForSession(ctx context.Context, principal application.Principal, sessionID string) ([]application.Registration, error)
}

type RegistrationHandler struct {
	service   registrationService
	responder responder
}

func NewRegistrationHandler(service registrationService, logger *slog.Logger) *RegistrationHandler {
	return &RegistrationHandler{service: service, responder: newResponder(logger)}
}

// Create registers the calling principal for a session. The service decides
// between REGISTERED and WAITLISTED based on remaining room capacity.
func (h *RegistrationHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req registrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	if strings.TrimSpace(req.SessionID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidSessionID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	registration, err := h.service.Register(r.Context(), application.RegisterParams{
		Principal: principal,
		SessionID: strings.TrimSpace(req.SessionID),
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toRegistrationDTO(registration))
}

func (h *RegistrationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	registrationID, ok := RegistrationIDFromContext(r.Context())
	if !ok || strings.TrimSpace(registrationID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRegistrationID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	if err := h.service.Cancel(r.Context(), application.CancelRegistrationParams{
		Principal:      principal,
		RegistrationID: registrationID,
	}); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// List returns the caller's registrations by default. Administrators may
// filter with ?userId= or ?sessionId=.
func (h *RegistrationHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var registrations []application.Registration
	var err error
	if sessionID := strings.TrimSpace(r.URL.Query().Get("sessionId")); sessionID != "" {
		registrations, err = h.service.ListForSession(r.Context(), principal, sessionID)
	} else {
		userID := strings.TrimSpace(r.URL.Query().Get("userId"))
		registrations, err = h.service.ListForUser(r.Context(), principal, userID)
	}
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, listRegistrationsResponse{
		Registrations: toRegistrationDTOs(registrations),
	})
}

type registrationRequest struct {
	SessionID string `json:"sessionId"`
}

type listRegistrationsResponse struct {
	Registrations []registrationDTO `json:"registrations"`
}

type registrationDTO struct {
	ID           string `json:"id"`
	UserID       string `json:"userId"`
	SessionID    string `json:"sessionId"`
	Status       string `json:"status"`
	RegisteredAt string `json:"registeredAt"`
}

func toRegistrationDTO(registration application.Registration) registrationDTO {
	return registrationDTO{
		ID:           registration.ID,
		UserID:       registration.UserID,
		SessionID:    registration.SessionID,
		Status:       string(registration.Status),
		RegisteredAt: formatTimestamp(registration.RegisteredAt),
	}
}

func toRegistrationDTOs(registrations []application.Registration) []registrationDTO {
	if len(registrations) == 0 {
		return nil
	}
	out := make([]registrationDTO, 0, len(registrations))
	for _, registration := range registrations {
		out = append(out, toRegistrationDTO(registration))
	}
	return out
}
