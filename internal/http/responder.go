package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/conference-scheduler/internal/application"
	"github.com/example/conference-scheduler/internal/logging"
)

var (
	errBadRequestBody        = errors.New("request body is not valid JSON")
	errInvalidConferenceID   = errors.New("a conference id is required")
	errInvalidRoomID         = errors.New("a room id is required")
	errInvalidResourceID     = errors.New("a resource id is required")
	errInvalidSessionID      = errors.New("a session id is required")
	errInvalidRegistrationID = errors.New("a registration id is required")
	errMissingAuthToken      = errors.New("an authentication token is required")
)

type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{logger: logger}
}

func (r responder) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}

	if status == http.StatusNoContent || payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (r responder) writeError(ctx context.Context, w http.ResponseWriter, status int, err error) {
	message := http.StatusText(status)
	if err != nil {
		if msg := strings.TrimSpace(err.Error()); msg != "" {
			message = msg
		}
		r.loggerFor(ctx).ErrorContext(ctx, "request failed", "status", status, "error", err)
	}

	r.writeJSON(ctx, w, status, errorResponse{Message: message})
}

// handleServiceError translates application-layer errors into HTTP responses.
// Scheduling rejections carry their stable code plus any structured detail so
// clients can distinguish a room collision from a resource shortage.
func (r responder) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		r.writeError(ctx, w, http.StatusInternalServerError, errors.New("unknown error"))
		return
	}

	switch {
	case errors.Is(err, application.ErrInvalidCredentials):
		r.writeJSON(ctx, w, http.StatusUnauthorized, errorResponse{
			ErrorCode: "AUTH_INVALID_CREDENTIALS",
			Message:   "email or password is incorrect",
		})
	case errors.Is(err, application.ErrSessionExpired):
		r.writeJSON(ctx, w, http.StatusUnauthorized, errorResponse{
			ErrorCode: "AUTH_SESSION_EXPIRED",
			Message:   "the authentication token has expired; log in again",
		})
	case errors.Is(err, application.ErrSessionRevoked):
		r.writeJSON(ctx, w, http.StatusUnauthorized, errorResponse{
			ErrorCode: "AUTH_SESSION_REVOKED",
			Message:   "the authentication token has been revoked; log in again",
		})
	case errors.Is(err, application.ErrUnauthorized):
		r.writeJSON(ctx, w, http.StatusForbidden, errorResponse{
			ErrorCode: "AUTH_FORBIDDEN",
			Message:   "you do not have permission to perform this operation",
		})
	case errors.Is(err, application.ErrAlreadyExists):
		r.writeJSON(ctx, w, http.StatusConflict, errorResponse{
			ErrorCode: "ALREADY_EXISTS",
			Message:   "the record already exists",
		})
	case errors.Is(err, application.ErrNotFound):
		r.writeJSON(ctx, w, http.StatusNotFound, errorResponse{Message: "the requested record was not found"})
	default:
		var sErr *application.SchedulingError
		if errors.As(err, &sErr) {
			r.writeJSON(ctx, w, schedulingStatus(sErr.Code), schedulingErrorResponse(sErr))
			return
		}

		var vErr *application.ValidationError
		if errors.As(err, &vErr) {
			r.writeJSON(ctx, w, http.StatusUnprocessableEntity, errorResponse{
				Message: "the request contains invalid fields",
				Errors:  vErr.FieldErrors,
			})
			return
		}

		r.writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Message: "an internal error occurred"})
	}
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	return logging.FromContextOr(ctx, r.logger)
}

func schedulingStatus(code string) int {
	switch code {
	case application.CodeConferenceNotFound,
		application.CodeSessionNotFound,
		application.CodeResourceNotFound:
		return http.StatusNotFound
	case application.CodeRoomConflict,
		application.CodeInsufficientResource:
		return http.StatusConflict
	default:
		return http.StatusUnprocessableEntity
	}
}

func schedulingErrorResponse(sErr *application.SchedulingError) errorResponse {
	resp := errorResponse{
		ErrorCode: sErr.Code,
		Message:   sErr.Message,
	}
	if sErr.Conflict != nil {
		resp.Conflict = &roomConflictDTO{
			RoomID:        sErr.Conflict.RoomID,
			WithSessionID: sErr.Conflict.WithSessionID,
			Start:         formatTimestamp(sErr.Conflict.Start),
			End:           formatTimestamp(sErr.Conflict.End),
		}
	}
	if sErr.Shortage != nil {
		resp.Shortage = &resourceShortageDTO{
			ResourceID:   sErr.Shortage.ResourceID,
			ResourceName: sErr.Shortage.ResourceName,
			Requested:    sErr.Shortage.Requested,
			Available:    sErr.Shortage.Available,
			Total:        sErr.Shortage.Total,
		}
	}
	return resp
}

func formatTimestamp(ts time.Time) string {
	return ts.UTC().Format(time.RFC3339)
}

type errorResponse struct {
	ErrorCode string               `json:"errorCode,omitempty"`
	Message   string               `json:"message"`
	Errors    map[string]string    `json:"errors,omitempty"`
	Conflict  *roomConflictDTO     `json:"conflict,omitempty"`
	Shortage  *resourceShortageDTO `json:"shortage,omitempty"`
}

type roomConflictDTO struct {
	RoomID        string `json:"roomId"`
	WithSessionID string `json:"withSessionId"`
	Start         string `json:"start"`
	End           string `json:"end"`
}

type resourceShortageDTO struct {
	ResourceID   string `json:"resourceId"`
	ResourceName string `json:"resourceName"`
	Requested    int    `json:"requested"`
	Available    int    `json:"available"`
	Total        int    `json:"total"`
}
