package application

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrUnauthorized is returned when the acting principal lacks permission for an operation.
	ErrUnauthorized = errors.New("application: unauthorized")
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrAlreadyExists is returned when a uniqueness constraint would be violated.
	ErrAlreadyExists = errors.New("application: already exists")
	// ErrInvalidCredentials is returned when authentication fails.
	ErrInvalidCredentials = errors.New("application: invalid credentials")
	// ErrSessionExpired is returned when an auth token is past its expiry.
	ErrSessionExpired = errors.New("application: session expired")
	// ErrSessionRevoked is returned when an auth token has been revoked.
	ErrSessionRevoked = errors.New("application: session revoked")
)

// ValidationError captures field level validation issues that callers can surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil {
		return ""
	}
	return "validation failed"
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}

// merge copies entries from another validation error into the receiver.
func (v *ValidationError) merge(other *ValidationError) {
	if other == nil || len(other.FieldErrors) == 0 {
		return
	}
	for field, msg := range other.FieldErrors {
		v.add(field, msg)
	}
}

// Scheduling rejection codes. Stable values; transports and logs key on them.
const (
	CodeInvalidInterval         = "INVALID_INTERVAL"
	CodeInvalidSessionType      = "INVALID_SESSION_TYPE"
	CodeConferenceNotFound      = "CONFERENCE_NOT_FOUND"
	CodeSessionNotFound         = "SESSION_NOT_FOUND"
	CodeResourceNotFound        = "RESOURCE_NOT_FOUND"
	CodeOutsideConferenceWindow = "OUTSIDE_CONFERENCE_WINDOW"
	CodeRoomConflict            = "ROOM_CONFLICT"
	CodeInsufficientResource    = "INSUFFICIENT_RESOURCE"
)

// RoomConflictDetail describes the session a candidate collides with.
type RoomConflictDetail struct {
	RoomID        string
	WithSessionID string
	Start         time.Time
	End           time.Time
}

// ResourceShortageDetail describes an over-allocated resource.
type ResourceShortageDetail struct {
	ResourceID   string
	ResourceName string
	Requested    int
	Available    int
	Total        int
}

// SchedulingError reports why a session mutation was rejected, with a stable
// code and optional structured detail for conflicts and shortages.
type SchedulingError struct {
	Code     string
	Message  string
	Conflict *RoomConflictDetail
	Shortage *ResourceShortageDetail
}

// Error implements the error interface.
func (e *SchedulingError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func invalidIntervalError() *SchedulingError {
	return &SchedulingError{
		Code:    CodeInvalidInterval,
		Message: "start must be strictly before end",
	}
}

func invalidSessionTypeError(value string) *SchedulingError {
	return &SchedulingError{
		Code:    CodeInvalidSessionType,
		Message: fmt.Sprintf("unknown session type %q", value),
	}
}

func conferenceNotFoundError(id string) *SchedulingError {
	return &SchedulingError{
		Code:    CodeConferenceNotFound,
		Message: fmt.Sprintf("conference %s does not exist", id),
	}
}

func sessionNotFoundError(id string) *SchedulingError {
	return &SchedulingError{
		Code:    CodeSessionNotFound,
		Message: fmt.Sprintf("session %s does not exist", id),
	}
}

func resourceNotFoundError(id string) *SchedulingError {
	return &SchedulingError{
		Code:    CodeResourceNotFound,
		Message: fmt.Sprintf("resource %s does not exist", id),
	}
}

func outsideConferenceWindowError(windowStart, windowEnd time.Time) *SchedulingError {
	return &SchedulingError{
		Code: CodeOutsideConferenceWindow,
		Message: fmt.Sprintf("session must fall within the conference window %s to %s",
			windowStart.Format(time.RFC3339), windowEnd.Format(time.RFC3339)),
	}
}

func roomConflictError(detail RoomConflictDetail) *SchedulingError {
	return &SchedulingError{
		Code: CodeRoomConflict,
		Message: fmt.Sprintf("room is already booked by session %s from %s to %s",
			detail.WithSessionID, detail.Start.Format(time.RFC3339), detail.End.Format(time.RFC3339)),
		Conflict: &detail,
	}
}

func insufficientResourceError(detail ResourceShortageDetail) *SchedulingError {
	return &SchedulingError{
		Code: CodeInsufficientResource,
		Message: fmt.Sprintf("insufficient %s: requested %d, available %d of %d during this time",
			detail.ResourceName, detail.Requested, detail.Available, detail.Total),
		Shortage: &detail,
	}
}
