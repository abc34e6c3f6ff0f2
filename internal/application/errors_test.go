package application

import (
	"fmt"
	"strings"
	"testing"
)

func TestErrorKind(t *testing.T) {
	vErr := &ValidationError{}
	vErr.add("title", "title is required")

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"unauthorized", ErrUnauthorized, "unauthorized"},
		{"not found", ErrNotFound, "not_found"},
		{"already exists", ErrAlreadyExists, "already_exists"},
		{"invalid credentials", ErrInvalidCredentials, "invalid_credentials"},
		{"session expired", ErrSessionExpired, "session_expired"},
		{"session revoked", ErrSessionRevoked, "session_revoked"},
		{"wrapped sentinel", fmt.Errorf("context: %w", ErrNotFound), "not_found"},
		{"validation", vErr, "validation"},
		{"scheduling", invalidIntervalError(), CodeInvalidInterval},
		{"wrapped scheduling", fmt.Errorf("context: %w", roomConflictError(RoomConflictDetail{RoomID: "room1"})), CodeRoomConflict},
		{"unexpected", fmt.Errorf("boom"), "unexpected"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorKind(tt.err); got != tt.want {
				t.Errorf("ErrorKind() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidationErrorMerge(t *testing.T) {
	base := &ValidationError{}
	base.add("title", "title is required")

	other := &ValidationError{}
	other.add("time", "start must be before end")

	base.merge(other)
	base.merge(nil)

	if len(base.FieldErrors) != 2 {
		t.Fatalf("expected 2 field errors, got %d", len(base.FieldErrors))
	}
	if base.FieldErrors["time"] != "start must be before end" {
		t.Errorf("merge dropped the time error: %v", base.FieldErrors)
	}
}

func TestSchedulingErrorMessages(t *testing.T) {
	err := insufficientResourceError(ResourceShortageDetail{
		ResourceID:   "res1",
		ResourceName: "Projector",
		Requested:    3,
		Available:    2,
		Total:        5,
	})
	for _, fragment := range []string{"Projector", "3", "2", "5"} {
		if !strings.Contains(err.Error(), fragment) {
			t.Errorf("expected message to mention %q, got %q", fragment, err.Error())
		}
	}
}
