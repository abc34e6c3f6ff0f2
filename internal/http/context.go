package http

import (
	"context"

	"github.com/example/conference-scheduler/internal/application"
)

type contextKey string

const (
	principalContextKey      contextKey = "principal"
	conferenceIDContextKey   contextKey = "conference_id"
	roomIDContextKey         contextKey = "room_id"
	resourceIDContextKey     contextKey = "resource_id"
	sessionIDContextKey      contextKey = "session_id"
	registrationIDContextKey contextKey = "registration_id"
)

// ContextWithPrincipal returns a derived context containing the authenticated principal.
func ContextWithPrincipal(ctx context.Context, principal application.Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, principal)
}

// PrincipalFromContext extracts the authenticated principal from context if available.
func PrincipalFromContext(ctx context.Context) (application.Principal, bool) {
	principal, ok := ctx.Value(principalContextKey).(application.Principal)
	return principal, ok
}

// ContextWithConferenceID injects the conference identifier resolved from the request path.
func ContextWithConferenceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, conferenceIDContextKey, id)
}

// ConferenceIDFromContext extracts a conference identifier previously associated with the context.
func ConferenceIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(conferenceIDContextKey).(string)
	return id, ok
}

// ContextWithRoomID injects the room identifier resolved from the request path.
func ContextWithRoomID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, roomIDContextKey, id)
}

// RoomIDFromContext extracts a room identifier previously associated with the context.
func RoomIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(roomIDContextKey).(string)
	return id, ok
}

// ContextWithResourceID injects the resource identifier resolved from the request path.
func ContextWithResourceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, resourceIDContextKey, id)
}

// ResourceIDFromContext extracts a resource identifier previously associated with the context.
func ResourceIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(resourceIDContextKey).(string)
	return id, ok
}

// ContextWithSessionID injects the session identifier resolved from the request path.
func ContextWithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionIDContextKey, id)
}

// SessionIDFromContext extracts a session identifier previously associated with the context.
func SessionIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(sessionIDContextKey).(string)
	return id, ok
}

// ContextWithRegistrationID injects the registration identifier resolved from the request path.
func ContextWithRegistrationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, registrationIDContextKey, id)
}

// RegistrationIDFromContext extracts a registration identifier previously associated with the context.
func RegistrationIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(registrationIDContextKey).(string)
	return id, ok
}
