// Package http provides HTTP handlers and middleware for the conference
// scheduling API.
//
// The router exposes the following endpoints:
//   - POST /login: issues an authentication token. Body: {"email","password"}.
//     Response: {"token","expiresAt","user"} with the token also surfaced via
//     the `X-Session-Token` header and a `session_token` cookie.
//   - DELETE /logout: revokes the token extracted from the Authorization
//     header or session cookie. Returns 204 No Content and clears the cookie.
//   - GET /conferences, POST /conferences, PUT /conferences/{id},
//     DELETE /conferences/{id}: conference management exchanging the
//     `conferenceDTO` payload defined in conference_handler.go. Mutations
//     require admin privileges; deleting a conference cascades to its
//     sessions and their registrations.
//   - GET /rooms, POST /rooms, PUT /rooms/{id}, DELETE /rooms/{id}: room
//     catalog endpoints exchanging the `roomDTO` payload defined in
//     room_handler.go.
//   - GET /resources, POST /resources, PUT /resources/{id},
//     DELETE /resources/{id}: shared-resource catalog endpoints exchanging
//     the `resourceDTO` payload defined in resource_handler.go.
//   - GET /sessions, POST /sessions, GET /sessions/{id}, PUT /sessions/{id},
//     DELETE /sessions/{id}: session scheduling endpoints exchanging the
//     `sessionDTO` payload defined in session_handler.go. Reads are
//     denormalized with conference names, room numbers and resource names;
//     PUT applies a partial update where absent fields keep their stored
//     value. Rejections carry a stable errorCode plus conflict or shortage
//     detail.
//   - GET /registrations, POST /registrations, DELETE /registrations/{id}:
//     attendance endpoints exchanging the `registrationDTO` payload defined
//     in registration_handler.go. Registration waitlists automatically once
//     the assigned room is full.
//   - GET /users, POST /users: administrator controlled account management
//     exchanging the `userDTO` payload defined in user_handler.go.
//
// Request/response DTOs live alongside their respective handlers so tests and
// documentation share the same ground truth.
package http
