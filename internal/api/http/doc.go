// Package http provides the REST endpoints of the terminal service.
//
// Endpoints:
//   - GET /: service info
//   - GET /health: status, active sessions, content version
//   - GET /sessions: live sessions
//   - DELETE /sessions/:id: terminate a session
//
// Terminal traffic itself goes over the websocket in package ws.
package http
