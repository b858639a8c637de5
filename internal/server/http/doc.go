// Package httpserver exposes the chat-log ingest and query API over HTTP.
//
// Endpoints (all JSON):
//   - GET  /v1/healthz                 storage health
//   - POST /v1/log                     buffer one chat line
//   - GET  /v1/logs/linecount          per-day counts for room+user
//   - GET  /v1/logs/activity/users     per-user counts for a room
//   - GET  /v1/logs/activity/room      hour-of-day histogram for a room
//   - GET  /v1/logs/users/unique       distinct composite keys for a room
//   - GET  /v1/logs/seen               last-seen epoch-ms for a user
//   - GET  /v1/rooms                   known rooms
//
// The activity endpoints accept an optional CEL `filter` expression applied
// per result row, e.g. filter=count > 10.
package httpserver
