// Package middleware provides HTTP middleware for the playlist API.
//
// # Available Middleware
//
//   - RequestID: assigns or propagates X-Request-ID
//   - Logger: one structured log line per request
//   - Recovery: converts panics into a 500 Problem Details response
//   - CORS: credentialed CORS for the browser client
//   - Session: resolves the caller from the "token" cookie or a Bearer header
//   - Metrics: Prometheus request counters and latency histograms
//
// # Sessions
//
// Session never rejects a request. Playlist handlers answer anonymous
// callers with their own legacy error body, so the middleware only puts the
// user into the context when a valid token is present:
//
//	userID := middleware.GetUserID(r.Context())
package middleware
