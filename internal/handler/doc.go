// Package handler implements the HTTP surface of the playlist API.
//
// # Routes
//
//	POST   /store/playlist/        create a playlist for the session user
//	GET    /store/playlist/{id}    read an owned playlist
//	PUT    /store/playlist/{id}    replace name and songs of an owned playlist
//	DELETE /store/playlist/{id}    delete an owned playlist
//	GET    /store/playlistpairs/   id/name pairs of the caller's playlists
//	GET    /store/playlists/       every playlist
//	POST   /auth/register, POST /auth/login, GET /auth/logout, GET /auth/loggedIn
//	GET    /health, GET /metrics
//
// # Response Bodies
//
// The /store endpoints answer with the ad hoc JSON bodies the browser client
// was written against ({success, playlist}, {errorMessage}, ...), including
// the 400 status for anonymous callers. Account, health and routing errors
// use RFC 9457 Problem Details produced by MapServiceError.
package handler
