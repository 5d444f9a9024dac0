// Package model defines the canonical entities shared by every layer of the
// playlist API.
//
// Values in this package are plain structs with no vendor-native types: the
// storage adapters translate their own records into these shapes before
// returning them, so handlers never learn which database is active.
//
// # Domain Entities
//
//   - User: account owning zero or more playlists
//   - Playlist: named, ordered list of songs owned by one user
//   - Song: value type; its position inside Playlist.Songs is significant
//
// # Identifiers
//
// Every entity exposes its identifier as a string under both "id" and the
// legacy "_id" JSON key, whatever the native representation (UUID, record
// id) of the backing store.
//
// # Error Types
//
// RFC 9457 Problem Details errors are defined in errors.go:
//
//	type ProblemDetails struct {
//	    Type    string    `json:"type"`
//	    Title   string    `json:"title"`
//	    Status  int       `json:"status"`
//	    Detail  string    `json:"detail"`
//	}
package model
