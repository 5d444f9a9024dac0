package model

import "time"

// Song is a value inside a playlist. It has no identity of its own; its
// position in Playlist.Songs is significant.
type Song struct {
	Title     string `json:"title"`
	Artist    string `json:"artist"`
	Year      int    `json:"year"`
	YouTubeID string `json:"youTubeId"`
}

// Playlist is the canonical, vendor-neutral playlist record.
// ID and LegacyID always hold the same string.
type Playlist struct {
	ID         string    `json:"id"`
	LegacyID   string    `json:"_id"`
	Name       string    `json:"name"`
	OwnerEmail string    `json:"ownerEmail"`
	Songs      []Song    `json:"songs"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// PlaylistInput is the client-supplied content of a playlist on create or
// update. OwnerEmail is accepted for wire compatibility and ignored: the
// owner is always resolved server-side.
type PlaylistInput struct {
	Name       string `json:"name"`
	Songs      []Song `json:"songs"`
	OwnerEmail string `json:"ownerEmail,omitempty"`
}

// SongsOrEmpty returns the input songs, never nil.
func (p PlaylistInput) SongsOrEmpty() []Song {
	if p.Songs == nil {
		return []Song{}
	}
	return p.Songs
}

// IDNamePair is the summary shape used by playlist pickers.
type IDNamePair struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// NewPlaylist fills the identifier fields and normalizes Songs so the result
// is in canonical form.
func NewPlaylist(id, name, ownerEmail string, songs []Song, createdAt, updatedAt time.Time) *Playlist {
	if songs == nil {
		songs = []Song{}
	}
	return &Playlist{
		ID:         id,
		LegacyID:   id,
		Name:       name,
		OwnerEmail: ownerEmail,
		Songs:      songs,
		CreatedAt:  createdAt,
		UpdatedAt:  updatedAt,
	}
}
