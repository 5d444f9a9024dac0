// Package store defines the storage adapter contract shared by every
// database backend.
//
// Handlers and services depend only on Store. The concrete adapter (document
// or relational) is chosen once at startup by the vendor package and
// injected; nothing outside that package knows which one is running.
//
// # Result conventions
//
//   - A lookup that finds nothing returns a nil pointer and a nil error.
//   - Sequences are never nil; an empty result is an empty slice.
//   - Every returned entity is in canonical form (see package model).
//
// # Errors
//
//   - ErrNotImplemented: the adapter does not provide the operation
//   - ErrValidation: input rejected by the store (e.g. duplicate email)
//   - ErrConnection: the backend could not be reached
package store

import (
	"context"
	"errors"

	"github.com/forgo/playlister/internal/model"
)

var (
	// ErrNotImplemented is returned by operations an adapter does not provide.
	ErrNotImplemented = errors.New("store: operation not implemented")

	// ErrValidation indicates input the store refused, such as a taken email.
	ErrValidation = errors.New("store: validation failed")

	// ErrConnection indicates the backend could not be reached.
	ErrConnection = errors.New("store: connection failed")
)

// Store is the vendor-neutral persistence contract.
type Store interface {
	// Initialize connects and prepares the schema. Calling it twice is safe.
	Initialize(ctx context.Context) error
	// Close releases the connection. Calling it twice is safe.
	Close() error
	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error

	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	CreateUser(ctx context.Context, user model.NewUser) (*model.User, error)

	// CreatePlaylistForUser stores a playlist owned by userID with the songs
	// in the given order. It returns nil if the user does not exist.
	CreatePlaylistForUser(ctx context.Context, userID string, input model.PlaylistInput) (*model.Playlist, error)
	GetPlaylistByID(ctx context.Context, id string) (*model.Playlist, error)
	GetPlaylistsByOwnerEmail(ctx context.Context, email string) ([]model.Playlist, error)
	GetAllPlaylists(ctx context.Context) ([]model.Playlist, error)
	// UpdatePlaylistByID replaces name and songs wholesale.
	UpdatePlaylistByID(ctx context.Context, id string, input model.PlaylistInput) (*model.Playlist, error)
	// DeletePlaylistByID removes the playlist and its owner's back-reference,
	// returning the playlist as it was before deletion.
	DeletePlaylistByID(ctx context.Context, id string) (*model.Playlist, error)
}

// Unimplemented can be embedded by partial adapters; every method reports
// ErrNotImplemented.
type Unimplemented struct{}

var _ Store = Unimplemented{}

func (Unimplemented) Initialize(context.Context) error { return ErrNotImplemented }
func (Unimplemented) Close() error                     { return ErrNotImplemented }
func (Unimplemented) Ping(context.Context) error       { return ErrNotImplemented }

func (Unimplemented) GetUserByID(context.Context, string) (*model.User, error) {
	return nil, ErrNotImplemented
}

func (Unimplemented) GetUserByEmail(context.Context, string) (*model.User, error) {
	return nil, ErrNotImplemented
}

func (Unimplemented) CreateUser(context.Context, model.NewUser) (*model.User, error) {
	return nil, ErrNotImplemented
}

func (Unimplemented) CreatePlaylistForUser(context.Context, string, model.PlaylistInput) (*model.Playlist, error) {
	return nil, ErrNotImplemented
}

func (Unimplemented) GetPlaylistByID(context.Context, string) (*model.Playlist, error) {
	return nil, ErrNotImplemented
}

func (Unimplemented) GetPlaylistsByOwnerEmail(context.Context, string) ([]model.Playlist, error) {
	return nil, ErrNotImplemented
}

func (Unimplemented) GetAllPlaylists(context.Context) ([]model.Playlist, error) {
	return nil, ErrNotImplemented
}

func (Unimplemented) UpdatePlaylistByID(context.Context, string, model.PlaylistInput) (*model.Playlist, error) {
	return nil, ErrNotImplemented
}

func (Unimplemented) DeletePlaylistByID(context.Context, string) (*model.Playlist, error) {
	return nil, ErrNotImplemented
}
