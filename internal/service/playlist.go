package service

import (
	"context"
	"log/slog"

	"github.com/forgo/playlister/internal/model"
)

// PlaylistStore is the slice of the storage adapter the playlist service needs.
type PlaylistStore interface {
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	CreatePlaylistForUser(ctx context.Context, userID string, in model.PlaylistInput) (*model.Playlist, error)
	GetPlaylistByID(ctx context.Context, id string) (*model.Playlist, error)
	GetPlaylistsByOwnerEmail(ctx context.Context, email string) ([]model.Playlist, error)
	GetAllPlaylists(ctx context.Context) ([]model.Playlist, error)
	UpdatePlaylistByID(ctx context.Context, id string, in model.PlaylistInput) (*model.Playlist, error)
	DeletePlaylistByID(ctx context.Context, id string) (*model.Playlist, error)
}

// PlaylistService handles playlist operations on behalf of a session user
type PlaylistService struct {
	store  PlaylistStore
	logger *slog.Logger
}

// PlaylistServiceConfig holds configuration for the playlist service
type PlaylistServiceConfig struct {
	Store  PlaylistStore
	Logger *slog.Logger
}

// NewPlaylistService creates a new playlist service
func NewPlaylistService(cfg PlaylistServiceConfig) *PlaylistService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &PlaylistService{store: cfg.Store, logger: logger}
}

// Create stores a new playlist owned by userID. The owner email in the
// input is ignored; the store resolves it from the user record.
func (s *PlaylistService) Create(ctx context.Context, userID string, in *model.PlaylistInput) (*model.Playlist, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	if in == nil {
		return nil, ErrPlaylistRequired
	}

	playlist, err := s.store.CreatePlaylistForUser(ctx, userID, *in)
	if err != nil {
		return nil, err
	}
	if playlist == nil {
		return nil, ErrUserNotFound
	}

	s.logger.Debug("playlist created",
		slog.String("playlist_id", playlist.ID),
		slog.String("user_id", userID),
	)
	return playlist, nil
}

// Get returns a playlist the caller owns
func (s *PlaylistService) Get(ctx context.Context, userID, id string) (*model.Playlist, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	return s.owned(ctx, userID, id)
}

// Update replaces the name and songs of a playlist the caller owns
func (s *PlaylistService) Update(ctx context.Context, userID, id string, in *model.PlaylistInput) (*model.Playlist, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	if in == nil {
		return nil, ErrPlaylistRequired
	}
	if _, err := s.owned(ctx, userID, id); err != nil {
		return nil, err
	}

	updated, err := s.store.UpdatePlaylistByID(ctx, id, *in)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrPlaylistNotFound
	}
	return updated, nil
}

// Delete removes a playlist the caller owns
func (s *PlaylistService) Delete(ctx context.Context, userID, id string) error {
	if userID == "" {
		return ErrUnauthorized
	}
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}

	deleted, err := s.store.DeletePlaylistByID(ctx, id)
	if err != nil {
		return err
	}
	if deleted == nil {
		return ErrPlaylistNotFound
	}

	s.logger.Debug("playlist deleted",
		slog.String("playlist_id", id),
		slog.String("user_id", userID),
	)
	return nil
}

// Pairs lists the id/name summary of the caller's playlists
func (s *PlaylistService) Pairs(ctx context.Context, userID string) ([]model.IDNamePair, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	playlists, err := s.store.GetPlaylistsByOwnerEmail(ctx, user.Email)
	if err != nil {
		return nil, err
	}

	pairs := make([]model.IDNamePair, 0, len(playlists))
	for _, p := range playlists {
		pairs = append(pairs, model.IDNamePair{ID: p.ID, Name: p.Name})
	}
	return pairs, nil
}

// All lists every playlist in the store
func (s *PlaylistService) All(ctx context.Context) ([]model.Playlist, error) {
	return s.store.GetAllPlaylists(ctx)
}

// owned loads a playlist and verifies the caller owns it. Ownership is
// resolved through the owner email stored on the playlist.
func (s *PlaylistService) owned(ctx context.Context, userID, id string) (*model.Playlist, error) {
	playlist, err := s.store.GetPlaylistByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if playlist == nil {
		return nil, ErrPlaylistNotFound
	}

	owner, err := s.store.GetUserByEmail(ctx, playlist.OwnerEmail)
	if err != nil {
		return nil, err
	}
	if owner == nil || owner.ID != userID {
		s.logger.Warn("playlist access denied",
			slog.String("playlist_id", id),
			slog.String("user_id", userID),
		)
		return nil, ErrNotOwner
	}
	return playlist, nil
}
