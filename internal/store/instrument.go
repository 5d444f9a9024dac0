package store

import (
	"context"
	"time"

	"github.com/forgo/playlister/internal/metrics"
	"github.com/forgo/playlister/internal/model"
)

// Instrument wraps s so every call is counted and timed under the given
// vendor label.
func Instrument(s Store, vendor string) Store {
	return &instrumented{next: s, vendor: vendor}
}

type instrumented struct {
	next   Store
	vendor string
}

func (i *instrumented) observe(operation string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.StoreOperationsTotal.WithLabelValues(i.vendor, operation, status).Inc()
	metrics.StoreOperationDuration.WithLabelValues(i.vendor, operation).Observe(time.Since(start).Seconds())
}

func (i *instrumented) Initialize(ctx context.Context) error {
	start := time.Now()
	err := i.next.Initialize(ctx)
	i.observe("initialize", start, err)
	return err
}

func (i *instrumented) Close() error {
	start := time.Now()
	err := i.next.Close()
	i.observe("close", start, err)
	return err
}

func (i *instrumented) Ping(ctx context.Context) error {
	start := time.Now()
	err := i.next.Ping(ctx)
	i.observe("ping", start, err)
	return err
}

func (i *instrumented) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	start := time.Now()
	u, err := i.next.GetUserByID(ctx, id)
	i.observe("get_user_by_id", start, err)
	return u, err
}

func (i *instrumented) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	start := time.Now()
	u, err := i.next.GetUserByEmail(ctx, email)
	i.observe("get_user_by_email", start, err)
	return u, err
}

func (i *instrumented) CreateUser(ctx context.Context, user model.NewUser) (*model.User, error) {
	start := time.Now()
	u, err := i.next.CreateUser(ctx, user)
	i.observe("create_user", start, err)
	return u, err
}

func (i *instrumented) CreatePlaylistForUser(ctx context.Context, userID string, input model.PlaylistInput) (*model.Playlist, error) {
	start := time.Now()
	p, err := i.next.CreatePlaylistForUser(ctx, userID, input)
	i.observe("create_playlist", start, err)
	return p, err
}

func (i *instrumented) GetPlaylistByID(ctx context.Context, id string) (*model.Playlist, error) {
	start := time.Now()
	p, err := i.next.GetPlaylistByID(ctx, id)
	i.observe("get_playlist_by_id", start, err)
	return p, err
}

func (i *instrumented) GetPlaylistsByOwnerEmail(ctx context.Context, email string) ([]model.Playlist, error) {
	start := time.Now()
	ps, err := i.next.GetPlaylistsByOwnerEmail(ctx, email)
	i.observe("get_playlists_by_owner", start, err)
	return ps, err
}

func (i *instrumented) GetAllPlaylists(ctx context.Context) ([]model.Playlist, error) {
	start := time.Now()
	ps, err := i.next.GetAllPlaylists(ctx)
	i.observe("get_all_playlists", start, err)
	return ps, err
}

func (i *instrumented) UpdatePlaylistByID(ctx context.Context, id string, input model.PlaylistInput) (*model.Playlist, error) {
	start := time.Now()
	p, err := i.next.UpdatePlaylistByID(ctx, id, input)
	i.observe("update_playlist", start, err)
	return p, err
}

func (i *instrumented) DeletePlaylistByID(ctx context.Context, id string) (*model.Playlist, error) {
	start := time.Now()
	p, err := i.next.DeletePlaylistByID(ctx, id)
	i.observe("delete_playlist", start, err)
	return p, err
}
