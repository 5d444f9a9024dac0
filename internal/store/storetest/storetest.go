// Package storetest holds the behavioral contract every store.Store
// implementation must satisfy. Adapter packages call Run from their own
// tests with a factory for fresh, initialized instances.
package storetest

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgo/playlister/internal/model"
	"github.com/forgo/playlister/internal/store"
)

// Factory returns a fresh store with Initialize already called. The store
// must be isolated from every other instance the factory returns.
type Factory func(t *testing.T) store.Store

// Run executes the contract suite against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Helper()

	tests := []struct {
		name string
		fn   func(t *testing.T, s store.Store)
	}{
		{"CreateAndGetUser", testCreateAndGetUser},
		{"CreateUserDuplicateEmail", testCreateUserDuplicateEmail},
		{"CreateUserMissingFields", testCreateUserMissingFields},
		{"UnknownUserReturnsNil", testUnknownUserReturnsNil},
		{"RoundTripPreservesSongOrder", testRoundTripPreservesSongOrder},
		{"EmptySongsRoundTrip", testEmptySongsRoundTrip},
		{"OwnerEmailResolvedFromUser", testOwnerEmailResolvedFromUser},
		{"CreateForUnknownUserPersistsNothing", testCreateForUnknownUserPersistsNothing},
		{"CreateLinksPlaylistToUser", testCreateLinksPlaylistToUser},
		{"UpdateReplacesSongs", testUpdateReplacesSongs},
		{"UpdateUnknownReturnsNil", testUpdateUnknownReturnsNil},
		{"DeleteRemovesPlaylistAndLink", testDeleteRemovesPlaylistAndLink},
		{"DeleteUnknownReturnsNil", testDeleteUnknownReturnsNil},
		{"PlaylistsByOwnerEmail", testPlaylistsByOwnerEmail},
		{"GetAllPlaylists", testGetAllPlaylists},
		{"IdempotentLifecycle", testIdempotentLifecycle},
		{"Scenario", testScenario},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.fn(t, newStore(t))
		})
	}
}

// NewUser returns a valid registration with a unique email.
func NewUser(prefix string) model.NewUser {
	return model.NewUser{
		FirstName:    "Test",
		LastName:     "User",
		Email:        fmt.Sprintf("%s-%s@example.com", prefix, uuid.NewString()[:8]),
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
	}
}

// Songs returns n distinct songs in a known order.
func Songs(n int) []model.Song {
	songs := make([]model.Song, n)
	for i := range songs {
		songs[i] = model.Song{
			Title:     fmt.Sprintf("S%d", i+1),
			Artist:    fmt.Sprintf("A%d", i+1),
			Year:      2000 + i,
			YouTubeID: fmt.Sprintf("id%d", i+1),
		}
	}
	return songs
}

func mustCreateUser(t *testing.T, s store.Store, prefix string) *model.User {
	t.Helper()
	u, err := s.CreateUser(context.Background(), NewUser(prefix))
	require.NoError(t, err)
	require.NotNil(t, u)
	return u
}

func mustCreatePlaylist(t *testing.T, s store.Store, userID, name string, songs []model.Song) *model.Playlist {
	t.Helper()
	p, err := s.CreatePlaylistForUser(context.Background(), userID, model.PlaylistInput{Name: name, Songs: songs})
	require.NoError(t, err)
	require.NotNil(t, p)
	return p
}

func playlistIDs(playlists []model.Playlist) []string {
	ids := make([]string, 0, len(playlists))
	for _, p := range playlists {
		ids = append(ids, p.ID)
	}
	return ids
}

func testCreateAndGetUser(t *testing.T, s store.Store) {
	ctx := context.Background()
	in := NewUser("create")

	created, err := s.CreateUser(ctx, in)
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, created.ID, created.LegacyID)
	assert.Equal(t, in.Email, created.Email)
	assert.Equal(t, in.PasswordHash, created.PasswordHash)
	assert.NotNil(t, created.Playlists)
	assert.Empty(t, created.Playlists)

	byID, err := s.GetUserByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, created.Email, byID.Email)
	assert.Equal(t, in.FirstName, byID.FirstName)
	assert.Equal(t, in.LastName, byID.LastName)

	byEmail, err := s.GetUserByEmail(ctx, in.Email)
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, created.ID, byEmail.ID)
}

func testCreateUserDuplicateEmail(t *testing.T, s store.Store) {
	ctx := context.Background()
	in := NewUser("dup")

	_, err := s.CreateUser(ctx, in)
	require.NoError(t, err)

	again, err := s.CreateUser(ctx, in)
	assert.Nil(t, again)
	assert.ErrorIs(t, err, store.ErrValidation)
}

func testCreateUserMissingFields(t *testing.T, s store.Store) {
	in := NewUser("missing")
	in.Email = ""

	u, err := s.CreateUser(context.Background(), in)
	assert.Nil(t, u)
	assert.ErrorIs(t, err, store.ErrValidation)
}

func testUnknownUserReturnsNil(t *testing.T, s store.Store) {
	ctx := context.Background()

	for _, id := range []string{uuid.NewString(), "not-an-id", ""} {
		u, err := s.GetUserByID(ctx, id)
		assert.NoError(t, err, "id %q", id)
		assert.Nil(t, u, "id %q", id)
	}

	u, err := s.GetUserByEmail(ctx, "nobody@example.com")
	assert.NoError(t, err)
	assert.Nil(t, u)
}

func testRoundTripPreservesSongOrder(t *testing.T, s store.Store) {
	ctx := context.Background()
	user := mustCreateUser(t, s, "order")
	songs := Songs(7)

	created := mustCreatePlaylist(t, s, user.ID, "Ordered", songs)
	assert.Equal(t, songs, created.Songs)
	assert.Equal(t, created.ID, created.LegacyID)

	got, err := s.GetPlaylistByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Ordered", got.Name)
	assert.Equal(t, songs, got.Songs)
}

func testEmptySongsRoundTrip(t *testing.T, s store.Store) {
	ctx := context.Background()
	user := mustCreateUser(t, s, "empty")

	created := mustCreatePlaylist(t, s, user.ID, "Empty", nil)
	require.NotNil(t, created.Songs)
	assert.Empty(t, created.Songs)

	got, err := s.GetPlaylistByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.NotNil(t, got.Songs)
	assert.Empty(t, got.Songs)
}

func testOwnerEmailResolvedFromUser(t *testing.T, s store.Store) {
	ctx := context.Background()
	user := mustCreateUser(t, s, "owner")

	p, err := s.CreatePlaylistForUser(ctx, user.ID, model.PlaylistInput{
		Name:       "Mine",
		Songs:      Songs(1),
		OwnerEmail: "intruder@example.com",
	})
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, user.Email, p.OwnerEmail)
}

func testCreateForUnknownUserPersistsNothing(t *testing.T, s store.Store) {
	ctx := context.Background()

	before, err := s.GetAllPlaylists(ctx)
	require.NoError(t, err)

	p, err := s.CreatePlaylistForUser(ctx, uuid.NewString(), model.PlaylistInput{Name: "Ghost", Songs: Songs(2)})
	assert.NoError(t, err)
	assert.Nil(t, p)

	after, err := s.GetAllPlaylists(ctx)
	require.NoError(t, err)
	assert.Len(t, after, len(before))
}

func testCreateLinksPlaylistToUser(t *testing.T, s store.Store) {
	ctx := context.Background()
	user := mustCreateUser(t, s, "link")
	p := mustCreatePlaylist(t, s, user.ID, "Linked", Songs(1))

	got, err := s.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Contains(t, got.Playlists, p.ID)
}

func testUpdateReplacesSongs(t *testing.T, s store.Store) {
	ctx := context.Background()
	user := mustCreateUser(t, s, "update")
	original := Songs(4)
	p := mustCreatePlaylist(t, s, user.ID, "Before", original)

	replacement := []model.Song{original[3], original[0]}
	updated, err := s.UpdatePlaylistByID(ctx, p.ID, model.PlaylistInput{Name: "After", Songs: replacement})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, p.ID, updated.ID)
	assert.Equal(t, "After", updated.Name)
	assert.Equal(t, replacement, updated.Songs)

	got, err := s.GetPlaylistByID(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "After", got.Name)
	assert.Equal(t, replacement, got.Songs)
	assert.Equal(t, user.Email, got.OwnerEmail)

	cleared, err := s.UpdatePlaylistByID(ctx, p.ID, model.PlaylistInput{Name: "Cleared"})
	require.NoError(t, err)
	require.NotNil(t, cleared)
	assert.NotNil(t, cleared.Songs)
	assert.Empty(t, cleared.Songs)
}

func testUpdateUnknownReturnsNil(t *testing.T, s store.Store) {
	p, err := s.UpdatePlaylistByID(context.Background(), uuid.NewString(), model.PlaylistInput{Name: "X"})
	assert.NoError(t, err)
	assert.Nil(t, p)
}

func testDeleteRemovesPlaylistAndLink(t *testing.T, s store.Store) {
	ctx := context.Background()
	user := mustCreateUser(t, s, "delete")
	songs := Songs(3)
	p := mustCreatePlaylist(t, s, user.ID, "Doomed", songs)

	deleted, err := s.DeletePlaylistByID(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, deleted)
	assert.Equal(t, p.ID, deleted.ID)
	assert.Equal(t, songs, deleted.Songs)

	got, err := s.GetPlaylistByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	owner, err := s.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, owner)
	assert.NotContains(t, owner.Playlists, p.ID)
}

func testDeleteUnknownReturnsNil(t *testing.T, s store.Store) {
	p, err := s.DeletePlaylistByID(context.Background(), uuid.NewString())
	assert.NoError(t, err)
	assert.Nil(t, p)
}

func testPlaylistsByOwnerEmail(t *testing.T, s store.Store) {
	ctx := context.Background()
	alice := mustCreateUser(t, s, "alice")
	bob := mustCreateUser(t, s, "bob")

	a1 := mustCreatePlaylist(t, s, alice.ID, "A1", Songs(1))
	a2 := mustCreatePlaylist(t, s, alice.ID, "A2", Songs(2))
	b1 := mustCreatePlaylist(t, s, bob.ID, "B1", Songs(1))

	mine, err := s.GetPlaylistsByOwnerEmail(ctx, alice.Email)
	require.NoError(t, err)
	ids := playlistIDs(mine)
	assert.ElementsMatch(t, []string{a1.ID, a2.ID}, ids)
	assert.NotContains(t, ids, b1.ID)

	none, err := s.GetPlaylistsByOwnerEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func testGetAllPlaylists(t *testing.T, s store.Store) {
	ctx := context.Background()

	empty, err := s.GetAllPlaylists(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)

	user := mustCreateUser(t, s, "all")
	p1 := mustCreatePlaylist(t, s, user.ID, "One", Songs(1))
	p2 := mustCreatePlaylist(t, s, user.ID, "Two", Songs(2))

	all, err := s.GetAllPlaylists(ctx)
	require.NoError(t, err)
	ids := playlistIDs(all)
	assert.Contains(t, ids, p1.ID)
	assert.Contains(t, ids, p2.ID)
	for _, p := range all {
		if p.ID == p2.ID {
			assert.Equal(t, Songs(2), p.Songs)
		}
	}
}

func testIdempotentLifecycle(t *testing.T, s store.Store) {
	ctx := context.Background()

	require.NoError(t, s.Initialize(ctx))
	require.NoError(t, s.Ping(ctx))

	user := mustCreateUser(t, s, "lifecycle")
	got, err := s.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.NoError(t, s.Close())
	assert.NoError(t, s.Close())
}

func testScenario(t *testing.T, s store.Store) {
	ctx := context.Background()

	user, err := s.CreateUser(ctx, model.NewUser{
		FirstName:    "A",
		LastName:     "X",
		Email:        fmt.Sprintf("a-%s@x.com", uuid.NewString()[:8]),
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	require.NotNil(t, user)

	songs := []model.Song{
		{Title: "S1", Artist: "A1", Year: 2000, YouTubeID: "id1"},
		{Title: "S2", Artist: "A2", Year: 2001, YouTubeID: "id2"},
	}
	p, err := s.CreatePlaylistForUser(ctx, user.ID, model.PlaylistInput{Name: "Mix", Songs: songs})
	require.NoError(t, err)
	require.NotNil(t, p)

	got, err := s.GetPlaylistByID(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, songs, got.Songs)

	owned, err := s.GetPlaylistsByOwnerEmail(ctx, user.Email)
	require.NoError(t, err)
	assert.Contains(t, playlistIDs(owned), p.ID)

	_, err = s.DeletePlaylistByID(ctx, p.ID)
	require.NoError(t, err)

	gone, err := s.GetPlaylistByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}
