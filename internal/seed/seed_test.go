package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/forgo/playlister/internal/model"
	"github.com/forgo/playlister/internal/store"
	"github.com/forgo/playlister/internal/store/relational"
)

func newStore(t *testing.T) store.Store {
	t.Helper()
	s := relational.New(relational.Config{
		Dialect: relational.DialectSQLite,
		DSN:     fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString()),
	}, nil)
	require.NoError(t, s.Initialize(context.Background()))
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	data, err := LoadFile("testdata/example-db-data.json")
	require.NoError(t, err)
	assert.Len(t, data.Users, 2)
	assert.Len(t, data.Playlists, 3)
	assert.Equal(t, "CJT8xFdbCSk", data.Playlists[0].Songs[0].YouTubeID)
}

func TestLoad_InvalidJSON(t *testing.T) {
	t.Parallel()

	_, err := Load(strings.NewReader("{"))
	assert.Error(t, err)

	_, err = LoadFile("testdata/missing.json")
	assert.Error(t, err)
}

func TestSeeder_Run(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newStore(t)

	data, err := LoadFile("testdata/example-db-data.json")
	require.NoError(t, err)

	result, err := NewSeeder(s, bcrypt.MinCost, nil).Run(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, 2, result.UsersCreated)
	assert.Equal(t, 2, result.PlaylistsCreated)
	assert.Equal(t, 1, result.PlaylistsSkipped)

	joe, err := s.GetUserByEmail(ctx, "joe@shmo.com")
	require.NoError(t, err)
	require.NotNil(t, joe)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(joe.PasswordHash), []byte("aaaaaaaa")))
	require.Len(t, joe.Playlists, 1)

	lists, err := s.GetPlaylistsByOwnerEmail(ctx, "joe@shmo.com")
	require.NoError(t, err)
	require.Len(t, lists, 1)
	titles := make([]string, 0, len(lists[0].Songs))
	for _, song := range lists[0].Songs {
		titles = append(titles, song.Title)
	}
	assert.Equal(t, []string{"Fast Train", "Stuck In The Middle With You", "Bright Side of the Road"}, titles)

	// email is normalized, and a precomputed hash is stored as is
	jane, err := s.GetUserByEmail(ctx, "jane@doe.com")
	require.NoError(t, err)
	require.NotNil(t, jane)
	assert.Equal(t, data.Users[1].PasswordHash, jane.PasswordHash)

	all, err := s.GetAllPlaylists(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestSeeder_Run_ExistingUsersReused(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newStore(t)

	existing, err := s.CreateUser(ctx, model.NewUser{
		FirstName: "Joe", LastName: "Shmo", Email: "joe@shmo.com", PasswordHash: "keep-me",
	})
	require.NoError(t, err)

	data, err := LoadFile("testdata/example-db-data.json")
	require.NoError(t, err)

	result, err := NewSeeder(s, bcrypt.MinCost, nil).Run(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, 1, result.UsersSkipped)
	assert.Equal(t, 1, result.UsersCreated)

	joe, err := s.GetUserByID(ctx, existing.ID)
	require.NoError(t, err)
	assert.Equal(t, "keep-me", joe.PasswordHash)
	assert.Len(t, joe.Playlists, 1)
}

func TestSeeder_Run_SecondRunChangesNothing(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newStore(t)

	data, err := LoadFile("testdata/example-db-data.json")
	require.NoError(t, err)
	seeder := NewSeeder(s, bcrypt.MinCost, nil)

	_, err = seeder.Run(ctx, data)
	require.NoError(t, err)
	before, err := s.GetAllPlaylists(ctx)
	require.NoError(t, err)
	require.Len(t, before, 2)

	result, err := seeder.Run(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, 0, result.UsersCreated)
	assert.Equal(t, 2, result.UsersSkipped)
	assert.Equal(t, 0, result.PlaylistsCreated)
	assert.Equal(t, 3, result.PlaylistsSkipped)

	after, err := s.GetAllPlaylists(ctx)
	require.NoError(t, err)
	assert.Len(t, after, 2)

	joe, err := s.GetUserByEmail(ctx, "joe@shmo.com")
	require.NoError(t, err)
	assert.Len(t, joe.Playlists, 1)
}

func TestSeeder_Run_DuplicateNameInFileCreatedOnce(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newStore(t)

	data := &Data{
		Users: []User{{FirstName: "A", LastName: "B", Email: "a@x.com", PasswordHash: "h"}},
		Playlists: []Playlist{
			{Name: "Mix", OwnerEmail: "a@x.com"},
			{Name: "Mix", OwnerEmail: "A@X.com"},
			{Name: "Other", OwnerEmail: "a@x.com"},
		},
	}

	result, err := NewSeeder(s, bcrypt.MinCost, nil).Run(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, 2, result.PlaylistsCreated)
	assert.Equal(t, 1, result.PlaylistsSkipped)

	lists, err := s.GetPlaylistsByOwnerEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Len(t, lists, 2)
}

// failingStore rejects every user write.
type failingStore struct {
	store.Unimplemented
}

func (failingStore) GetUserByEmail(context.Context, string) (*model.User, error) {
	return nil, nil
}

func (failingStore) CreateUser(context.Context, model.NewUser) (*model.User, error) {
	return nil, store.ErrConnection
}

func TestSeeder_Run_StoreFailureAborts(t *testing.T) {
	t.Parallel()

	data := &Data{Users: []User{{FirstName: "A", LastName: "B", Email: "a@x.com", PasswordHash: "h"}}}

	_, err := NewSeeder(failingStore{}, bcrypt.MinCost, nil).Run(context.Background(), data)
	require.Error(t, err)
	assert.True(t, errors.Is(err, store.ErrConnection))
	assert.Contains(t, err.Error(), "a@x.com")
}
