package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/forgo/playlister/internal/model"
	"github.com/forgo/playlister/internal/store"
)

// mockStore is an in-memory store.Store used by the service tests.
type mockStore struct {
	store.Unimplemented

	mu        sync.Mutex
	users     map[string]*model.User
	playlists map[string]*model.Playlist
	seq       int

	getErr    error
	createErr error
	updateErr error
}

func newMockStore() *mockStore {
	return &mockStore{
		users:     make(map[string]*model.User),
		playlists: make(map[string]*model.Playlist),
	}
}

func (m *mockStore) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s%d", prefix, m.seq)
}

func (m *mockStore) addUser(email string) *model.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := model.NewUserRecord(m.nextID("u"), "First", "Last", email, "hash", nil)
	m.users[u.ID] = u
	return u
}

func (m *mockStore) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.users[id], nil
}

func (m *mockStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *mockStore) CreateUser(ctx context.Context, in model.NewUser) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return nil, m.createErr
	}
	u := model.NewUserRecord(m.nextID("u"), in.FirstName, in.LastName, in.Email, in.PasswordHash, nil)
	m.users[u.ID] = u
	return u, nil
}

func (m *mockStore) CreatePlaylistForUser(ctx context.Context, userID string, in model.PlaylistInput) (*model.Playlist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return nil, m.createErr
	}
	owner, ok := m.users[userID]
	if !ok {
		return nil, nil
	}
	now := time.Now()
	p := model.NewPlaylist(m.nextID("p"), in.Name, owner.Email, in.SongsOrEmpty(), now, now)
	m.playlists[p.ID] = p
	owner.Playlists = append(owner.Playlists, p.ID)
	return p, nil
}

func (m *mockStore) GetPlaylistByID(ctx context.Context, id string) (*model.Playlist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.playlists[id], nil
}

func (m *mockStore) GetPlaylistsByOwnerEmail(ctx context.Context, email string) ([]model.Playlist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Playlist{}
	for _, p := range m.playlists {
		if p.OwnerEmail == email {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *mockStore) GetAllPlaylists(ctx context.Context) ([]model.Playlist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Playlist{}
	for _, p := range m.playlists {
		out = append(out, *p)
	}
	return out, nil
}

func (m *mockStore) UpdatePlaylistByID(ctx context.Context, id string, in model.PlaylistInput) (*model.Playlist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	p, ok := m.playlists[id]
	if !ok {
		return nil, nil
	}
	p.Name = in.Name
	p.Songs = in.SongsOrEmpty()
	return p, nil
}

func (m *mockStore) DeletePlaylistByID(ctx context.Context, id string) (*model.Playlist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.playlists[id]
	if !ok {
		return nil, nil
	}
	delete(m.playlists, id)
	return p, nil
}
