// Package seed loads example users and playlists into whichever storage
// adapter is active. It goes through store.Store only, so the same data
// file populates both the document and the relational backend.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/forgo/playlister/internal/model"
	"github.com/forgo/playlister/internal/service"
	"github.com/forgo/playlister/internal/store"
)

// User is one account in a seed file. Password is hashed on load; a
// precomputed PasswordHash is used as is.
type User struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	Password     string `json:"password,omitempty"`
	PasswordHash string `json:"passwordHash,omitempty"`
}

// Playlist is one playlist in a seed file, owned by the user with OwnerEmail
type Playlist struct {
	Name       string       `json:"name"`
	OwnerEmail string       `json:"ownerEmail"`
	Songs      []model.Song `json:"songs"`
}

// Data is the content of a seed file
type Data struct {
	Users     []User     `json:"users"`
	Playlists []Playlist `json:"playlists"`
}

// Result summarizes a seeding run
type Result struct {
	UsersCreated     int   `json:"users_created"`
	UsersSkipped     int   `json:"users_skipped"`
	PlaylistsCreated int   `json:"playlists_created"`
	PlaylistsSkipped int   `json:"playlists_skipped"`
	Duration         int64 `json:"duration_ms"`
}

// Load decodes seed data from r
func Load(r io.Reader) (*Data, error) {
	var data Data
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode seed data: %w", err)
	}
	return &data, nil
}

// LoadFile decodes seed data from the file at path
func LoadFile(path string) (*Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Load(f)
}

// Seeder writes seed data through a store
type Seeder struct {
	store      store.Store
	bcryptCost int
	logger     *slog.Logger
}

// NewSeeder creates a new seeder. A zero cost uses service.DefaultBcryptCost.
func NewSeeder(s store.Store, bcryptCost int, logger *slog.Logger) *Seeder {
	if bcryptCost == 0 {
		bcryptCost = service.DefaultBcryptCost
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{store: s, bcryptCost: bcryptCost, logger: logger}
}

// Run inserts users first, then playlists. Users whose email already exists
// are kept and reused as owners. A playlist is skipped when its owner is
// unknown or already has a playlist of that name, so running the same file
// again changes nothing. Any store failure aborts the run.
func (s *Seeder) Run(ctx context.Context, data *Data) (*Result, error) {
	start := time.Now()
	result := &Result{}
	owners := make(map[string]string, len(data.Users))

	for _, u := range data.Users {
		email := service.NormalizeEmail(u.Email)

		existing, err := s.store.GetUserByEmail(ctx, email)
		if err != nil {
			return nil, fmt.Errorf("look up user %s: %w", email, err)
		}
		if existing != nil {
			owners[email] = existing.ID
			result.UsersSkipped++
			continue
		}

		hash := u.PasswordHash
		if u.Password != "" {
			hash, err = service.HashPassword(u.Password, s.bcryptCost)
			if err != nil {
				return nil, fmt.Errorf("hash password for %s: %w", email, err)
			}
		}

		created, err := s.store.CreateUser(ctx, model.NewUser{
			FirstName:    u.FirstName,
			LastName:     u.LastName,
			Email:        email,
			PasswordHash: hash,
		})
		if err != nil {
			return nil, fmt.Errorf("create user %s: %w", email, err)
		}
		owners[email] = created.ID
		result.UsersCreated++
	}

	// names already held per owner, loaded on first use
	held := make(map[string]map[string]bool)

	for _, p := range data.Playlists {
		email := service.NormalizeEmail(p.OwnerEmail)
		ownerID, ok := owners[email]
		if !ok {
			s.logger.Warn("skipping playlist with unknown owner",
				slog.String("playlist", p.Name),
				slog.String("owner_email", email),
			)
			result.PlaylistsSkipped++
			continue
		}

		names, ok := held[email]
		if !ok {
			var err error
			if names, err = s.playlistNames(ctx, email); err != nil {
				return nil, err
			}
			held[email] = names
		}
		if names[p.Name] {
			s.logger.Debug("skipping existing playlist",
				slog.String("playlist", p.Name),
				slog.String("owner_email", email),
			)
			result.PlaylistsSkipped++
			continue
		}

		created, err := s.store.CreatePlaylistForUser(ctx, ownerID, model.PlaylistInput{
			Name:  p.Name,
			Songs: p.Songs,
		})
		if err != nil {
			return nil, fmt.Errorf("create playlist %q: %w", p.Name, err)
		}
		if created == nil {
			result.PlaylistsSkipped++
			continue
		}
		names[p.Name] = true
		result.PlaylistsCreated++
	}

	result.Duration = time.Since(start).Milliseconds()
	s.logger.Info("seed complete",
		slog.Int("users_created", result.UsersCreated),
		slog.Int("users_skipped", result.UsersSkipped),
		slog.Int("playlists_created", result.PlaylistsCreated),
		slog.Int("playlists_skipped", result.PlaylistsSkipped),
	)
	return result, nil
}

// playlistNames returns the names of the playlists email already owns.
func (s *Seeder) playlistNames(ctx context.Context, email string) (map[string]bool, error) {
	lists, err := s.store.GetPlaylistsByOwnerEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("list playlists of %s: %w", email, err)
	}
	names := make(map[string]bool, len(lists))
	for _, p := range lists {
		names[p.Name] = true
	}
	return names, nil
}
