// Package document implements store.Store on SurrealDB.
//
// Songs are embedded in the playlist document in sequence order. Each user
// document carries a denormalized list of the playlist records it owns,
// maintained on create and delete. Identifiers are exposed as the record
// key without its table prefix.
package document

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/forgo/playlister/internal/database"
	"github.com/forgo/playlister/internal/model"
	"github.com/forgo/playlister/internal/store"
)

const schema = `
DEFINE TABLE IF NOT EXISTS user SCHEMALESS;
DEFINE TABLE IF NOT EXISTS playlist SCHEMALESS;
DEFINE INDEX IF NOT EXISTS user_email ON TABLE user FIELDS email UNIQUE;
DEFINE INDEX IF NOT EXISTS playlist_owner ON TABLE playlist FIELDS ownerEmail;
`

// Store is the SurrealDB storage adapter
type Store struct {
	db     database.Database
	logger *slog.Logger

	mu          sync.Mutex
	initialized bool
}

var _ store.Store = (*Store)(nil)

// New creates a document store over db. The connection is opened by Initialize.
func New(db database.Database, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, logger: logger.With(slog.String("store", "document"))}
}

// Initialize connects and bootstraps tables and indexes. Repeated calls
// reuse the existing connection.
func (s *Store) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}

	if err := s.db.Connect(ctx); err != nil {
		return fmt.Errorf("%w: %v", store.ErrConnection, err)
	}
	if err := s.db.Execute(ctx, schema, nil); err != nil {
		_ = s.db.Close()
		return fmt.Errorf("bootstrap schema: %w", translate(err))
	}

	s.initialized = true
	s.logger.Info("document store initialized")
	return nil
}

// Close releases the connection. Closing a closed store is a no-op.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return nil
	}
	s.initialized = false
	return s.db.Close()
}

// Ping reports whether SurrealDB answers.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %v", store.ErrConnection, err)
	}
	return nil
}

// GetUserByID returns the user or nil when the id does not resolve.
func (s *Store) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	rid, ok := recordID(userTable, id)
	if !ok {
		return nil, nil
	}

	result, err := s.db.QueryOne(ctx, `SELECT * FROM $id`, map[string]interface{}{"id": rid})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, translate(err)
	}
	return parseUser(result)
}

// GetUserByEmail returns the user or nil when no user has that email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	result, err := s.db.QueryOne(ctx, `SELECT * FROM user WHERE email = $email LIMIT 1`,
		map[string]interface{}{"email": email})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, translate(err)
	}
	return parseUser(result)
}

// CreateUser inserts a user with an empty playlist list.
func (s *Store) CreateUser(ctx context.Context, in model.NewUser) (*model.User, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrValidation, err)
	}

	query := `
		CREATE $id CONTENT {
			firstName: $firstName,
			lastName: $lastName,
			email: $email,
			passwordHash: $passwordHash,
			playlists: []
		}
	`
	vars := map[string]interface{}{
		"id":           newRecordID(userTable),
		"firstName":    in.FirstName,
		"lastName":     in.LastName,
		"email":        in.Email,
		"passwordHash": in.PasswordHash,
	}

	result, err := s.db.QueryOne(ctx, query, vars)
	if err != nil {
		return nil, translate(err)
	}
	return parseUser(result)
}

// CreatePlaylistForUser writes the playlist and the owner's back-reference
// in one transaction. The owner email always comes from the stored user.
func (s *Store) CreatePlaylistForUser(ctx context.Context, userID string, in model.PlaylistInput) (*model.Playlist, error) {
	owner, err := s.GetUserByID(ctx, userID)
	if err != nil || owner == nil {
		return nil, err
	}

	uid, _ := recordID(userTable, owner.ID)
	pid := newRecordID(playlistTable)

	results, err := database.NewAtomicBatch().
		Add(`
			CREATE $pid CONTENT {
				name: $name,
				ownerEmail: $ownerEmail,
				songs: $songs,
				createdAt: time::now(),
				updatedAt: time::now()
			}
		`, map[string]interface{}{
			"pid":        pid,
			"name":       in.Name,
			"ownerEmail": owner.Email,
			"songs":      songDocuments(in.SongsOrEmpty()),
		}).
		Add(`UPDATE $uid SET playlists += $pid`, map[string]interface{}{
			"uid": uid,
			"pid": pid,
		}).
		Execute(ctx, s.db)
	if err != nil {
		s.logger.Warn("create playlist transaction failed",
			slog.String("user_id", owner.ID),
			slog.String("error", err.Error()),
		)
		return nil, translate(err)
	}

	rows := database.StatementRows(results, 0)
	if len(rows) == 0 {
		return nil, errors.New("create playlist returned no record")
	}
	return parsePlaylist(rows[0])
}

// GetPlaylistByID returns the playlist or nil when the id does not resolve.
func (s *Store) GetPlaylistByID(ctx context.Context, id string) (*model.Playlist, error) {
	rid, ok := recordID(playlistTable, id)
	if !ok {
		return nil, nil
	}

	result, err := s.db.QueryOne(ctx, `SELECT * FROM $id`, map[string]interface{}{"id": rid})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, translate(err)
	}
	return parsePlaylist(result)
}

// GetPlaylistsByOwnerEmail lists an owner's playlists oldest first.
func (s *Store) GetPlaylistsByOwnerEmail(ctx context.Context, email string) ([]model.Playlist, error) {
	results, err := s.db.Query(ctx,
		`SELECT * FROM playlist WHERE ownerEmail = $email ORDER BY createdAt ASC`,
		map[string]interface{}{"email": email})
	if err != nil {
		return nil, translate(err)
	}
	return parsePlaylists(database.StatementRows(results, 0))
}

// GetAllPlaylists lists every playlist oldest first.
func (s *Store) GetAllPlaylists(ctx context.Context) ([]model.Playlist, error) {
	results, err := s.db.Query(ctx, `SELECT * FROM playlist ORDER BY createdAt ASC`, nil)
	if err != nil {
		return nil, translate(err)
	}
	return parsePlaylists(database.StatementRows(results, 0))
}

// UpdatePlaylistByID overwrites name and the whole embedded song list.
func (s *Store) UpdatePlaylistByID(ctx context.Context, id string, in model.PlaylistInput) (*model.Playlist, error) {
	existing, err := s.GetPlaylistByID(ctx, id)
	if err != nil || existing == nil {
		return nil, err
	}

	rid, _ := recordID(playlistTable, existing.ID)
	query := `UPDATE $id SET name = $name, songs = $songs, updatedAt = time::now() RETURN AFTER`
	vars := map[string]interface{}{
		"id":    rid,
		"name":  in.Name,
		"songs": songDocuments(in.SongsOrEmpty()),
	}

	result, err := s.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, translate(err)
	}
	return parsePlaylist(result)
}

// DeletePlaylistByID removes the playlist and its owner's back-reference
// together, returning the playlist as it was.
func (s *Store) DeletePlaylistByID(ctx context.Context, id string) (*model.Playlist, error) {
	existing, err := s.GetPlaylistByID(ctx, id)
	if err != nil || existing == nil {
		return nil, err
	}

	pid, _ := recordID(playlistTable, existing.ID)
	_, err = database.NewAtomicBatch().
		Add(`UPDATE user SET playlists -= $pid WHERE email = $email`, map[string]interface{}{
			"pid":   pid,
			"email": existing.OwnerEmail,
		}).
		Add(`DELETE $pid`, map[string]interface{}{"pid": pid}).
		Execute(ctx, s.db)
	if err != nil {
		s.logger.Warn("delete playlist transaction failed",
			slog.String("playlist_id", existing.ID),
			slog.String("error", err.Error()),
		)
		return nil, translate(err)
	}

	s.logger.Debug("playlist deleted", slog.String("playlist_id", existing.ID))
	return existing, nil
}

func newRecordID(table string) models.RecordID {
	return models.RecordID{Table: table, ID: strings.ReplaceAll(uuid.NewString(), "-", "")}
}

// translate maps database errors onto the store taxonomy.
func translate(err error) error {
	switch {
	case errors.Is(err, database.ErrDuplicate):
		return fmt.Errorf("%w: %v", store.ErrValidation, err)
	case errors.Is(err, database.ErrConnection):
		return fmt.Errorf("%w: %v", store.ErrConnection, err)
	default:
		return err
	}
}
