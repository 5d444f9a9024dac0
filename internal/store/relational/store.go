// Package relational implements store.Store on a SQL database through GORM.
//
// Three tables back the model: users, playlists (FK owner_id to users) and
// songs (FK playlist_id to playlists), both foreign keys cascading on
// delete. Songs carry an explicit order column used to sort on every read.
// Playlist writes run inside one transaction covering the playlist row and
// all of its song rows.
package relational

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/forgo/playlister/internal/model"
	"github.com/forgo/playlister/internal/store"
)

// errNoOwner aborts a playlist transaction whose user id does not resolve.
var errNoOwner = errors.New("owner not found")

// Store is the GORM storage adapter
type Store struct {
	cfg    Config
	logger *slog.Logger

	mu sync.RWMutex
	db *gorm.DB
}

var _ store.Store = (*Store)(nil)

// New creates a relational store. The connection is opened by Initialize.
func New(cfg Config, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{cfg: cfg, logger: log.With(slog.String("store", "relational"))}
}

// Initialize opens the connection and migrates the schema. Repeated calls
// reuse the existing connection.
func (s *Store) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return nil
	}

	dialector, err := s.cfg.dialector()
	if err != nil {
		return fmt.Errorf("%w: %v", store.ErrConnection, err)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         NewGormLogger(s.logger, s.cfg.SlowQueryThreshold, logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", store.ErrConnection, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("%w: %v", store.ErrConnection, err)
	}

	if s.cfg.dialect() == DialectSQLite {
		// One connection keeps in-memory databases and the pragma consistent
		sqlDB.SetMaxOpenConns(1)
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			_ = sqlDB.Close()
			return fmt.Errorf("enable foreign keys: %w", err)
		}
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return fmt.Errorf("%w: %v", store.ErrConnection, err)
	}

	if err := db.WithContext(ctx).AutoMigrate(&userRecord{}, &playlistRecord{}, &songRecord{}); err != nil {
		_ = sqlDB.Close()
		return fmt.Errorf("auto-migrate: %w", err)
	}

	s.db = db
	s.logger.Info("relational store initialized", slog.String("dialect", s.cfg.dialect()))
	return nil
}

// Close releases the connection pool. Closing a closed store is a no-op.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	s.db = nil
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping reports whether the database answers.
func (s *Store) Ping(ctx context.Context) error {
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("%w: %v", store.ErrConnection, err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", store.ErrConnection, err)
	}
	return nil
}

func (s *Store) conn(ctx context.Context) (*gorm.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return nil, fmt.Errorf("%w: store not initialized", store.ErrConnection)
	}
	return s.db.WithContext(ctx), nil
}

// GetUserByID returns the user or nil when the id does not resolve.
func (s *Store) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	if !validID(id) {
		return nil, nil
	}
	return s.findUser(ctx, "id = ?", id)
}

// GetUserByEmail returns the user or nil when no user has that email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.findUser(ctx, "email = ?", email)
}

func (s *Store) findUser(ctx context.Context, query string, arg string) (*model.User, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}

	var rec userRecord
	err = db.Preload("Playlists", playlistIDsOnly).Where(query, arg).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translateError(err)
	}
	return toUser(&rec), nil
}

// CreateUser inserts a user row.
func (s *Store) CreateUser(ctx context.Context, in model.NewUser) (*model.User, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrValidation, err)
	}

	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}

	rec := userRecord{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: in.PasswordHash,
	}
	if err := db.Create(&rec).Error; err != nil {
		return nil, translateError(err)
	}
	return toUser(&rec), nil
}

// CreatePlaylistForUser resolves the owner and writes the playlist with
// its songs in one transaction.
func (s *Store) CreatePlaylistForUser(ctx context.Context, userID string, in model.PlaylistInput) (*model.Playlist, error) {
	if !validID(userID) {
		return nil, nil
	}

	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}

	var rec playlistRecord
	err = db.Transaction(func(tx *gorm.DB) error {
		var owner userRecord
		if err := tx.First(&owner, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errNoOwner
			}
			return err
		}

		rec = playlistRecord{
			Name:       in.Name,
			OwnerEmail: owner.Email,
			OwnerID:    owner.ID,
		}
		if err := tx.Omit(clause.Associations).Create(&rec).Error; err != nil {
			return err
		}

		rec.Songs = songRecords(rec.ID, in.SongsOrEmpty())
		return createSongs(tx, rec.Songs)
	})
	if errors.Is(err, errNoOwner) {
		return nil, nil
	}
	if err != nil {
		return nil, translateError(err)
	}
	return toPlaylist(&rec), nil
}

// GetPlaylistByID returns the playlist or nil when the id does not resolve.
func (s *Store) GetPlaylistByID(ctx context.Context, id string) (*model.Playlist, error) {
	if !validID(id) {
		return nil, nil
	}

	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}

	var rec playlistRecord
	err = db.Preload("Songs", songsInOrder).First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translateError(err)
	}
	return toPlaylist(&rec), nil
}

// GetPlaylistsByOwnerEmail lists an owner's playlists oldest first. Rows
// with the same creation time are ordered by id, so repeated reads agree.
func (s *Store) GetPlaylistsByOwnerEmail(ctx context.Context, email string) ([]model.Playlist, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}

	var records []playlistRecord
	err = db.Preload("Songs", songsInOrder).
		Where("owner_email = ?", email).
		Scopes(oldestFirst).
		Find(&records).Error
	if err != nil {
		return nil, translateError(err)
	}
	return toPlaylists(records), nil
}

// GetAllPlaylists lists every playlist oldest first, ties broken by id.
func (s *Store) GetAllPlaylists(ctx context.Context) ([]model.Playlist, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}

	var records []playlistRecord
	if err := db.Preload("Songs", songsInOrder).Scopes(oldestFirst).Find(&records).Error; err != nil {
		return nil, translateError(err)
	}
	return toPlaylists(records), nil
}

// UpdatePlaylistByID renames the playlist and replaces every song row in
// one transaction.
func (s *Store) UpdatePlaylistByID(ctx context.Context, id string, in model.PlaylistInput) (*model.Playlist, error) {
	if !validID(id) {
		return nil, nil
	}

	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}

	var rec playlistRecord
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&rec, "id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Model(&rec).Update("name", in.Name).Error; err != nil {
			return err
		}
		if err := tx.Where("playlist_id = ?", rec.ID).Delete(&songRecord{}).Error; err != nil {
			return err
		}
		rec.Songs = songRecords(rec.ID, in.SongsOrEmpty())
		return createSongs(tx, rec.Songs)
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translateError(err)
	}
	return toPlaylist(&rec), nil
}

// DeletePlaylistByID removes the playlist and its songs in one transaction
// and returns the playlist as it was.
func (s *Store) DeletePlaylistByID(ctx context.Context, id string) (*model.Playlist, error) {
	if !validID(id) {
		return nil, nil
	}

	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}

	var rec playlistRecord
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Songs", songsInOrder).First(&rec, "id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Where("playlist_id = ?", rec.ID).Delete(&songRecord{}).Error; err != nil {
			return err
		}
		return tx.Delete(&playlistRecord{ID: rec.ID}).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translateError(err)
	}
	return toPlaylist(&rec), nil
}

func createSongs(tx *gorm.DB, songs []songRecord) error {
	if len(songs) == 0 {
		return nil
	}
	return tx.Create(&songs).Error
}

func songsInOrder(db *gorm.DB) *gorm.DB {
	return db.Order(clause.OrderByColumn{Column: clause.Column{Name: "order"}})
}

// oldestFirst sorts playlists by creation time. MySQL DATETIME(3) keeps
// milliseconds only, so id decides between rows created together.
func oldestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("created_at").Order("id")
}

func playlistIDsOnly(db *gorm.DB) *gorm.DB {
	return oldestFirst(db.Select("id", "owner_id"))
}

// validID reports whether id can be a primary key; anything else cannot
// match a row and resolves to nil without a query.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// translateError maps driver errors onto the store taxonomy.
func translateError(err error) error {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey), isUniqueConstraintError(err):
		return fmt.Errorf("%w: %v", store.ErrValidation, err)
	case errors.Is(err, driver.ErrBadConn), errors.Is(err, sql.ErrConnDone):
		return fmt.Errorf("%w: %v", store.ErrConnection, err)
	default:
		return err
	}
}

// isUniqueConstraintError matches unique violations from drivers that do
// not translate them.
func isUniqueConstraintError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "duplicate key value")
}
