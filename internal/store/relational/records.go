package relational

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/forgo/playlister/internal/model"
)

// userRecord is the users table.
type userRecord struct {
	ID           string           `gorm:"type:varchar(36);primaryKey"`
	FirstName    string           `gorm:"not null"`
	LastName     string           `gorm:"not null"`
	Email        string           `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string           `gorm:"not null"`
	Playlists    []playlistRecord `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (userRecord) TableName() string { return "users" }

func (r *userRecord) BeforeCreate(*gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// playlistRecord is the playlists table. OwnerEmail is denormalized from
// the owning user at creation time.
type playlistRecord struct {
	ID         string       `gorm:"type:varchar(36);primaryKey"`
	Name       string       `gorm:"not null"`
	OwnerEmail string       `gorm:"type:varchar(255);index;not null"`
	OwnerID    string       `gorm:"type:varchar(36);index;not null"`
	Songs      []songRecord `gorm:"foreignKey:PlaylistID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (playlistRecord) TableName() string { return "playlists" }

func (r *playlistRecord) BeforeCreate(*gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// songRecord is the songs table. Order is the zero-based position within
// the playlist and is the only source of sequence on read.
type songRecord struct {
	ID         string `gorm:"type:varchar(36);primaryKey"`
	PlaylistID string `gorm:"type:varchar(36);index;not null"`
	Order      int    `gorm:"column:order;not null"`
	Title      string
	Artist     string
	Year       int
	YouTubeID  string `gorm:"column:you_tube_id"`
}

func (songRecord) TableName() string { return "songs" }

func (r *songRecord) BeforeCreate(*gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

func songRecords(playlistID string, songs []model.Song) []songRecord {
	records := make([]songRecord, 0, len(songs))
	for i, s := range songs {
		records = append(records, songRecord{
			PlaylistID: playlistID,
			Order:      i,
			Title:      s.Title,
			Artist:     s.Artist,
			Year:       s.Year,
			YouTubeID:  s.YouTubeID,
		})
	}
	return records
}

func toUser(r *userRecord) *model.User {
	ids := make([]string, 0, len(r.Playlists))
	for _, p := range r.Playlists {
		ids = append(ids, p.ID)
	}
	return model.NewUserRecord(r.ID, r.FirstName, r.LastName, r.Email, r.PasswordHash, ids)
}

// toPlaylist sorts songs by their order column and strips storage fields.
func toPlaylist(r *playlistRecord) *model.Playlist {
	records := append([]songRecord(nil), r.Songs...)
	sort.SliceStable(records, func(i, j int) bool { return records[i].Order < records[j].Order })

	songs := make([]model.Song, 0, len(records))
	for _, s := range records {
		songs = append(songs, model.Song{
			Title:     s.Title,
			Artist:    s.Artist,
			Year:      s.Year,
			YouTubeID: s.YouTubeID,
		})
	}
	return model.NewPlaylist(r.ID, r.Name, r.OwnerEmail, songs, r.CreatedAt, r.UpdatedAt)
}

func toPlaylists(records []playlistRecord) []model.Playlist {
	playlists := make([]model.Playlist, 0, len(records))
	for i := range records {
		playlists = append(playlists, *toPlaylist(&records[i]))
	}
	return playlists
}
