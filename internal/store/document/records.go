package document

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/forgo/playlister/internal/model"
)

const (
	userTable     = "user"
	playlistTable = "playlist"
)

// recordID scopes an external identifier to table. Both the bare key
// ("abc") and the full record form ("playlist:abc", "playlist:⟨abc⟩") are
// accepted; a record of another table does not resolve.
func recordID(table, id string) (models.RecordID, bool) {
	id = strings.TrimSpace(id)
	if tb, key, found := strings.Cut(id, ":"); found {
		if tb != table {
			return models.RecordID{}, false
		}
		id = key
	}
	id = strings.TrimSuffix(strings.TrimPrefix(id, "⟨"), "⟩")
	id = strings.Trim(id, "`")
	if id == "" {
		return models.RecordID{}, false
	}
	return models.RecordID{Table: table, ID: id}, true
}

// recordKey returns the key part of a record id as it appears in results.
func recordKey(id interface{}) string {
	switch v := id.(type) {
	case models.RecordID:
		return fmt.Sprint(v.ID)
	case *models.RecordID:
		if v != nil {
			return fmt.Sprint(v.ID)
		}
	case string:
		if _, key, found := strings.Cut(v, ":"); found {
			return strings.TrimSuffix(strings.TrimPrefix(key, "⟨"), "⟩")
		}
		return v
	case map[string]interface{}:
		// {"tb": "table", "id": "xxx"} format
		if key, ok := v["id"]; ok {
			return fmt.Sprint(key)
		}
	}
	return ""
}

func parseUser(result interface{}) (*model.User, error) {
	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected user result format")
	}

	var playlists []string
	if refs, ok := data["playlists"].([]interface{}); ok {
		playlists = make([]string, 0, len(refs))
		for _, ref := range refs {
			if key := recordKey(ref); key != "" {
				playlists = append(playlists, key)
			}
		}
	}

	return model.NewUserRecord(
		recordKey(data["id"]),
		getString(data, "firstName"),
		getString(data, "lastName"),
		getString(data, "email"),
		getString(data, "passwordHash"),
		playlists,
	), nil
}

func parsePlaylist(result interface{}) (*model.Playlist, error) {
	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected playlist result format")
	}

	var songs []model.Song
	if items, ok := data["songs"].([]interface{}); ok {
		songs = make([]model.Song, 0, len(items))
		for _, item := range items {
			song, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			songs = append(songs, model.Song{
				Title:     getString(song, "title"),
				Artist:    getString(song, "artist"),
				Year:      getInt(song, "year"),
				YouTubeID: getString(song, "youTubeId"),
			})
		}
	}

	return model.NewPlaylist(
		recordKey(data["id"]),
		getString(data, "name"),
		getString(data, "ownerEmail"),
		songs,
		parseTime(data["createdAt"]),
		parseTime(data["updatedAt"]),
	), nil
}

func parsePlaylists(rows []interface{}) ([]model.Playlist, error) {
	playlists := make([]model.Playlist, 0, len(rows))
	for _, row := range rows {
		p, err := parsePlaylist(row)
		if err != nil {
			return nil, err
		}
		playlists = append(playlists, *p)
	}
	return playlists, nil
}

// songDocuments converts songs to the embedded document shape.
func songDocuments(songs []model.Song) []map[string]interface{} {
	docs := make([]map[string]interface{}, 0, len(songs))
	for _, s := range songs {
		docs = append(docs, map[string]interface{}{
			"title":     s.Title,
			"artist":    s.Artist,
			"year":      s.Year,
			"youTubeId": s.YouTubeID,
		})
	}
	return docs
}

func getString(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// getInt accepts every numeric type the CBOR decoder may produce.
func getInt(m map[string]interface{}, key string) int {
	switch v := m[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case uint64:
		return int(v)
	case float64:
		return int(v)
	case float32:
		return int(v)
	}
	return 0
}

func parseTime(v interface{}) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(time.RFC3339Nano, t); err == nil {
			return parsed
		}
	case models.CustomDateTime:
		return t.Time
	case *models.CustomDateTime:
		if t != nil {
			return t.Time
		}
	}
	return time.Time{}
}
