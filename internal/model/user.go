package model

import (
	"fmt"
	"strings"
)

// User is the canonical, vendor-neutral user record.
type User struct {
	ID           string   `json:"id"`
	LegacyID     string   `json:"_id"`
	FirstName    string   `json:"firstName"`
	LastName     string   `json:"lastName"`
	Email        string   `json:"email"`
	PasswordHash string   `json:"-"` // Never expose password hash
	Playlists    []string `json:"playlists"`
}

// NewUser carries the fields required to register a user
type NewUser struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
}

// Validate reports the required fields that are missing.
func (u NewUser) Validate() error {
	var missing []string
	if strings.TrimSpace(u.FirstName) == "" {
		missing = append(missing, "firstName")
	}
	if strings.TrimSpace(u.LastName) == "" {
		missing = append(missing, "lastName")
	}
	if strings.TrimSpace(u.Email) == "" {
		missing = append(missing, "email")
	}
	if u.PasswordHash == "" {
		missing = append(missing, "passwordHash")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

// PublicUser is the subset of a user returned to clients after login.
type PublicUser struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// ToPublic converts a User to its public representation
func (u *User) ToPublic() PublicUser {
	return PublicUser{
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
	}
}

// NewUserRecord builds a canonical User, normalizing an absent playlist list.
func NewUserRecord(id, firstName, lastName, email, passwordHash string, playlists []string) *User {
	if playlists == nil {
		playlists = []string{}
	}
	return &User{
		ID:           id,
		LegacyID:     id,
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: passwordHash,
		Playlists:    playlists,
	}
}
