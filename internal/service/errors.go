package service

import "errors"

// Centralized service layer errors.
// Handlers map these onto the response bodies the browser client expects.

// ===== Authentication Errors =====
var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("wrong email or password provided")
	ErrEmailAlreadyExists = errors.New("an account with this email address already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrMissingFields      = errors.New("please enter all required fields")
	ErrPasswordTooShort   = errors.New("please enter a password of at least 8 characters")
	ErrPasswordTooLong    = errors.New("password must be at most 72 characters")
	ErrPasswordMismatch   = errors.New("please enter the same password twice")
)

// ===== Playlist Errors =====
var (
	ErrPlaylistNotFound = errors.New("playlist not found")
	ErrPlaylistRequired = errors.New("you must provide a playlist")
	ErrNotOwner         = errors.New("authentication error")
)
