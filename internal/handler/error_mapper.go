package handler

import (
	"errors"

	"github.com/forgo/playlister/internal/model"
	"github.com/forgo/playlister/internal/service"
	"github.com/forgo/playlister/internal/store"
)

// MapServiceError converts a service or store error to a ProblemDetails
// response. Playlist endpoints keep their legacy bodies and only use this
// for the account endpoints and health checks.
func MapServiceError(err error) *model.ProblemDetails {
	if err == nil {
		return nil
	}

	switch {
	// ===== Authentication Errors → 401 =====
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrUnauthorized):
		return model.NewUnauthorizedError(err.Error())

	// ===== Not Found Errors → 404 =====
	case errors.Is(err, service.ErrUserNotFound):
		return model.NewNotFoundError("user")
	case errors.Is(err, service.ErrPlaylistNotFound):
		return model.NewNotFoundError("playlist")

	// ===== Conflict Errors → 409 =====
	case errors.Is(err, service.ErrEmailAlreadyExists):
		return model.NewConflictError(err.Error())

	// ===== Validation Errors → 400 =====
	case errors.Is(err, service.ErrMissingFields),
		errors.Is(err, service.ErrPasswordTooShort),
		errors.Is(err, service.ErrPasswordTooLong),
		errors.Is(err, service.ErrPasswordMismatch),
		errors.Is(err, store.ErrValidation):
		return model.NewBadRequestError(err.Error())

	// ===== Infrastructure Errors =====
	case errors.Is(err, store.ErrConnection):
		return model.NewUnavailableError("storage backend unavailable")
	}

	return model.NewInternalError("")
}
