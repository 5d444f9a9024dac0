package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/forgo/playlister/internal/middleware"
	"github.com/forgo/playlister/internal/model"
	"github.com/forgo/playlister/internal/service"
)

// PlaylistHandler serves the /store endpoints consumed by the browser
// client. Response bodies match what that client already parses, so they
// are plain maps rather than Problem Details.
type PlaylistHandler struct {
	playlists *service.PlaylistService
	logger    *slog.Logger
}

// NewPlaylistHandler creates a new playlist handler
func NewPlaylistHandler(playlists *service.PlaylistService, logger *slog.Logger) *PlaylistHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PlaylistHandler{playlists: playlists, logger: logger}
}

type legacyBody map[string]interface{}

var (
	unauthorizedBody = legacyBody{"errorMessage": "UNAUTHORIZED"}
	notOwnerBody     = legacyBody{"success": false, "description": "authentication error"}
)

// updatePlaylistRequest is the body of PUT /playlist/{id}
type updatePlaylistRequest struct {
	Playlist *model.PlaylistInput `json:"playlist"`
}

// Create handles POST /store/playlist/
func (h *PlaylistHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteJSON(w, http.StatusBadRequest, unauthorizedBody)
		return
	}

	var in model.PlaylistInput
	if err := DecodeJSON(r, &in); err != nil {
		WriteJSON(w, http.StatusBadRequest, legacyBody{"success": false, "error": "You must provide a Playlist"})
		return
	}

	playlist, err := h.playlists.Create(r.Context(), userID, &in)
	if err != nil {
		h.logFailure(r, "create playlist", err)
		WriteJSON(w, http.StatusBadRequest, legacyBody{"errorMessage": "Playlist Not Created!"})
		return
	}

	WriteJSON(w, http.StatusCreated, legacyBody{"playlist": playlist})
}

// Get handles GET /store/playlist/{id}
func (h *PlaylistHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteJSON(w, http.StatusBadRequest, unauthorizedBody)
		return
	}

	playlist, err := h.playlists.Get(r.Context(), userID, r.PathValue("id"))
	switch {
	case err == nil:
		WriteJSON(w, http.StatusOK, legacyBody{"success": true, "playlist": playlist})
	case errors.Is(err, service.ErrPlaylistNotFound):
		WriteJSON(w, http.StatusBadRequest, legacyBody{"success": false, "error": "Playlist not found!"})
	case errors.Is(err, service.ErrNotOwner):
		WriteJSON(w, http.StatusBadRequest, notOwnerBody)
	default:
		h.logFailure(r, "get playlist", err)
		WriteJSON(w, http.StatusBadRequest, legacyBody{"success": false, "error": err.Error()})
	}
}

// Update handles PUT /store/playlist/{id}
func (h *PlaylistHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteJSON(w, http.StatusBadRequest, unauthorizedBody)
		return
	}

	var req updatePlaylistRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteJSON(w, http.StatusBadRequest, legacyBody{"success": false, "error": "You must provide a body to update"})
		return
	}
	if req.Playlist == nil {
		WriteJSON(w, http.StatusBadRequest, legacyBody{"success": false, "error": "You must provide playlist data to update"})
		return
	}

	updated, err := h.playlists.Update(r.Context(), userID, r.PathValue("id"), req.Playlist)
	switch {
	case err == nil:
		WriteJSON(w, http.StatusOK, legacyBody{"success": true, "id": updated.ID, "message": "Playlist updated!"})
	case errors.Is(err, service.ErrPlaylistNotFound):
		WriteJSON(w, http.StatusNotFound, legacyBody{"message": "Playlist not found!"})
	case errors.Is(err, service.ErrNotOwner):
		WriteJSON(w, http.StatusBadRequest, notOwnerBody)
	default:
		h.logFailure(r, "update playlist", err)
		WriteJSON(w, http.StatusNotFound, legacyBody{"error": err.Error(), "message": "Playlist not updated!"})
	}
}

// Delete handles DELETE /store/playlist/{id}
func (h *PlaylistHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteJSON(w, http.StatusBadRequest, unauthorizedBody)
		return
	}

	err := h.playlists.Delete(r.Context(), userID, r.PathValue("id"))
	switch {
	case err == nil:
		WriteJSON(w, http.StatusOK, legacyBody{})
	case errors.Is(err, service.ErrPlaylistNotFound):
		WriteJSON(w, http.StatusNotFound, legacyBody{"errorMessage": "Playlist not found!"})
	case errors.Is(err, service.ErrNotOwner):
		WriteJSON(w, http.StatusBadRequest, legacyBody{"errorMessage": "authentication error"})
	default:
		h.logFailure(r, "delete playlist", err)
		WriteJSON(w, http.StatusBadRequest, legacyBody{"errorMessage": "Playlist not deleted!"})
	}
}

// Pairs handles GET /store/playlistpairs/
func (h *PlaylistHandler) Pairs(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteJSON(w, http.StatusBadRequest, unauthorizedBody)
		return
	}

	pairs, err := h.playlists.Pairs(r.Context(), userID)
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		WriteJSON(w, http.StatusNotFound, legacyBody{"success": false, "error": "User not found"})
	case err != nil:
		h.logFailure(r, "list playlist pairs", err)
		WriteJSON(w, http.StatusBadRequest, legacyBody{"success": false, "error": err.Error()})
	case len(pairs) == 0:
		WriteJSON(w, http.StatusNotFound, legacyBody{"success": false, "error": "Playlists not found"})
	default:
		WriteJSON(w, http.StatusOK, legacyBody{"success": true, "idNamePairs": pairs})
	}
}

// List handles GET /store/playlists/
func (h *PlaylistHandler) List(w http.ResponseWriter, r *http.Request) {
	if middleware.GetUserID(r.Context()) == "" {
		WriteJSON(w, http.StatusBadRequest, unauthorizedBody)
		return
	}

	playlists, err := h.playlists.All(r.Context())
	switch {
	case err != nil:
		h.logFailure(r, "list playlists", err)
		WriteJSON(w, http.StatusBadRequest, legacyBody{"success": false, "error": err.Error()})
	case len(playlists) == 0:
		WriteJSON(w, http.StatusNotFound, legacyBody{"success": false, "error": "Playlists not found"})
	default:
		WriteJSON(w, http.StatusOK, legacyBody{"success": true, "data": playlists})
	}
}

func (h *PlaylistHandler) logFailure(r *http.Request, op string, err error) {
	h.logger.Error(op+" failed",
		slog.String("error", err.Error()),
		slog.String("request_id", middleware.GetRequestID(r.Context())),
		slog.String("user_id", middleware.GetUserID(r.Context())),
	)
}
