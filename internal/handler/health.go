package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/forgo/playlister/internal/model"
)

// Pinger reports whether the storage backend is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves GET /health
type HealthHandler struct {
	store  Pinger
	vendor string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(store Pinger, vendor string) *HealthHandler {
	return &HealthHandler{store: store, vendor: vendor}
}

type healthResponse struct {
	Status string `json:"status"`
	Vendor string `json:"vendor"`
}

// Health pings the store with a short deadline
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		slog.Warn("health check failed", slog.String("error", err.Error()))
		WriteError(w, model.NewUnavailableError("storage backend unavailable"))
		return
	}

	WriteJSON(w, http.StatusOK, healthResponse{Status: "ok", Vendor: h.vendor})
}
