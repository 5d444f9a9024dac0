package handler

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/forgo/playlister/internal/middleware"
	"github.com/forgo/playlister/internal/model"
)

// RouterConfig holds everything the HTTP surface depends on
type RouterConfig struct {
	Playlists      *PlaylistHandler
	Auth           *AuthHandler
	Health         *HealthHandler
	Tokens         middleware.TokenValidator
	AllowedOrigins []string
	MetricsEnabled bool
	Logger         *slog.Logger
}

// NewRouter registers all routes and wraps them in the middleware chain
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("GET /health", cfg.Health.Health)

	if cfg.MetricsEnabled {
		mux.Handle("GET /metrics", promhttp.Handler())
	}

	// Account endpoints
	mux.HandleFunc("POST /auth/register", cfg.Auth.Register)
	mux.HandleFunc("POST /auth/login", cfg.Auth.Login)
	mux.HandleFunc("GET /auth/logout", cfg.Auth.Logout)
	mux.HandleFunc("GET /auth/loggedIn", cfg.Auth.LoggedIn)

	// Playlist store endpoints
	mux.HandleFunc("POST /store/playlist/{$}", cfg.Playlists.Create)
	mux.HandleFunc("GET /store/playlist/{id}", cfg.Playlists.Get)
	mux.HandleFunc("PUT /store/playlist/{id}", cfg.Playlists.Update)
	mux.HandleFunc("DELETE /store/playlist/{id}", cfg.Playlists.Delete)
	mux.HandleFunc("GET /store/playlistpairs/{$}", cfg.Playlists.Pairs)
	mux.HandleFunc("GET /store/playlists/{$}", cfg.Playlists.List)

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, model.NewNotFoundError("route"))
	})

	middlewares := []middleware.Middleware{
		middleware.Recovery,
		middleware.RequestID,
		middleware.Logger(cfg.Logger),
	}
	if cfg.MetricsEnabled {
		middlewares = append(middlewares, middleware.Metrics(middleware.DefaultMetricsConfig()))
	}
	middlewares = append(middlewares,
		middleware.CORS(cfg.AllowedOrigins),
		middleware.Session(cfg.Tokens),
	)

	return middleware.Chain(mux, middlewares...)
}
