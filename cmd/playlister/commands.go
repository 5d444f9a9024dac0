package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/forgo/playlister/internal/handler"
	"github.com/forgo/playlister/internal/seed"
	"github.com/forgo/playlister/internal/service"
	"github.com/forgo/playlister/pkg/jwt"
)

const shutdownTimeout = 30 * time.Second

func serveCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}
}

func seedCommand(a *app) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load users and playlists from a JSON file",
		Long: `Load users and playlists from a JSON file into the configured store.

Users whose email already exists are left untouched. Playlists whose owner
is unknown, or whose owner already has one with the same name, are skipped,
so seeding the same file twice leaves the data unchanged.

Example:
  playlister seed --file internal/seed/testdata/example-db-data.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := seed.LoadFile(file)
			if err != nil {
				return err
			}

			s, _, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			_, err = seed.NewSeeder(s, service.DefaultBcryptCost, a.logger).Run(cmd.Context(), data)
			return err
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "path to the seed JSON file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func migrateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the schema of the configured store and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, v, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			a.logger.Info("schema up to date", slog.String("vendor", string(v)))
			return s.Close()
		},
	}
}

// serve runs the HTTP server until SIGINT or SIGTERM
func (a *app) serve(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s, v, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := s.Close(); err != nil {
			a.logger.Warn("close store", slog.String("error", err.Error()))
		}
	}()

	tokens, err := jwt.NewService(jwt.Config{
		Secret:         a.cfg.JWT.Secret,
		Issuer:         a.cfg.JWT.Issuer,
		ExpirationMins: a.cfg.JWT.ExpirationMins,
	})
	if err != nil {
		return fmt.Errorf("initialize JWT service: %w", err)
	}

	playlistService := service.NewPlaylistService(service.PlaylistServiceConfig{
		Store:  s,
		Logger: a.logger,
	})
	authService := service.NewAuthService(service.AuthServiceConfig{
		Store:  s,
		Tokens: tokens,
		Logger: a.logger,
	})

	router := handler.NewRouter(handler.RouterConfig{
		Playlists: handler.NewPlaylistHandler(playlistService, a.logger),
		Auth: handler.NewAuthHandler(handler.AuthHandlerConfig{
			AuthService:  authService,
			CookieSecure: a.cfg.Server.CookieSecure,
			TokenTTL:     tokens.GetExpiration(),
			Logger:       a.logger,
		}),
		Health:         handler.NewHealthHandler(s, string(v)),
		Tokens:         tokens,
		AllowedOrigins: a.cfg.Server.AllowedOrigins,
		MetricsEnabled: a.cfg.Metrics,
		Logger:         a.logger,
	})

	server := &http.Server{
		Addr:         ":" + a.cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server starting",
			slog.String("port", a.cfg.Server.Port),
			slog.String("env", a.cfg.Server.Env),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("server forced to shutdown", slog.String("error", err.Error()))
		return err
	}

	a.logger.Info("server exited")
	return nil
}
