package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/forgo/playlister/internal/config"
	"github.com/forgo/playlister/internal/database"
	"github.com/forgo/playlister/internal/store"
	"github.com/forgo/playlister/internal/store/relational"
	"github.com/forgo/playlister/internal/store/vendor"
)

// app is the state shared by every subcommand once configuration is loaded
type app struct {
	cfg    *config.Config
	logger *slog.Logger
}

// rootCommand creates the playlister CLI. Running it without a subcommand
// starts the HTTP server.
func rootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "playlister",
		Short:         "Playlist REST API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}

	rootCmd.AddCommand(
		serveCommand(a),
		seedCommand(a),
		migrateCommand(a),
	)

	return rootCmd
}

// setup loads configuration and installs the JSON logger
func (a *app) setup() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	a.logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(a.logger)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.cfg = cfg
	return nil
}

// openStore connects the storage adapter selected by DB_VENDOR
func (a *app) openStore(ctx context.Context) (store.Store, vendor.Vendor, error) {
	opts := vendor.Options{
		Vendor: a.cfg.Store.Vendor,
		Surreal: database.Config{
			Host:      a.cfg.Surreal.Host,
			Port:      a.cfg.Surreal.Port,
			User:      a.cfg.Surreal.User,
			Password:  a.cfg.Surreal.Password,
			Namespace: a.cfg.Surreal.Namespace,
			Database:  a.cfg.Surreal.Database,
		},
		SQL: relational.Config{
			Dialect:            a.cfg.SQL.Dialect,
			DSN:                a.cfg.SQL.DSN,
			Host:               a.cfg.SQL.Host,
			Port:               a.cfg.SQL.Port,
			User:               a.cfg.SQL.User,
			Password:           a.cfg.SQL.Password,
			Database:           a.cfg.SQL.Database,
			SlowQueryThreshold: a.cfg.SQL.SlowQueryThreshold,
		},
		Logger:     a.logger,
		Instrument: a.cfg.Metrics,
	}

	s, v, err := vendor.Open(ctx, opts)
	if err != nil {
		return nil, "", err
	}

	a.logger.Info("storage backend ready", slog.String("vendor", string(v)))
	return s, v, nil
}
