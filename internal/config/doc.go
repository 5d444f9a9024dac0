// Package config manages application configuration for the playlist API.
//
// Configuration is read from environment variables into tagged structs with
// caarlos0/env and checked with Validate, which reports every problem at once.
//
//	cfg, err := config.Load()
//	if err != nil { ... }
//	if err := cfg.Validate(); err != nil { ... }
//
// # Configuration Groups
//
//   - ServerConfig: HTTP server settings (port, timeouts, CORS, cookies)
//   - StoreConfig: DB_VENDOR, the backend chosen at startup
//   - SurrealConfig: document store connection
//   - SQLConfig: relational dialect and connection
//   - JWTConfig: session token signing
//
// # Storage Selection
//
// DB_VENDOR=postgres or DB_VENDOR=postgresql selects the relational store;
// any other value, including none, selects the document store. Only the
// selected backend's settings are validated.
package config
