// Package testdb provides isolated SurrealDB environments for tests.
//
// Each TestDB gets a unique namespace that is removed when the test ends.
// When no SurrealDB answers at TEST_SURREAL_HOST:TEST_SURREAL_PORT the
// calling test is skipped, so the suite runs without external services.
//
// Usage:
//
//	func TestSomething(t *testing.T) {
//	    tdb := testdb.New(t)
//	    db := database.NewSurrealDB(tdb.Config)
//	}
package testdb

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/forgo/playlister/internal/database"
)

// TestDB describes an isolated namespace on a live SurrealDB.
type TestDB struct {
	Config database.Config
	admin  database.Database
}

var (
	// counterMu protects the namespace counter
	counterMu sync.Mutex
	counter   int64
)

// getTestConfig returns database config from environment or defaults
func getTestConfig() database.Config {
	return database.Config{
		Host:     getEnv("TEST_SURREAL_HOST", "localhost"),
		Port:     getEnv("TEST_SURREAL_PORT", "8000"),
		User:     getEnv("TEST_SURREAL_USER", "root"),
		Password: getEnv("TEST_SURREAL_PASSWORD", "root"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// uniqueNamespace generates a unique namespace for test isolation
func uniqueNamespace() string {
	counterMu.Lock()
	counter++
	n := counter
	counterMu.Unlock()
	return fmt.Sprintf("test_%d_%d", time.Now().UnixNano(), n)
}

// New reserves a fresh namespace, skipping the test when SurrealDB is
// unreachable. The namespace is removed during test cleanup.
func New(t *testing.T) *TestDB {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cfg := getTestConfig()
	cfg.Namespace = uniqueNamespace()
	cfg.Database = "test"

	admin := database.NewSurrealDB(cfg)
	if err := admin.Connect(ctx); err != nil {
		t.Skipf("testdb: SurrealDB not reachable at %s:%s: %v", cfg.Host, cfg.Port, err)
	}

	tdb := &TestDB{Config: cfg, admin: admin}
	t.Cleanup(tdb.close)
	return tdb
}

// close removes the namespace and disconnects.
func (tdb *TestDB) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	query := fmt.Sprintf("REMOVE NAMESPACE %s", tdb.Config.Namespace)
	_ = tdb.admin.Execute(ctx, query, nil) // Ignore errors on cleanup
	_ = tdb.admin.Close()
}
