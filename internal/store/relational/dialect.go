package relational

import (
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Supported dialects
const (
	DialectPostgres = "postgres"
	DialectMySQL    = "mysql"
	DialectSQLite   = "sqlite"
)

// Config holds relational connection settings
type Config struct {
	Dialect string
	// DSN overrides the connection string built from the fields below.
	DSN      string
	Host     string
	Port     string
	User     string
	Password string
	Database string

	SlowQueryThreshold time.Duration
}

func (c Config) dialect() string {
	if c.Dialect == "" {
		return DialectPostgres
	}
	return c.Dialect
}

// dialector returns the GORM dialector for the configured dialect.
func (c Config) dialector() (gorm.Dialector, error) {
	switch c.dialect() {
	case DialectPostgres:
		dsn := c.DSN
		if dsn == "" {
			dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
				c.Host, c.Port, c.User, c.Password, c.Database)
		}
		return postgres.Open(dsn), nil
	case DialectMySQL:
		dsn := c.DSN
		if dsn == "" {
			dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
				c.User, c.Password, c.Host, c.Port, c.Database)
		}
		return mysql.Open(dsn), nil
	case DialectSQLite:
		if c.DSN == "" {
			return nil, fmt.Errorf("sqlite requires a DSN")
		}
		return sqlite.Open(c.DSN), nil
	default:
		return nil, fmt.Errorf("unsupported dialect %q", c.Dialect)
	}
}
