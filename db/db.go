package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// DB holds the database connection
var DB *sql.DB

// connSetting maps a DSN keyword to its DB_* variable and fallback
type connSetting struct {
	key, env, fallback string
	required           bool
}

var connSettings = []connSetting{
	{key: "host", env: "DB_HOST", required: true},
	{key: "port", env: "DB_PORT", fallback: "5432"},
	{key: "user", env: "DB_USER", required: true},
	{key: "password", env: "DB_PASSWORD"},
	{key: "dbname", env: "DB_NAME", required: true},
	{key: "sslmode", env: "DB_SSLMODE", fallback: "disable"},
}

// ConnString returns connStr, or a keyword/value DSN built from the DB_* environment
// variables when it is empty
func ConnString(connStr string) (string, error) {
	if connStr != "" {
		return connStr, nil
	}

	parts := make([]string, 0, len(connSettings))
	for _, setting := range connSettings {
		value := os.Getenv(setting.env)
		if value == "" {
			if setting.required {
				return "", fmt.Errorf("database connection variables not set. Set DATABASE_URL or DB_HOST, DB_USER, DB_NAME")
			}
			value = setting.fallback
		}
		parts = append(parts, setting.key+"="+value)
	}
	return strings.Join(parts, " "), nil
}

// InitDB opens and pings the PostgreSQL connection used by the category catalogue
func InitDB(ctx context.Context, connStr string) error {
	connStr, err := ConnString(connStr)
	if err != nil {
		return err
	}

	DB, err = sql.Open("pgx", connStr)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}
	DB.SetMaxOpenConns(5)
	DB.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := DB.PingContext(pingCtx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	slog.Info("✓ Database connection established successfully")
	return nil
}

// CloseDB closes the database connection
func CloseDB() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}
