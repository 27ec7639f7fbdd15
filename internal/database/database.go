package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"homecare_client/internal/config"
	"homecare_client/pkg/utils"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// Open connects to postgres and verifies the connection.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database %s@%s:%s: %w", cfg.Name, cfg.Host, cfg.Port, err)
	}

	utils.LogInfo("Successfully connected to the database", map[string]interface{}{
		"host": cfg.Host,
		"name": cfg.Name,
	})
	return db, nil
}

// ApplySchema reads and executes a SQL file. An empty path is a no-op.
func ApplySchema(ctx context.Context, db *sql.DB, schemaPath string) error {
	if schemaPath == "" {
		utils.LogDebug("No schema path provided, skipping schema application")
		return nil
	}
	content, err := os.ReadFile(schemaPath)
	if err != nil {
		return fmt.Errorf("could not read schema file %s: %w", schemaPath, err)
	}
	if _, err := db.ExecContext(ctx, string(content)); err != nil {
		return fmt.Errorf("could not execute schema script: %w", err)
	}
	utils.LogInfo("Database schema applied", map[string]interface{}{"path": schemaPath})
	return nil
}
