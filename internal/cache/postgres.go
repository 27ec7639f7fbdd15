package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
)

const snapshotTableDDL = `CREATE TABLE IF NOT EXISTS booking_snapshots (
	key        TEXT PRIMARY KEY,
	value      JSONB NOT NULL,
	expires_at TIMESTAMPTZ
)`

// PostgresStore is a Store backed by the booking_snapshots table.
type PostgresStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewPostgresStore creates a PostgresStore on an open connection pool.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db, now: time.Now}
}

// EnsureSchema creates the snapshot table when it does not exist yet.
func (p *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, snapshotTableDDL); err != nil {
		return fmt.Errorf("creating booking_snapshots: %w", err)
	}
	return nil
}

func (p *PostgresStore) Get(ctx context.Context, key string) (string, error) {
	query := `SELECT value FROM booking_snapshots
	          WHERE key = $1 AND (expires_at IS NULL OR expires_at > $2)`

	var value string
	err := p.db.QueryRowContext(ctx, query, key, p.now()).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrCacheMiss
		}
		return "", fmt.Errorf("reading snapshot %s: %w", key, err)
	}
	return value, nil
}

func (p *PostgresStore) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	query := `INSERT INTO booking_snapshots (key, value, expires_at)
	          VALUES ($1, $2, $3)
	          ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at`

	var expires sql.NullTime
	if ttl > 0 {
		expires = sql.NullTime{Time: p.now().Add(ttl), Valid: true}
	}
	if _, err := p.db.ExecContext(ctx, query, key, value, expires); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "invalid_text_representation" {
			return fmt.Errorf("snapshot %s is not valid JSON: %s", key, pqErr.Message)
		}
		return fmt.Errorf("writing snapshot %s: %w", key, err)
	}
	return nil
}

func (p *PostgresStore) Delete(ctx context.Context, key string) error {
	if _, err := p.db.ExecContext(ctx, `DELETE FROM booking_snapshots WHERE key = $1`, key); err != nil {
		return fmt.Errorf("deleting snapshot %s: %w", key, err)
	}
	return nil
}
