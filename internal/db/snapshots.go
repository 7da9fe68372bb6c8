package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/kpivision/dashboard-engine/internal/dashboard"
)

// Connect opens a pooled connection and verifies it with a ping.
func Connect(ctx context.Context, dsn string, maxConns int, maxLifetime time.Duration) (*sql.DB, error) {
	conn, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	conn.SetMaxOpenConns(maxConns)
	conn.SetMaxIdleConns(maxConns / 2)
	conn.SetConnMaxLifetime(maxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return conn, nil
}

// EnsureSchema creates the snapshot table if it does not exist.
func EnsureSchema(ctx context.Context, conn *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS dashboard_snapshots (
			namespace TEXT PRIMARY KEY,
			data JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`
	if _, err := conn.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create dashboard_snapshots table: %w", err)
	}
	return nil
}

// SnapshotStore persists dashboard snapshots as one JSONB row per namespace.
type SnapshotStore struct {
	conn *sql.DB
}

func NewSnapshotStore(conn *sql.DB) *SnapshotStore {
	return &SnapshotStore{conn: conn}
}

// Load reads the snapshot for a namespace. The second return value reports
// whether a row existed.
func (s *SnapshotStore) Load(ctx context.Context, namespace string) (*dashboard.Snapshot, bool, error) {
	var data []byte
	query := `SELECT data FROM dashboard_snapshots WHERE namespace = $1`
	err := s.conn.QueryRowContext(ctx, query, namespace).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load snapshot: %w", err)
	}

	var snap dashboard.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, false, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &snap, true, nil
}

// Save upserts the snapshot row for a namespace.
func (s *SnapshotStore) Save(ctx context.Context, namespace string, snap *dashboard.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	query := `
		INSERT INTO dashboard_snapshots (namespace, data, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (namespace) DO UPDATE SET data = EXCLUDED.data, updated_at = now()
	`
	if _, err := s.conn.ExecContext(ctx, query, namespace, data); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}
