package configstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/five82/rsspanel/internal/config"
	"github.com/five82/rsspanel/internal/panel"
)

// SQLiteStore keeps panel configurations as JSON blobs keyed by panel id.
// Safe for concurrent use.
type SQLiteStore struct {
	db      *sql.DB
	panelID string
	mu      sync.RWMutex
}

// OpenSQLite opens (or creates) the database at path and binds it to panelID.
// The path ":memory:" opens a private in-memory database.
func OpenSQLite(path, panelID string) (*SQLiteStore, error) {
	connStr := path
	if path == ":memory:" {
		connStr = "file::memory:?cache=shared"
	} else {
		resolved, err := config.ExpandPath(path)
		if err != nil {
			return nil, fmt.Errorf("resolve store path: %w", err)
		}
		if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
		connStr = resolved
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if path != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	s := &SQLiteStore{db: db, panelID: panelID}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS panel_config (
		panel_id TEXT PRIMARY KEY,
		blob TEXT NOT NULL,
		updated_at DATETIME NOT NULL
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ReadConfig(ctx context.Context) (*panel.Configuration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var blob string
	err := s.db.QueryRowContext(ctx,
		`SELECT blob FROM panel_config WHERE panel_id = ?`, s.panelID,
	).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query panel config: %w", err)
	}

	var cfg panel.Configuration
	if err := json.Unmarshal([]byte(blob), &cfg); err != nil {
		return nil, fmt.Errorf("decode panel config: %w", err)
	}
	return &cfg, nil
}

func (s *SQLiteStore) StoreConfig(ctx context.Context, cfg panel.Configuration) error {
	blob, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode panel config: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO panel_config (panel_id, blob, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(panel_id) DO UPDATE SET blob = excluded.blob, updated_at = excluded.updated_at
	`, s.panelID, string(blob), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("upsert panel config: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
