// Package sqlite stores album records in a single SQLite file using the
// pure-Go modernc.org/sqlite driver, so no cgo or server is needed.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kozaktomas/face-match/internal/config"
	"github.com/kozaktomas/face-match/internal/database"
	_ "modernc.org/sqlite"
)

// DefaultFileName is used under the photos directory when no path is configured.
const DefaultFileName = "albums.db"

const schema = `
CREATE TABLE IF NOT EXISTS album_records (
    album_id   TEXT NOT NULL,
    position   INTEGER NOT NULL,
    file       TEXT NOT NULL,
    embedding  TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (album_id, position)
);
CREATE INDEX IF NOT EXISTS idx_album_records_file ON album_records (album_id, file);`

// Pool wraps the SQLite handle used by the repository.
type Pool struct {
	db *sql.DB
}

// NewPool opens (creating if needed) the database at path.
func NewPool(path string) (*Pool, error) {
	if path == "" {
		return nil, errors.New("SQLite path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create directory for %s: %w", path, err)
		}
	}

	// SQLite has a single writer.
	opts := database.DefaultPoolOptions
	opts.MaxOpenConns = 1
	opts.MaxIdleConns = 1

	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := database.OpenSQL("sqlite", dsn, opts)
	if err != nil {
		return nil, err
	}
	return &Pool{db: db}, nil
}

// Migrate creates the records table if it does not exist.
func (p *Pool) Migrate(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create album_records table: %w", err)
	}
	return nil
}

func (p *Pool) Close() error {
	return database.CloseSQL(p.db)
}

// Path returns the database file used for cfg.
func Path(cfg *config.Config) string {
	if cfg.SQLite.Path != "" {
		return cfg.SQLite.Path
	}
	return filepath.Join(cfg.Storage.PhotosDir, DefaultFileName)
}

// Open opens the SQLite file, creates the schema and returns the record backend.
// It matches database.Factory so it can be registered as the "sqlite" backend.
func Open(cfg *config.Config) (*database.Backend, error) {
	if cfg == nil {
		return nil, errors.New("configuration is required for the sqlite backend")
	}

	pool, err := NewPool(Path(cfg))
	if err != nil {
		return nil, err
	}
	if err := pool.Migrate(context.Background()); err != nil {
		_ = pool.Close()
		return nil, err
	}

	return &database.Backend{
		Records: NewRecordRepository(pool),
		Close:   pool.Close,
	}, nil
}
