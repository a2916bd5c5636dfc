// Package mariadb stores album records in MariaDB/MySQL.
// Embeddings are kept as JSON arrays since MariaDB has no native vector type
// in the versions we support.
package mariadb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/kozaktomas/face-match/internal/config"
	"github.com/kozaktomas/face-match/internal/database"
)

const schema = `
CREATE TABLE IF NOT EXISTS album_records (
    album_id   VARCHAR(255) NOT NULL,
    position   INT NOT NULL,
    file       VARCHAR(255) NOT NULL,
    embedding  LONGTEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (album_id, position),
    KEY idx_album_records_file (album_id, file)
) DEFAULT CHARSET=utf8mb4`

// Pool wraps the MariaDB handle used by the repository.
type Pool struct {
	db *sql.DB
}

// NewPool connects to dsn. Malformed DSNs are rejected before dialing.
func NewPool(dsn string) (*Pool, error) {
	if dsn == "" {
		return nil, errors.New("MariaDB DSN is required")
	}

	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse MariaDB DSN: %w", err)
	}

	db, err := database.OpenSQL("mysql", cfg.FormatDSN(), database.DefaultPoolOptions)
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

// Open connects to MariaDB, creates the schema and returns the record backend.
// It matches database.Factory so it can be registered as the "mariadb" backend.
func Open(cfg *config.Config) (*database.Backend, error) {
	if cfg == nil || cfg.MariaDB.DSN == "" {
		return nil, errors.New("MARIADB_DSN environment variable is required for the mariadb backend")
	}

	pool, err := NewPool(cfg.MariaDB.DSN)
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
