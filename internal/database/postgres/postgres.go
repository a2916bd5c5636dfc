// Package postgres stores album records in PostgreSQL using pgvector columns.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kozaktomas/face-match/internal/config"
	"github.com/kozaktomas/face-match/internal/database"
	_ "github.com/lib/pq"
)

// Pool wraps the PostgreSQL handle shared by the repository and migrations.
type Pool struct {
	db *sql.DB
}

// NewPool connects using cfg.URL and the configured pool limits.
func NewPool(cfg *config.DatabaseConfig) (*Pool, error) {
	if cfg.URL == "" {
		return nil, errors.New("database URL is required")
	}

	opts := database.DefaultPoolOptions
	opts.MaxOpenConns = cfg.MaxOpenConns
	opts.MaxIdleConns = cfg.MaxIdleConns

	db, err := database.OpenSQL("postgres", cfg.URL, opts)
	if err != nil {
		return nil, err
	}
	return &Pool{db: db}, nil
}

func (p *Pool) Close() error {
	return database.CloseSQL(p.db)
}

// Open connects to PostgreSQL, applies migrations and returns the record backend.
// It matches database.Factory so it can be registered as the "postgres" backend.
func Open(cfg *config.Config) (*database.Backend, error) {
	if cfg == nil || cfg.Database.URL == "" {
		return nil, errors.New("DATABASE_URL environment variable is required for the postgres backend")
	}

	pool, err := NewPool(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to create PostgreSQL pool: %w", err)
	}

	if err := pool.Migrate(context.Background()); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &database.Backend{
		Records: NewRecordRepository(pool),
		Close:   pool.Close,
	}, nil
}
