// Package database opens the Postgres pool behind the postgres profile
// backend and applies the card schema.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const pingTimeout = 5 * time.Second

type Config struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	// Migrations, when set, is applied with Migrate after connecting.
	Migrations fs.FS
}

// DefaultConfig sizes the pool for a single check-in desk.
func DefaultConfig(url string) Config {
	return Config{
		URL:             url,
		MaxOpenConns:    10,
		MaxIdleConns:    2,
		ConnMaxLifetime: 5 * time.Minute,
	}
}

// Pool is a pgx-backed *sql.DB.
type Pool struct {
	*sql.DB
}

// Open connects, pings and migrates. The pool is closed again on any error.
func Open(ctx context.Context, cfg Config) (pool *Pool, err error) {
	if cfg.URL == "" {
		return nil, errors.New("database url is empty")
	}
	db, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if err != nil {
			_ = db.Close()
		}
	}()

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if cfg.Migrations != nil {
		if err := Migrate(ctx, db, cfg.Migrations); err != nil {
			return nil, err
		}
	}
	return &Pool{DB: db}, nil
}

// Health pings the database.
func (p *Pool) Health(ctx context.Context) error {
	return p.PingContext(ctx)
}
