package sqlc

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"go-ingest/configs"
	"go-ingest/internal/domain/gateway/db"
)

// Open connects database/sql to postgres (lib/pq) or to an embedded SQLite file and pings it.
func Open(ctx context.Context, cfg configs.DatabaseConfig) (*sql.DB, db.Dialect, error) {
	dialect, err := db.DialectFor(cfg.Driver)
	if err != nil {
		return nil, db.Dialect{}, err
	}

	var conn *sql.DB
	switch dialect.Name {
	case db.SQLite.Name:
		conn, err = sql.Open("sqlite", cfg.Path)
		if err == nil {
			// one writer at a time
			conn.SetMaxOpenConns(1)
		}
	default:
		conn, err = sql.Open("postgres", cfg.PostgresDSN())
		if err == nil {
			conn.SetMaxOpenConns(10)
			conn.SetConnMaxIdleTime(5 * time.Minute)
		}
	}
	if err != nil {
		return nil, db.Dialect{}, fmt.Errorf("failed to open DB: %w", err)
	}

	if err = conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, db.Dialect{}, fmt.Errorf("failed to ping DB: %w", err)
	}
	return conn, dialect, nil
}

// Migrate creates every entity table that does not exist yet.
func Migrate(ctx context.Context, conn *sql.DB, dialect db.Dialect) error {
	for _, statement := range dialect.SchemaStatements() {
		if _, err := conn.ExecContext(ctx, statement); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}
