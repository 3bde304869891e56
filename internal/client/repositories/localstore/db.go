package localstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/dealerdash/internal/client/migrations"
	"github.com/dmitrijs2005/dealerdash/internal/filex"
)

// RunMigrations applies the embedded migrations. It is safe to call on an
// already migrated database.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("migrate local store: %w", err)
	}
	return nil
}

// Open opens (creating if needed) the SQLite file at dsn and migrates it.
// Plain file paths get their directory created; "~/" is expanded.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	if dsn != ":memory:" && !strings.HasPrefix(dsn, "file:") {
		p, err := filex.EnsureParentDir(dsn)
		if err != nil {
			return nil, fmt.Errorf("open local store: %w", err)
		}
		dsn = p
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}
	// one writer keeps SQLite from returning SQLITE_BUSY under concurrent saves
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
