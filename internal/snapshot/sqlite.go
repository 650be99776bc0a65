package snapshot

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// OpenSQLite opens dsn with the sqlite3 driver and ensures the snapshot
// table exists.
func OpenSQLite(ctx context.Context, dsn string) (*bun.DB, error) {
	sqlDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("snapshot: open sqlite: %w", err)
	}
	db := bun.NewDB(sqlDB, sqlitedialect.New())
	db.SetMaxOpenConns(1)
	if err := Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate creates the snapshot table when missing.
func Migrate(ctx context.Context, db *bun.DB) error {
	if _, err := db.NewCreateTable().Model((*Snapshot)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("snapshot: create table: %w", err)
	}
	return nil
}
