package testsupport

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// NewBunMemoryDB opens a named in-memory sqlite database wrapped in bun and
// creates a table for every model. Tests using different names do not share
// rows.
func NewBunMemoryDB(ctx context.Context, name string, models ...any) (*bun.DB, error) {
	sqlDB, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		return nil, err
	}
	db := bun.NewDB(sqlDB, sqlitedialect.New())
	db.SetMaxOpenConns(1)
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("create table for %T: %w", model, err)
		}
	}
	return db, nil
}
