package sqlite

import (
	"database/sql"
	"fmt"
	"io/fs"

	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"

	"lambda-go-template/internal/platform/schema"
)

// Migrate applies the pending migrations in dir of fsys through db itself, so
// in-memory databases are migrated on the connection that will use them.
// db stays open.
func Migrate(db *sql.DB, fsys fs.FS, dir string) error {
	drv, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("init sqlite migrate driver: %w", err)
	}
	_, err = schema.UpInstance("sqlite", drv, fsys, dir)
	return err
}
