package pg

import (
	"io/fs"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"

	"lambda-go-template/internal/platform/schema"
)

// Migrate brings the database at dsn up to the newest migration in dir of
// fsys and returns the schema version. A dirty schema is refused with
// schema.ErrDirty.
func Migrate(dsn string, fsys fs.FS, dir string) (uint, error) {
	return schema.Up(dsn, fsys, dir)
}
