// Package schema runs golang-migrate migrations embedded in the binary.
// Callers register the database driver with a blank import or hand over an
// open driver instance.
package schema

import (
	"errors"
	"fmt"
	"io/fs"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// ErrDirty means a previous migration failed halfway and the schema needs a
// manual fix before anything else is applied.
var ErrDirty = errors.New("schema is dirty")

// Up applies the pending migrations found in dir of fsys to databaseURL and
// returns the resulting version. An up-to-date schema is not an error.
func Up(databaseURL string, fsys fs.FS, dir string) (uint, error) {
	src, err := iofs.New(fsys, dir)
	if err != nil {
		return 0, fmt.Errorf("read migrations %s: %w", dir, err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, databaseURL)
	if err != nil {
		return 0, fmt.Errorf("init migrate: %w", err)
	}
	defer m.Close()
	return up(m)
}

// UpInstance is Up over a driver built from an open connection, for databases
// that cannot be reopened by URL such as in-memory SQLite. The driver and its
// connection are left open.
func UpInstance(name string, drv database.Driver, fsys fs.FS, dir string) (uint, error) {
	src, err := iofs.New(fsys, dir)
	if err != nil {
		return 0, fmt.Errorf("read migrations %s: %w", dir, err)
	}
	defer src.Close()
	m, err := migrate.NewWithInstance("iofs", src, name, drv)
	if err != nil {
		return 0, fmt.Errorf("init migrate: %w", err)
	}
	return up(m)
}

func up(m *migrate.Migrate) (uint, error) {
	v, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
	case err != nil:
		return 0, fmt.Errorf("read schema version: %w", err)
	case dirty:
		return v, fmt.Errorf("%w at version %d", ErrDirty, v)
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return v, nil
		}
		return v, fmt.Errorf("migrate up: %w", err)
	}
	if v, _, err = m.Version(); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return v, nil
}
