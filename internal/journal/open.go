package journal

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"lambda-go-template/internal/platform/pg"
	"lambda-go-template/internal/platform/sqlite"
	"lambda-go-template/internal/shared"
)

//go:embed migrations
var migrations embed.FS

// Driver names accepted by Open.
const (
	DriverNone     = "none"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config selects and locates the journal backend.
type Config struct {
	Driver string
	// DSN is a file path for sqlite and a connection URL for postgres.
	// MemoryDSN keeps a sqlite journal in process memory.
	DSN string
}

// MemoryDSN selects a private in-memory sqlite journal, lost on exit.
const MemoryDSN = ":memory:"

// Open connects to the configured backend and brings its schema up to date.
// An empty driver or DriverNone yields Nop.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case "", DriverNone:
		return Nop{}, nil
	case DriverSQLite, DriverPostgres:
	default:
		return nil, shared.MarkKind(fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver), shared.KindValidation)
	}
	if cfg.DSN == "" {
		return nil, shared.MarkKind(ErrMissingDSN, shared.KindValidation)
	}

	if cfg.Driver == DriverSQLite {
		open := sqlite.Open
		if cfg.DSN == MemoryDSN {
			open = func(ctx context.Context, _ string) (*sql.DB, error) { return sqlite.OpenMemory(ctx) }
		}
		db, err := open(ctx, cfg.DSN)
		if err != nil {
			return nil, shared.Wrap(err, "open sqlite journal")
		}
		if err := sqlite.Migrate(db, migrations, "migrations/sqlite"); err != nil {
			_ = db.Close()
			return nil, shared.Wrap(err, "migrate sqlite journal")
		}
		return NewSQLStore(db), nil
	}

	if _, err := pg.Migrate(cfg.DSN, migrations, "migrations/postgres"); err != nil {
		return nil, shared.Wrap(err, "migrate postgres journal")
	}
	pool, err := pg.NewPool(ctx, cfg.DSN)
	if err != nil {
		return nil, shared.Wrap(err, "open postgres journal")
	}
	return NewPGStore(pool), nil
}
