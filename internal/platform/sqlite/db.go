package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

const memoryPath = ":memory:"

// Options tunes the pool and the per-connection PRAGMAs.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration

	WAL         bool
	ForeignKeys bool
	// BusyTimeout is how long a writer waits on SQLITE_BUSY. Zero fails fast.
	BusyTimeout time.Duration
}

func DefaultOptions() Options {
	return Options{
		MaxOpenConns:    4,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
		ConnMaxIdleTime: 10 * time.Minute,
		PingTimeout:     5 * time.Second,
		WAL:             true,
		ForeignKeys:     true,
		BusyTimeout:     5 * time.Second,
	}
}

// Open opens the database file at path with DefaultOptions.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	return OpenWithOptions(ctx, path, DefaultOptions())
}

// OpenMemory opens a private in-memory database. Each connection of an
// in-memory DSN gets its own empty database, so the pool holds exactly one.
func OpenMemory(ctx context.Context) (*sql.DB, error) {
	o := DefaultOptions()
	o.WAL = false
	o.MaxOpenConns, o.MaxIdleConns = 1, 1
	return OpenWithOptions(ctx, memoryPath, o)
}

// OpenWithOptions creates the parent directory of path if needed, opens the
// database and pings it.
func OpenWithOptions(ctx context.Context, path string, o Options) (*sql.DB, error) {
	if path != memoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn(path, o))
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	db.SetMaxOpenConns(o.MaxOpenConns)
	db.SetMaxIdleConns(o.MaxIdleConns)
	db.SetConnMaxLifetime(o.ConnMaxLifetime)
	db.SetConnMaxIdleTime(o.ConnMaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, o.PingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite %s: %w", path, err)
	}
	return db, nil
}

// dsn carries every PRAGMA as a _pragma query parameter. The driver runs
// those on each new connection, whereas a PRAGMA statement only reaches the
// one connection that executed it.
func dsn(path string, o Options) string {
	var pragmas []string
	if o.BusyTimeout > 0 {
		pragmas = append(pragmas, fmt.Sprintf("busy_timeout(%d)", o.BusyTimeout.Milliseconds()))
	}
	if o.ForeignKeys {
		pragmas = append(pragmas, "foreign_keys(1)")
	}
	if o.WAL {
		pragmas = append(pragmas, "journal_mode(WAL)", "synchronous(NORMAL)")
	}
	if len(pragmas) == 0 {
		return path
	}
	return path + "?_pragma=" + strings.Join(pragmas, "&_pragma=")
}
