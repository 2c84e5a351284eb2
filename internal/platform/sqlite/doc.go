// Package sqlite opens embedded SQLite databases (modernc.org/sqlite, no cgo)
// and applies golang-migrate migrations to them.
//
// It backs the failure journal when the function runs as a long-lived local
// HTTP server or in a container with a writable volume:
//
//	db, err := sqlite.Open(ctx, "data/journal.db")
//	if err != nil {
//	    return err
//	}
//	if err := sqlite.Migrate(db, migrations, "migrations/sqlite"); err != nil {
//	    return err
//	}
//
// Defaults favour a single writer: WAL journal, a small connection pool and a
// busy timeout so concurrent invocations wait instead of failing with
// SQLITE_BUSY.
package sqlite
