package schema_test

import (
	"database/sql"
	"path/filepath"
	"testing"
	"testing/fstest"

	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lambda-go-template/internal/platform/schema"
)

func TestUp(t *testing.T) {
	url := "sqlite://" + filepath.ToSlash(filepath.Join(t.TempDir(), "s.db"))
	fsys := fstest.MapFS{
		"m/1_a.up.sql":   {Data: []byte(`CREATE TABLE a (id INTEGER);`)},
		"m/1_a.down.sql": {Data: []byte(`DROP TABLE a;`)},
		"m/2_b.up.sql":   {Data: []byte(`CREATE TABLE b (id INTEGER);`)},
		"m/2_b.down.sql": {Data: []byte(`DROP TABLE b;`)},
	}

	v, err := schema.Up(url, fsys, "m")
	require.NoError(t, err)
	assert.Equal(t, uint(2), v)

	v, err = schema.Up(url, fsys, "m")
	require.NoError(t, err)
	assert.Equal(t, uint(2), v, "second run changes nothing")
}

func TestUpBrokenMigrationLeavesDirty(t *testing.T) {
	url := "sqlite://" + filepath.ToSlash(filepath.Join(t.TempDir(), "d.db"))
	fsys := fstest.MapFS{
		"m/1_bad.up.sql":   {Data: []byte(`CREATE TABLE;`)},
		"m/1_bad.down.sql": {Data: []byte(``)},
	}

	_, err := schema.Up(url, fsys, "m")
	require.Error(t, err)

	_, err = schema.Up(url, fsys, "m")
	assert.ErrorIs(t, err, schema.ErrDirty)
}

func TestUpMissingDir(t *testing.T) {
	_, err := schema.Up("sqlite:///tmp/x.db", fstest.MapFS{}, "nope")
	assert.Error(t, err)
}

func TestUpInstanceKeepsConnectionOpen(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	defer db.Close()

	drv, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	require.NoError(t, err)
	fsys := fstest.MapFS{
		"m/1_a.up.sql":   {Data: []byte(`CREATE TABLE a (id INTEGER);`)},
		"m/1_a.down.sql": {Data: []byte(`DROP TABLE a;`)},
	}

	v, err := schema.UpInstance("sqlite", drv, fsys, "m")
	require.NoError(t, err)
	assert.Equal(t, uint(1), v)

	_, err = db.Exec(`INSERT INTO a (id) VALUES (1)`)
	assert.NoError(t, err, "migrated table is visible on the same connection")
}
