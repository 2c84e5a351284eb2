package httpserver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lambda-go-template/internal/journal"
)

type listFunc func(context.Context, int) ([]journal.Entry, error)

func (f listFunc) Recent(ctx context.Context, limit int) ([]journal.Entry, error) {
	return f(ctx, limit)
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestFailuresFromJournal(t *testing.T) {
	ctx := context.Background()
	store, err := journal.Open(ctx, journal.Config{Driver: journal.DriverSQLite, DSN: journal.MemoryDSN})
	require.NoError(t, err)
	defer store.Close()

	base := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	for i, msg := range []string{"older", "newer"} {
		e := journal.NewEntry("req", "GET /error", errors.New(msg))
		e.OccurredAt = base.Add(time.Duration(i) * time.Second)
		require.NoError(t, store.Record(ctx, e))
	}

	r := engine()
	MountFailures(r, store, quietLogger())

	w := get(t, r, "/debug/failures?limit=1")
	require.Equal(t, http.StatusOK, w.Code)

	var got []journal.Entry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "newer", got[0].Message)
	assert.Equal(t, "GET /error", got[0].Route)
	assert.Contains(t, w.Body.String(), `"occurredAt":"2025-03-01T08:00:01Z"`)
}

func TestFailuresLimit(t *testing.T) {
	var asked int
	src := listFunc(func(_ context.Context, limit int) ([]journal.Entry, error) {
		asked = limit
		return nil, nil
	})
	r := engine()
	MountFailures(r, src, quietLogger())

	w := get(t, r, "/debug/failures")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
	assert.Equal(t, defaultFailureLimit, asked)

	get(t, r, "/debug/failures?limit=5000")
	assert.Equal(t, maxFailureLimit, asked)

	for _, bad := range []string{"0", "-3", "ten"} {
		w := get(t, r, "/debug/failures?limit="+bad)
		assert.Equal(t, http.StatusBadRequest, w.Code, bad)
		assert.Contains(t, w.Body.String(), "limit must be a positive integer")
	}
}

func TestFailuresReadError(t *testing.T) {
	src := listFunc(func(context.Context, int) ([]journal.Entry, error) {
		return nil, errors.New("database is locked")
	})
	r := engine()
	MountFailures(r, src, quietLogger())

	w := get(t, r, "/debug/failures")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.NotContains(t, w.Body.String(), "locked")
}

func TestFailuresNotMounted(t *testing.T) {
	w := get(t, engine(), "/debug/failures")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
