package journal

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"lambda-go-template/internal/shared"
)

// SQLStore keeps entries in a SQLite database. occurred_at is stored as Unix
// nanoseconds.
type SQLStore struct {
	db *sql.DB
}

// NewSQLStore wraps an open database whose schema is already migrated.
func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Record(ctx context.Context, e Entry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO failures (id, request_id, route, error_type, message, stack, occurred_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID.String(), e.RequestID, e.Route, e.ErrorType, e.Message, e.Stack, e.OccurredAt.UnixNano(),
	)
	return shared.Wrap(err, "insert failure")
}

func (s *SQLStore) Recent(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, request_id, route, error_type, message, stack, occurred_at
		 FROM failures ORDER BY occurred_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, shared.Wrap(err, "query failures")
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e  Entry
			id string
			ns int64
		)
		if err := rows.Scan(&id, &e.RequestID, &e.Route, &e.ErrorType, &e.Message, &e.Stack, &ns); err != nil {
			return nil, shared.Wrap(err, "scan failure")
		}
		if e.ID, err = uuid.Parse(id); err != nil {
			return nil, shared.MarkKind(shared.Wrap(err, "parse failure id"), shared.KindInvariantViolated)
		}
		e.OccurredAt = time.Unix(0, ns).UTC()
		out = append(out, e)
	}
	return out, shared.Wrap(rows.Err(), "iterate failures")
}

func (s *SQLStore) Prune(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM failures WHERE occurred_at < ?`, before.UnixNano())
	if err != nil {
		return 0, shared.Wrap(err, "prune failures")
	}
	return res.RowsAffected()
}

func (s *SQLStore) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *SQLStore) Close() error { return s.db.Close() }
