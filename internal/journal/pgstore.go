package journal

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"lambda-go-template/internal/shared"
)

// PGStore keeps entries in PostgreSQL.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore wraps a pool whose schema is already migrated.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

func (s *PGStore) Record(ctx context.Context, e Entry) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO failures (id, request_id, route, error_type, message, stack, occurred_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.ID, e.RequestID, e.Route, e.ErrorType, e.Message, e.Stack, e.OccurredAt,
	)
	return shared.Wrap(err, "insert failure")
}

func (s *PGStore) Recent(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, request_id, route, error_type, message, stack, occurred_at
		 FROM failures ORDER BY occurred_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, shared.Wrap(err, "query failures")
	}

	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Entry, error) {
		var e Entry
		err := row.Scan(&e.ID, &e.RequestID, &e.Route, &e.ErrorType, &e.Message, &e.Stack, &e.OccurredAt)
		e.OccurredAt = e.OccurredAt.UTC()
		return e, err
	})
	return out, shared.Wrap(err, "collect failures")
}

func (s *PGStore) Prune(ctx context.Context, before time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM failures WHERE occurred_at < $1`, before)
	if err != nil {
		return 0, shared.Wrap(err, "prune failures")
	}
	return tag.RowsAffected(), nil
}

func (s *PGStore) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

func (s *PGStore) Close() error {
	s.pool.Close()
	return nil
}
