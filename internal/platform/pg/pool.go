// Package pg opens PostgreSQL connection pools (pgx/v5) and applies
// golang-migrate migrations embedded in the binary.
package pg

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PoolOptions holds pgxpool settings.
type PoolOptions struct {
	MaxConns          int32
	MinConns          int32
	HealthCheckPeriod time.Duration
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	// PingTimeout bounds the connectivity check done when the pool is created.
	PingTimeout time.Duration
}

// DefaultPoolOptions returns settings sized for a function instance, which
// serves one invocation at a time and may be frozen between invocations.
func DefaultPoolOptions() PoolOptions {
	return PoolOptions{
		MaxConns:          4,
		MinConns:          0,
		HealthCheckPeriod: 30 * time.Second,
		MaxConnLifetime:   30 * time.Minute,
		MaxConnIdleTime:   5 * time.Minute,
		PingTimeout:       5 * time.Second,
	}
}

// NewPool creates a pool with DefaultPoolOptions.
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	return NewPoolWithOptions(ctx, dsn, DefaultPoolOptions())
}

// NewPoolWithOptions creates a pool and pings it once.
func NewPoolWithOptions(ctx context.Context, dsn string, opts PoolOptions) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	cfg.MaxConns = opts.MaxConns
	cfg.MinConns = opts.MinConns
	cfg.HealthCheckPeriod = opts.HealthCheckPeriod
	cfg.MaxConnLifetime = opts.MaxConnLifetime
	cfg.MaxConnIdleTime = opts.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, opts.PingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	return pool, nil
}
