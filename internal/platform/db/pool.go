package db

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PoolConfig carries the pool sizing and timeout knobs.
type PoolConfig struct {
	MaxConns       int32
	MinConns       int32
	ConnectTimeout time.Duration
	IdleTimeout    time.Duration
}

// NewPool builds a pgx pool from a connection URL and validates it with a
// round-trip ping. A pool that fails validation is closed and never returned.
func NewPool(ctx context.Context, databaseURL string, pc PoolConfig) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	cfg.MaxConns = pc.MaxConns
	cfg.MinConns = pc.MinConns
	if pc.ConnectTimeout > 0 {
		cfg.ConnConfig.ConnectTimeout = pc.ConnectTimeout
	}
	if pc.IdleTimeout > 0 {
		cfg.MaxConnIdleTime = pc.IdleTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// ConnectFunc dials and validates a pool. PoolHolder calls it on first use
// and again after Invalidate; credentials are re-resolved on every dial so a
// rotated password never sticks.
type ConnectFunc func(ctx context.Context) (*pgxpool.Pool, error)

// PoolHolder is the process-scoped lazily initialized pool handle. A failed
// dial is surfaced to the current request and leaves the holder empty, so the
// next request retries from scratch instead of reusing a poisoned pool.
type PoolHolder struct {
	connect ConnectFunc

	mu   sync.Mutex
	pool *pgxpool.Pool
}

func NewPoolHolder(connect ConnectFunc) *PoolHolder {
	return &PoolHolder{connect: connect}
}

// Get returns the cached pool, dialing one if none exists yet.
func (h *PoolHolder) Get(ctx context.Context) (*pgxpool.Pool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.pool != nil {
		return h.pool, nil
	}

	pool, err := h.connect(ctx)
	if err != nil {
		return nil, err
	}
	h.pool = pool
	return pool, nil
}

// Invalidate closes and clears the cached pool so the next Get rebuilds it.
func (h *PoolHolder) Invalidate() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.pool != nil {
		h.pool.Close()
		h.pool = nil
	}
}

// Close releases the cached pool, if any. Used on shutdown.
func (h *PoolHolder) Close() {
	h.Invalidate()
}
