package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	poolMaxConns    = 5
	poolIdleTimeout = 5 * time.Minute
	connectTimeout  = 5 * time.Second
)

// NewPool opens the postgres pool used when STORE_DRIVER=postgres. The
// pool is verified with a ping before it is handed out.
func NewPool(ctx context.Context, dbURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	cfg.MaxConns = poolMaxConns
	cfg.MaxConnIdleTime = poolIdleTimeout
	cfg.ConnConfig.RuntimeParams["application_name"] = "invitation-api"

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return pool, nil
}
