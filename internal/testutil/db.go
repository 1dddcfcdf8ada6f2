// Package testutil holds helpers for integration tests. Every helper skips
// the calling test when its database is not configured.
package testutil

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ssagnay/invitation/internal/db"
)

// NewMigratedPool connects to TEST_DATABASE_URL and applies the embedded
// migrations. The pool is closed when the test finishes.
func NewMigratedPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping integration test")
	}

	ctx := context.Background()

	pool, err := db.NewPool(ctx, dsn)
	if err != nil {
		t.Fatalf("testutil.NewMigratedPool: open pool: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := db.Migrate(ctx, pool, DiscardLogger()); err != nil {
		t.Fatalf("testutil.NewMigratedPool: migrate: %v", err)
	}

	return pool
}

// NewMongoProvider points at TEST_MONGODB_URI using a throwaway database
// named after the test; the database is dropped on cleanup.
func NewMongoProvider(t *testing.T) *db.MongoProvider {
	t.Helper()

	uri := os.Getenv("TEST_MONGODB_URI")
	if uri == "" {
		t.Skip("TEST_MONGODB_URI not set; skipping integration test")
	}

	p := db.NewMongoProvider(db.MongoConfig{
		URI:        uri,
		Database:   "invitation_test",
		Collection: "rsvps",
	})

	ctx := context.Background()
	if err := p.Ping(ctx); err != nil {
		t.Fatalf("testutil.NewMongoProvider: ping: %v", err)
	}

	t.Cleanup(func() {
		if coll, err := p.Collection(); err == nil {
			_ = coll.Database().Drop(ctx)
		}
		_ = p.Close(ctx)
	})

	return p
}

func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
