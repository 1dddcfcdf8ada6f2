package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ssagnay/invitation/internal/config"
	"github.com/ssagnay/invitation/internal/db"
	"github.com/ssagnay/invitation/internal/observability"
	"github.com/ssagnay/invitation/internal/repo/memory"
	"github.com/ssagnay/invitation/internal/repo/mongo"
	"github.com/ssagnay/invitation/internal/repo/postgres"
	"github.com/ssagnay/invitation/internal/service"
)

type rsvpStore interface {
	service.RSVPStore
	Ping(ctx context.Context) error
}

// openStore builds the repository selected by STORE_DRIVER. The returned
// close func releases whatever connection the store holds.
func openStore(ctx context.Context, cfg config.Config, log *slog.Logger, prom *observability.Prom) (rsvpStore, func(context.Context), error) {
	switch cfg.StoreDriver {
	case config.StoreMongo:
		// connects on first use, see db.MongoProvider
		provider := db.NewMongoProvider(db.MongoConfig{
			URI:        cfg.MongoURI,
			Database:   cfg.MongoDatabase,
			Collection: cfg.MongoCollection,
		})

		closeFn := func(ctx context.Context) {
			if err := provider.Close(ctx); err != nil {
				log.Error("mongo disconnect failed", "err", err)
			}
		}

		return mongo.NewRSVPRepo(provider, prom), closeFn, nil

	case config.StorePostgres:
		pool, err := db.NewPool(ctx, cfg.DBURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}

		if err := db.Migrate(ctx, pool, log); err != nil {
			pool.Close()
			return nil, nil, err
		}

		return postgres.NewRSVPRepo(pool, prom), func(context.Context) { pool.Close() }, nil

	case config.StoreMemory:
		log.Warn("using in-memory store; confirmations are lost on restart")
		return memory.NewRSVPRepo(), func(context.Context) {}, nil
	}

	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
