package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ssagnay/invitation/internal/domain/rsvp"
	"github.com/ssagnay/invitation/internal/observability"
)

const storeName = "postgres"

type RSVPRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewRSVPRepo(pool *pgxpool.Pool, prom *observability.Prom) *RSVPRepo {
	return &RSVPRepo{
		pool: pool,
		prom: prom,
	}
}

func (repo *RSVPRepo) observe(op string, fn func() error) error {
	if repo.prom != nil {
		return repo.prom.ObserveStore(storeName, op, fn)
	}
	return fn()
}

func (repo *RSVPRepo) Insert(ctx context.Context, c rsvp.Confirmation) error {
	return repo.observe("rsvps.insert", func() error {
		_, err := repo.pool.Exec(ctx, `
		INSERT INTO rsvps (id, name, event, confirmed_at)
		VALUES ($1, $2, $3, $4)
	`, c.ID, c.Name, c.Event, c.ConfirmedAt)
		return err
	})
}

func (repo *RSVPRepo) Count(ctx context.Context) (int64, error) {
	var total int64
	err := repo.observe("rsvps.count", func() error {
		return repo.pool.QueryRow(ctx, `SELECT COUNT(*) FROM rsvps`).Scan(&total)
	})
	return total, err
}

func (repo *RSVPRepo) List(ctx context.Context, limit int) (items []rsvp.Confirmation, err error) {
	var rows pgx.Rows

	err = repo.observe("rsvps.list", func() error {
		var qerr error
		rows, qerr = repo.pool.Query(ctx, `
		SELECT id, name, event, confirmed_at
		FROM rsvps
		ORDER BY confirmed_at DESC, id DESC
		LIMIT $1
	`, limit)
		return qerr
	})

	if err != nil {
		return nil, err
	}

	items, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (rsvp.Confirmation, error) {
		var c rsvp.Confirmation
		scanErr := row.Scan(&c.ID, &c.Name, &c.Event, &c.ConfirmedAt)
		c.ConfirmedAt = c.ConfirmedAt.UTC()
		return c, scanErr
	})

	if err != nil {
		if repo.prom != nil {
			repo.prom.StoreErrorsTotal.WithLabelValues(storeName, "rsvps.list", "rows_err").Inc()
		}
		return nil, err
	}

	return items, nil
}

func (repo *RSVPRepo) Ping(ctx context.Context) error {
	return repo.pool.Ping(ctx)
}
