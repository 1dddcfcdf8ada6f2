package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/ssagnay/invitation/internal/domain/rsvp"
	"github.com/ssagnay/invitation/internal/repo/postgres"
	"github.com/ssagnay/invitation/internal/testutil"
)

func TestRSVPRepoIntegration(t *testing.T) {
	pool := testutil.NewMigratedPool(t)
	ctx := context.Background()

	if _, err := pool.Exec(ctx, `TRUNCATE rsvps`); err != nil {
		t.Fatalf("truncate: %v", err)
	}

	repo := postgres.NewRSVPRepo(pool, nil)

	first := rsvp.NewConfirmation("Maria Lopez", time.Now().Add(-time.Minute))
	second := rsvp.NewConfirmation("Maria Lopez", time.Now())

	for _, c := range []rsvp.Confirmation{first, second} {
		if err := repo.Insert(ctx, c); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("count = %d, want 2", count)
	}

	items, err := repo.List(ctx, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 2 || items[0].ID != second.ID {
		t.Fatalf("expected newest first, got %+v", items)
	}
	if items[1].Name != "Maria Lopez" || items[1].Event != rsvp.EventLabel {
		t.Fatalf("unexpected stored record %+v", items[1])
	}
}

func TestRSVPRepoRejectsShortNames(t *testing.T) {
	pool := testutil.NewMigratedPool(t)

	bad := rsvp.NewConfirmation(" A ", time.Now())
	if err := postgres.NewRSVPRepo(pool, nil).Insert(context.Background(), bad); err == nil {
		t.Fatalf("expected the name check constraint to reject %q", bad.Name)
	}
}
