package mongo_test

import (
	"context"
	"testing"
	"time"

	"github.com/ssagnay/invitation/internal/domain/rsvp"
	"github.com/ssagnay/invitation/internal/repo/mongo"
	"github.com/ssagnay/invitation/internal/testutil"
)

func TestRSVPRepoIntegration(t *testing.T) {
	provider := testutil.NewMongoProvider(t)
	repo := mongo.NewRSVPRepo(provider, nil)
	ctx := context.Background()

	older := rsvp.NewConfirmation("Maria Lopez", time.Now().Add(-time.Hour))
	newer := rsvp.NewConfirmation("Maria Lopez", time.Now())

	for _, c := range []rsvp.Confirmation{older, newer} {
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

	items, err := repo.List(ctx, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 || items[0].ID != newer.ID {
		t.Fatalf("expected only the newest record, got %+v", items)
	}
}
