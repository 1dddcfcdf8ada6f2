package memory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ssagnay/invitation/internal/domain/rsvp"
	"github.com/ssagnay/invitation/internal/repo/memory"
)

func TestRSVPRepoInsertCountList(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewRSVPRepo()
	base := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

	names := []string{"Ana Ruiz", "Luis Paz", "Ana Ruiz"}
	for i, n := range names {
		if err := repo.Insert(ctx, rsvp.NewConfirmation(n, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
	}

	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 3 {
		t.Fatalf("count = %d, want 3 (duplicate names are allowed)", count)
	}

	got, err := repo.List(ctx, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if !got[0].ConfirmedAt.After(got[1].ConfirmedAt) {
		t.Fatalf("expected newest first, got %v then %v", got[0].ConfirmedAt, got[1].ConfirmedAt)
	}
}

func TestRSVPRepoRejectsReusedID(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewRSVPRepo()
	c := rsvp.NewConfirmation("Ana Ruiz", time.Now())

	if err := repo.Insert(ctx, c); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if err := repo.Insert(ctx, c); err == nil {
		t.Fatalf("expected an error when an id is reused")
	}
}

func TestRSVPRepoConcurrentInserts(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewRSVPRepo()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := repo.Insert(ctx, rsvp.NewConfirmation("Invitado", time.Now())); err != nil {
				t.Errorf("insert: %v", err)
			}
		}()
	}
	wg.Wait()

	count, _ := repo.Count(ctx)
	if count != 50 {
		t.Fatalf("count = %d, want 50", count)
	}
}

func TestRSVPRepoHonoursCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := memory.NewRSVPRepo().Count(ctx); err == nil {
		t.Fatalf("expected context error")
	}
}
