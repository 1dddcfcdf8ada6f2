package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/ssagnay/invitation/internal/domain/rsvp"
)

// RSVPRepo keeps confirmations in insertion order. Used for STORE_DRIVER=memory
// and as a real store in handler tests.
type RSVPRepo struct {
	mu    sync.RWMutex
	items []rsvp.Confirmation
	ids   map[string]struct{}
}

func NewRSVPRepo() *RSVPRepo {
	return &RSVPRepo{
		ids: make(map[string]struct{}),
	}
}

func (r *RSVPRepo) Insert(ctx context.Context, c rsvp.Confirmation) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, dup := r.ids[c.ID]; dup {
		return fmt.Errorf("memory: duplicate id %s", c.ID)
	}

	r.ids[c.ID] = struct{}{}
	r.items = append(r.items, c)

	return nil
}

func (r *RSVPRepo) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.items)), nil
}

// List returns up to limit confirmations, newest first.
func (r *RSVPRepo) List(ctx context.Context, limit int) ([]rsvp.Confirmation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	n := len(r.items)
	if limit < n {
		n = limit
	}

	out := make([]rsvp.Confirmation, 0, n)
	for i := len(r.items) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, r.items[i])
	}

	return out, nil
}

func (r *RSVPRepo) Ping(ctx context.Context) error {
	return ctx.Err()
}
