package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ssagnay/invitation/internal/cache"
	"github.com/ssagnay/invitation/internal/domain/rsvp"
	"github.com/ssagnay/invitation/internal/observability"
)

const (
	DefaultListLimit = 100
	MaxListLimit     = 500

	countKey = "rsvps:count"
)

type RSVPStore interface {
	Insert(ctx context.Context, c rsvp.Confirmation) error
	Count(ctx context.Context) (int64, error)
	List(ctx context.Context, limit int) ([]rsvp.Confirmation, error)
}

type RSVPService struct {
	store  RSVPStore
	counts *cache.Cache[int64]
	prom   *observability.Prom
	now    func() time.Time

	// countMu orders cache fills against invalidations; countGen moves on
	// every successful insert so a count read before it is never cached.
	countMu  sync.Mutex
	countGen uint64
}

type Option func(*RSVPService)

// WithCountCache serves tallies from c until it expires or a submission
// lands in this process.
func WithCountCache(c *cache.Cache[int64]) Option {
	return func(s *RSVPService) { s.counts = c }
}

func WithProm(p *observability.Prom) Option {
	return func(s *RSVPService) { s.prom = p }
}

func WithClock(now func() time.Time) Option {
	return func(s *RSVPService) { s.now = now }
}

func NewRSVPService(store RSVPStore, opts ...Option) *RSVPService {
	s := &RSVPService{
		store: store,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit validates the request and stores exactly one confirmation. There
// is no idempotency key, so a retried submission is a second record.
func (s *RSVPService) Submit(ctx context.Context, req rsvp.CreateRequest) (string, error) {
	name, err := req.Normalize()
	if err != nil {
		if s.prom != nil {
			var vErr *rsvp.ValidationError
			if errors.As(err, &vErr) {
				s.prom.RejectedTotal.WithLabelValues(vErr.Rule).Inc()
			}
		}
		return "", err
	}

	c := rsvp.NewConfirmation(name, s.now())

	err = s.store.Insert(ctx, c)
	if err != nil {
		return "", &rsvp.PersistenceError{Op: "insert", Err: err}
	}

	if s.counts != nil {
		s.countMu.Lock()
		s.countGen++
		s.counts.Delete(countKey)
		s.countMu.Unlock()
	}
	if s.prom != nil {
		s.prom.ConfirmationsTotal.Inc()
	}

	return c.ID, nil
}

func (s *RSVPService) Tally(ctx context.Context) (int64, error) {
	var gen uint64
	if s.counts != nil {
		if n, ok := s.counts.Get(countKey); ok {
			return n, nil
		}
		s.countMu.Lock()
		gen = s.countGen
		s.countMu.Unlock()
	}

	n, err := s.store.Count(ctx)
	if err != nil {
		return 0, &rsvp.PersistenceError{Op: "count", Err: err}
	}

	if s.counts != nil {
		s.countMu.Lock()
		if s.countGen == gen {
			s.counts.Set(countKey, n)
		}
		s.countMu.Unlock()
	}

	return n, nil
}

// List returns the newest confirmations. limit is clamped to [1, MaxListLimit];
// zero or negative means DefaultListLimit.
func (s *RSVPService) List(ctx context.Context, limit int) ([]rsvp.Confirmation, error) {
	switch {
	case limit <= 0:
		limit = DefaultListLimit
	case limit > MaxListLimit:
		limit = MaxListLimit
	}

	items, err := s.store.List(ctx, limit)
	if err != nil {
		return nil, &rsvp.PersistenceError{Op: "list", Err: err}
	}

	return items, nil
}
