package middlewares

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

const MsgRateLimited = "Demasiadas solicitudes. Intenta de nuevo en unos momentos."

// WindowStore counts hits per key in fixed windows.
type WindowStore interface {
	Hit(ctx context.Context, key string, window time.Duration) (count int64, resetIn time.Duration, err error)
}

type RateLimiter struct {
	store  WindowStore
	limit  int64
	window time.Duration
	prefix string
	log    *slog.Logger
}

func NewRateLimiter(store WindowStore, prefix string, limit int, window time.Duration, log *slog.Logger) *RateLimiter {
	return &RateLimiter{
		store:  store,
		limit:  int64(limit),
		window: window,
		prefix: prefix,
		log:    log,
	}
}

// RateLimiterMiddleware enforces the limit for the key derived by keyFn.
// When the store is unavailable the request is let through.
func (rl *RateLimiter) RateLimiterMiddleware(keyFn func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keyFn(c)

		if key == "" {
			// fallback to IP if key cannot be derived
			key = clientIP(c)
		}

		count, resetIn, err := rl.store.Hit(c.Request.Context(), rl.prefix+key, rl.window)
		if err != nil {
			rl.log.WarnContext(c.Request.Context(), "rate limiter store unavailable", "err", err, "request_id", RequestIDFrom(c))
			c.Next()
			return
		}

		if count > rl.limit {
			retryAfter := int(resetIn.Seconds())

			if retryAfter < 0 {
				retryAfter = 0
			}

			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": MsgRateLimited})

			return
		}

		c.Next()
	}
}

// MemoryWindowStore keeps per-process buckets; fine for a single instance.
type MemoryWindowStore struct {
	mu      sync.Mutex
	clients map[string]*clientBucket
	now     func() time.Time
}

type clientBucket struct {
	count     int64
	windowEnd time.Time
}

func NewMemoryWindowStore() *MemoryWindowStore {
	return &MemoryWindowStore{
		clients: make(map[string]*clientBucket),
		now:     time.Now,
	}
}

func (s *MemoryWindowStore) Hit(_ context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.clients) > 10_000 {
		for k, b := range s.clients {
			if now.After(b.windowEnd) {
				delete(s.clients, k)
			}
		}
	}

	b, ok := s.clients[key]

	if !ok || now.After(b.windowEnd) {
		b = &clientBucket{windowEnd: now.Add(window)}
		s.clients[key] = b
	}

	b.count++

	return b.count, b.windowEnd.Sub(now), nil
}

// WindowCounter is satisfied by redisclient.Client.
type WindowCounter interface {
	IncrWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

// RedisWindowStore shares buckets across every instance behind the same redis.
type RedisWindowStore struct {
	counter WindowCounter
}

func NewRedisWindowStore(counter WindowCounter) *RedisWindowStore {
	return &RedisWindowStore{counter: counter}
}

func (s *RedisWindowStore) Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	return s.counter.IncrWindow(ctx, key, window)
}

func KeyByIP(c *gin.Context) string {
	return clientIP(c)
}

func clientIP(c *gin.Context) string {
	// ClientIP only reads X-Forwarded-For from proxies set via SetTrustedProxies.
	ip := c.ClientIP()

	host, _, err := net.SplitHostPort(ip)

	if err == nil && host != "" {
		return host
	}

	return ip
}
