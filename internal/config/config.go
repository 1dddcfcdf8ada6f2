package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type Config struct {
	Env  string
	Port int

	StoreDriver string

	MongoURI        string
	MongoDatabase   string
	MongoCollection string

	DBURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// RSVPRateLimit submissions per RSVPRateWindow per client IP; 0 disables.
	RSVPRateLimit  int
	RSVPRateWindow time.Duration

	// CountCacheTTL of 0 means every tally goes to the store.
	CountCacheTTL time.Duration
	MaxBodyBytes  int64
	CORSOrigins   []string
	MapsURL       string

	// TrustedProxies lists the IPs/CIDRs allowed to set X-Forwarded-For.
	// Empty means the peer address is the client.
	TrustedProxies []string

	OTLPEndpoint    string
	OTELServiceName string

	JWTSecret           string
	JWTAccessTTLMinutes int
	AdminPasswordHash   string
}

// Load reads a .env file when present and then the process environment.
// Malformed values are collected and returned together.
func Load() (Config, error) {
	_ = godotenv.Load()

	p := &parser{}

	cfg := Config{
		Env:  getEnv("APP_ENV", "dev"),
		Port: p.int("PORT", 8080),

		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", StoreMongo)),

		MongoURI:        getEnv("MONGODB_URI", "mongodb://127.0.0.1:27017"),
		MongoDatabase:   getEnv("MONGODB_DATABASE", "invitation"),
		MongoCollection: getEnv("MONGODB_COLLECTION", "rsvps"),

		DBURL: buildDBURL(),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       p.int("REDIS_DB", 0),

		RSVPRateLimit:  p.int("RSVP_RATE_LIMIT", 10),
		RSVPRateWindow: p.duration("RSVP_RATE_WINDOW", time.Minute),

		CountCacheTTL: p.duration("COUNT_CACHE_TTL", 0),
		MaxBodyBytes:  int64(p.int("MAX_BODY_BYTES", 1<<14)),
		CORSOrigins:   splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		MapsURL:       getEnv("INVITATION_MAPS_URL", ""),

		TrustedProxies: splitCSV(getEnv("TRUSTED_PROXIES", "")),

		OTLPEndpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		OTELServiceName: getEnv("OTEL_SERVICE_NAME", "invitation-api"),

		JWTSecret:           getEnv("JWT_SECRET", ""),
		JWTAccessTTLMinutes: p.int("JWT_ACCESS_TTL_MINUTES", 60),
		AdminPasswordHash:   getEnv("ADMIN_PASSWORD_HASH", ""),
	}

	switch cfg.StoreDriver {
	case StoreMongo, StorePostgres, StoreMemory:
	default:
		p.errs = append(p.errs, fmt.Errorf("STORE_DRIVER: unknown driver %q", cfg.StoreDriver))
	}

	if cfg.AdminPasswordHash != "" && cfg.JWTSecret == "" {
		p.errs = append(p.errs, errors.New("JWT_SECRET is required when ADMIN_PASSWORD_HASH is set"))
	}

	if len(p.errs) > 0 {
		return Config{}, errors.Join(p.errs...)
	}

	return cfg, nil
}

// AdminEnabled reports whether the admin login and listing routes are mounted.
func (c Config) AdminEnabled() bool {
	return c.AdminPasswordHash != "" && c.JWTSecret != ""
}

func buildDBURL() string {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		return v
	}

	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "invitation")
	pass := getEnv("DB_PASSWORD", "invitation")
	name := getEnv("DB_NAME", "invitation")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

type parser struct {
	errs []error
}

func (p *parser) int(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}

	num, err := strconv.Atoi(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}

	return num
}

func (p *parser) duration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}

	return d
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
