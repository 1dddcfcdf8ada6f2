package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/ssagnay/invitation/internal/auth"
	"github.com/ssagnay/invitation/internal/cache"
	"github.com/ssagnay/invitation/internal/config"
	httpx "github.com/ssagnay/invitation/internal/http"
	"github.com/ssagnay/invitation/internal/http/middlewares"
	"github.com/ssagnay/invitation/internal/observability"
	"github.com/ssagnay/invitation/internal/redisclient"
	"github.com/ssagnay/invitation/internal/service"
)

func main() {
	// Load the config set up
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "err", err)
		os.Exit(1)
	}

	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := observability.InitTracer(ctx, observability.TracerConfig{
		ServiceName: cfg.OTELServiceName,
		Env:         cfg.Env,
		Endpoint:    cfg.OTLPEndpoint,
	})
	if err != nil {
		log.Error("tracer init failed", "err", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	prom := observability.NewProm(reg)

	store, closeStore, err := openStore(ctx, cfg, log, prom)
	if err != nil {
		log.Error("store init failed", "driver", cfg.StoreDriver, "err", err)
		os.Exit(1)
	}

	opts := []service.Option{service.WithProm(prom)}
	if cfg.CountCacheTTL > 0 {
		opts = append(opts, service.WithCountCache(cache.New[int64](cfg.CountCacheTTL)))
	}
	svc := service.NewRSVPService(store, opts...)

	var rateStore middlewares.WindowStore = middlewares.NewMemoryWindowStore()
	var rc *redisclient.Client
	if cfg.RedisAddr != "" {
		rc = redisclient.New(redisclient.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})

		pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := rc.Ping(pctx); err != nil {
			// the limiter fails open, so a cold redis is not fatal
			log.Warn("redis unreachable at startup", "addr", cfg.RedisAddr, "err", err)
		}
		cancel()

		rateStore = middlewares.NewRedisWindowStore(rc)
	}

	var tokens *auth.Manager
	if cfg.AdminEnabled() {
		tokens = auth.NewManager(cfg.JWTSecret, time.Duration(cfg.JWTAccessTTLMinutes)*time.Minute)
	}

	router, err := httpx.NewRouter(httpx.Deps{
		Config:    cfg,
		Log:       log,
		Prom:      prom,
		RSVP:      svc,
		Ping:      store.Ping,
		RateStore: rateStore,
		Tokens:    tokens,
	})
	if err != nil {
		log.Error("router init failed", "err", err)
		os.Exit(1)
	}

	// server set up
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env, "store", cfg.StoreDriver)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			stop()
		}
	}()

	// Graceful shutdown
	<-ctx.Done()
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		sctx, cancel := config.WithTimeout(10 * time.Second)
		defer cancel()

		if err := srv.Shutdown(sctx); err != nil {
			log.Error("graceful shutdown failed", "err", err)
		}

		closeStore(sctx)

		if rc != nil {
			_ = rc.Close()
		}

		if err := shutdownTracer(sctx); err != nil {
			log.Error("tracer shutdown failed", "err", err)
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}
