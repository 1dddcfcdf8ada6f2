package http

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/ssagnay/invitation/internal/auth"
	"github.com/ssagnay/invitation/internal/config"
	"github.com/ssagnay/invitation/internal/domain/invitation"
	"github.com/ssagnay/invitation/internal/http/handlers"
	"github.com/ssagnay/invitation/internal/http/middlewares"
	"github.com/ssagnay/invitation/internal/observability"
	"github.com/ssagnay/invitation/internal/security"
	"github.com/ssagnay/invitation/internal/service"
)

type Deps struct {
	Config config.Config
	Log    *slog.Logger
	Prom   *observability.Prom
	RSVP   *service.RSVPService
	// Ping backs /readyz; nil means always ready.
	Ping func(ctx context.Context) error
	// RateStore backs the POST /api/rsvp limiter; nil disables it.
	RateStore middlewares.WindowStore
	// Tokens is nil unless admin routes are enabled.
	Tokens *auth.Manager
}

func NewRouter(d Deps) (*gin.Engine, error) {
	if d.Config.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// X-Forwarded-For is only honoured from configured proxies, otherwise
	// the per-IP limiter could be dodged by rotating the header.
	if err := r.SetTrustedProxies(d.Config.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}

	// middleware
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(d.Config.OTELServiceName))
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(d.Log))
	if d.Prom != nil {
		r.Use(d.Prom.GinHandleMiddleware())
	}
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(d.Config.CORSOrigins))

	r.NoRoute(func(ctx *gin.Context) {
		handlers.RespondNotFound(ctx, "Not found")
	})

	// health
	h := handlers.NewHealthHandler(d.Ping, d.Log)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)
	if d.Prom != nil {
		r.GET("/metrics", gin.WrapH(d.Prom.Handler()))
	}

	api := r.Group("/api")
	api.Use(middlewares.MaxBodyBytes(d.Config.MaxBodyBytes))

	inv, err := handlers.NewInvitationHandler(invitation.Default(d.Config.MapsURL))
	if err != nil {
		return nil, err
	}
	api.GET("/invitation", inv.Get)

	rsvpHandler := handlers.NewRSVPHandler(d.RSVP, d.Log)

	confirm := []gin.HandlerFunc{}
	if d.RateStore != nil && d.Config.RSVPRateLimit > 0 {
		rl := middlewares.NewRateLimiter(d.RateStore, "rl:rsvp:", d.Config.RSVPRateLimit, d.Config.RSVPRateWindow, d.Log)
		confirm = append(confirm, rl.RateLimiterMiddleware(middlewares.KeyByIP))
	}
	confirm = append(confirm, rsvpHandler.Confirm)

	api.POST("/rsvp", confirm...)
	api.GET("/rsvp", rsvpHandler.Count)

	if d.Tokens != nil && d.Config.AdminEnabled() {
		checker, err := security.NewPasswordChecker(d.Config.AdminPasswordHash)
		if err != nil {
			return nil, err
		}

		expiresIn := int(d.Tokens.AccessTTL().Seconds())
		admin := handlers.NewAdminHandler(d.RSVP, d.Tokens, checker, expiresIn, d.Log)
		authMw := middlewares.NewAuthMiddleware(d.Tokens)

		adminGroup := api.Group("/admin")
		adminGroup.POST("/login", middlewares.RequireJSON(), admin.Login)
		adminGroup.GET("/rsvps", authMw.RequireAuth(), authMw.RequireRole(auth.RoleAdmin), admin.ListConfirmations)
	}

	return r, nil
}
