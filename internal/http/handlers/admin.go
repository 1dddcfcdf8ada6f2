package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ssagnay/invitation/internal/auth"
	"github.com/ssagnay/invitation/internal/domain/rsvp"
	"github.com/ssagnay/invitation/internal/http/middlewares"
)

type ConfirmationLister interface {
	List(ctx context.Context, limit int) ([]rsvp.Confirmation, error)
}

type TokenIssuer interface {
	GenerateAccessToken(subject, role string) (string, error)
}

type PasswordChecker interface {
	Check(plain string) error
}

type AdminHandler struct {
	svc       ConfirmationLister
	tokens    TokenIssuer
	passwords PasswordChecker
	expiresIn int
	log       *slog.Logger
}

type loginRequest struct {
	Password string `json:"password" binding:"required,max=256"`
}

func NewAdminHandler(svc ConfirmationLister, tokens TokenIssuer, passwords PasswordChecker, expiresInSeconds int, log *slog.Logger) *AdminHandler {
	return &AdminHandler{
		svc:       svc,
		tokens:    tokens,
		passwords: passwords,
		expiresIn: expiresInSeconds,
		log:       log,
	}
}

// Login handles POST /api/admin/login.
func (h *AdminHandler) Login(ctx *gin.Context) {
	var req loginRequest

	if bErr := bindJSON(ctx, &req); bErr != nil {
		if bErr.Kind == bindTooLarge {
			RespondTooLarge(ctx)
			return
		}
		RespondBadRequest(ctx, "Invalid request body")
		return
	}

	if err := h.passwords.Check(req.Password); err != nil {
		h.log.WarnContext(ctx.Request.Context(), "admin login failed",
			"client_ip", ctx.ClientIP(), "request_id", middlewares.RequestIDFrom(ctx))
		RespondUnauthorized(ctx, "Invalid credentials")
		return
	}

	token, err := h.tokens.GenerateAccessToken("admin", auth.RoleAdmin)
	if err != nil {
		h.log.ErrorContext(ctx.Request.Context(), "issue access token", "err", err)
		RespondInternal(ctx, "Could not sign in")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"accessToken": token,
		"tokenType":   "Bearer",
		"expiresIn":   h.expiresIn,
	})
}

// ListConfirmations handles GET /api/admin/rsvps.
func (h *AdminHandler) ListConfirmations(ctx *gin.Context) {
	limit := 0
	if raw := ctx.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			RespondBadRequest(ctx, "limit must be a positive integer")
			return
		}
		limit = n
	}

	items, err := h.svc.List(ctx.Request.Context(), limit)
	if err != nil {
		h.log.ErrorContext(ctx.Request.Context(), "List error", "err", err, "request_id", middlewares.RequestIDFrom(ctx))
		RespondInternal(ctx, MsgTallyFailed)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"count": len(items),
		"items": items,
	})
}
