package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ssagnay/invitation/internal/domain/rsvp"
	"github.com/ssagnay/invitation/internal/http/middlewares"
)

const (
	MsgSubmitFailed = "Error al registrar. Intenta de nuevo."
	MsgTallyFailed  = "Error al obtener datos."
)

type RSVPService interface {
	Submit(ctx context.Context, req rsvp.CreateRequest) (string, error)
	Tally(ctx context.Context) (int64, error)
}

type RSVPHandler struct {
	svc RSVPService
	log *slog.Logger
}

func NewRSVPHandler(svc RSVPService, log *slog.Logger) *RSVPHandler {
	return &RSVPHandler{svc: svc, log: log}
}

// Confirm handles POST /api/rsvp.
func (h *RSVPHandler) Confirm(ctx *gin.Context) {
	var req rsvp.CreateRequest

	if bErr := bindJSON(ctx, &req); bErr != nil {
		if bErr.Kind == bindTooLarge {
			RespondTooLarge(ctx)
			return
		}

		// any shape failure is a name failure as far as the guest is concerned
		h.log.DebugContext(ctx.Request.Context(), "rsvp rejected",
			"reason", bErr.Kind, "field", bErr.Field, "request_id", middlewares.RequestIDFrom(ctx))
		RespondBadRequest(ctx, rsvp.MsgInvalidName)
		return
	}

	id, err := h.svc.Submit(ctx.Request.Context(), req)
	if err != nil {
		var vErr *rsvp.ValidationError
		switch {
		case errors.As(err, &vErr):
			h.log.DebugContext(ctx.Request.Context(), "rsvp rejected",
				"reason", vErr.Rule, "field", vErr.Field, "request_id", middlewares.RequestIDFrom(ctx))
			RespondBadRequest(ctx, vErr.Message())
		default:
			h.logFailure(ctx, "RSVP error", err)
			RespondInternal(ctx, MsgSubmitFailed)
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"id":      id,
	})
}

// Count handles GET /api/rsvp.
func (h *RSVPHandler) Count(ctx *gin.Context) {
	n, err := h.svc.Tally(ctx.Request.Context())
	if err != nil {
		h.logFailure(ctx, "Count error", err)
		RespondInternal(ctx, MsgTallyFailed)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"count": n})
}

func (h *RSVPHandler) logFailure(ctx *gin.Context, msg string, err error) {
	attrs := []any{"err", err, "request_id", middlewares.RequestIDFrom(ctx)}

	var pErr *rsvp.PersistenceError
	if errors.As(err, &pErr) {
		attrs = append(attrs, "op", pErr.Op)
	}

	h.log.ErrorContext(ctx.Request.Context(), msg, attrs...)
}
