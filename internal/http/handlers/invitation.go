package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/ssagnay/invitation/internal/domain/invitation"
)

type InvitationHandler struct {
	page staticJSON
}

func NewInvitationHandler(details invitation.Details) (*InvitationHandler, error) {
	page, err := newStaticJSON(details)
	if err != nil {
		return nil, err
	}

	return &InvitationHandler{page: page}, nil
}

// Get handles GET /api/invitation.
func (h *InvitationHandler) Get(ctx *gin.Context) {
	h.page.serve(ctx, "public, max-age=300")
}
