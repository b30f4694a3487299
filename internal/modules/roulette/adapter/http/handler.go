// Package http exposes the trigger pull endpoint.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bscit-05-39008695/gamehub/internal/modules/roulette/usecase"
	userhttp "github.com/bscit-05-39008695/gamehub/internal/modules/user/adapter/http"
	"github.com/bscit-05-39008695/gamehub/pkg/apperr"
)

// Handler handles roulette HTTP requests.
type Handler struct {
	svc *usecase.RouletteUseCase
}

// NewHandler creates a new roulette HTTP handler.
func NewHandler(svc *usecase.RouletteUseCase) *Handler {
	return &Handler{svc: svc}
}

type pullTriggerRequest struct {
	RouletteID int64 `json:"roulette_id" binding:"required"`
}

// PullTrigger fires the current chamber for the caller.
func (h *Handler) PullTrigger(c *gin.Context) {
	var req pullTriggerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Abort(c, apperr.New(apperr.CodeValidation, "missing roulette_id"))
		return
	}

	userID := c.GetInt64(userhttp.ContextUserID)

	result, err := h.svc.PullTrigger(c.Request.Context(), userID, req.RouletteID)
	if err != nil {
		apperr.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
