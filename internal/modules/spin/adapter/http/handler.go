// Package http exposes the spin and win endpoint.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bscit-05-39008695/gamehub/internal/modules/spin/usecase"
	userhttp "github.com/bscit-05-39008695/gamehub/internal/modules/user/adapter/http"
	"github.com/bscit-05-39008695/gamehub/pkg/apperr"
)

// Handler handles spin HTTP requests.
type Handler struct {
	svc *usecase.SpinUseCase
}

// NewHandler creates a new spin HTTP handler.
func NewHandler(svc *usecase.SpinUseCase) *Handler {
	return &Handler{svc: svc}
}

type playRequest struct {
	BetAmount float64 `json:"bet_amount" binding:"required"`
}

// Play spins the wheel for the caller.
func (h *Handler) Play(c *gin.Context) {
	var req playRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Abort(c, apperr.New(apperr.CodeValidation, "missing bet_amount"))
		return
	}

	userID := c.GetInt64(userhttp.ContextUserID)

	result, err := h.svc.Play(c.Request.Context(), userID, req.BetAmount)
	if err != nil {
		apperr.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Recent returns the caller's latest spins.
func (h *Handler) Recent(c *gin.Context) {
	userID := c.GetInt64(userhttp.ContextUserID)

	results, err := h.svc.Recent(c.Request.Context(), userID)
	if err != nil {
		apperr.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"spins": results})
}
