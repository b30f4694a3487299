// Package http exposes betting endpoints.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bscit-05-39008695/gamehub/internal/modules/betting/usecase"
	userhttp "github.com/bscit-05-39008695/gamehub/internal/modules/user/adapter/http"
	"github.com/bscit-05-39008695/gamehub/pkg/apperr"
)

// Handler handles betting HTTP requests.
type Handler struct {
	svc *usecase.BettingUseCase
}

// NewHandler creates a new betting HTTP handler.
func NewHandler(svc *usecase.BettingUseCase) *Handler {
	return &Handler{svc: svc}
}

type placeBetRequest struct {
	RouletteID int64   `json:"roulette_id" binding:"required"`
	BetAmount  float64 `json:"bet_amount" binding:"required"`
	BetType    string  `json:"bet_type" binding:"required"`
}

// PlaceBet stakes an amount on a roulette round.
func (h *Handler) PlaceBet(c *gin.Context) {
	var req placeBetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Abort(c, apperr.New(apperr.CodeValidation, "missing roulette_id, bet_amount or bet_type"))
		return
	}

	userID := c.GetInt64(userhttp.ContextUserID)

	result, err := h.svc.PlaceBet(c.Request.Context(), userID, req.RouletteID, req.BetAmount, req.BetType)
	if err != nil {
		apperr.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// History returns the caller's most recent bets.
func (h *Handler) History(c *gin.Context) {
	userID := c.GetInt64(userhttp.ContextUserID)

	rows, err := h.svc.History(c.Request.Context(), userID)
	if err != nil {
		apperr.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bets": rows})
}

// Stats returns the caller's aggregated bet results.
func (h *Handler) Stats(c *gin.Context) {
	userID := c.GetInt64(userhttp.ContextUserID)

	stats, err := h.svc.Stats(c.Request.Context(), userID)
	if err != nil {
		apperr.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
