// Package http exposes deposit and withdrawal endpoints.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	userhttp "github.com/bscit-05-39008695/gamehub/internal/modules/user/adapter/http"
	"github.com/bscit-05-39008695/gamehub/internal/modules/wallet/usecase"
	"github.com/bscit-05-39008695/gamehub/pkg/apperr"
)

// Handler handles wallet HTTP requests.
type Handler struct {
	svc *usecase.WalletUseCase
}

// NewHandler creates a new wallet HTTP handler.
func NewHandler(svc *usecase.WalletUseCase) *Handler {
	return &Handler{svc: svc}
}

type amountRequest struct {
	Amount float64 `json:"amount" binding:"required"`
}

// Deposit credits the caller's balance.
func (h *Handler) Deposit(c *gin.Context) {
	var req amountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Abort(c, apperr.New(apperr.CodeValidation, "missing amount"))
		return
	}

	userID := c.GetInt64(userhttp.ContextUserID)

	newBalance, err := h.svc.Deposit(c.Request.Context(), userID, req.Amount)
	if err != nil {
		apperr.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "deposit successful", "new_balance": newBalance})
}

// Balance returns the caller's current balance.
func (h *Handler) Balance(c *gin.Context) {
	userID := c.GetInt64(userhttp.ContextUserID)

	balance, err := h.svc.Balance(c.Request.Context(), userID)
	if err != nil {
		apperr.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"balance": balance})
}

// Transactions returns the caller's recent ledger entries.
func (h *Handler) Transactions(c *gin.Context) {
	userID := c.GetInt64(userhttp.ContextUserID)

	txs, err := h.svc.Transactions(c.Request.Context(), userID)
	if err != nil {
		apperr.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": txs})
}

// Withdraw debits the caller's balance.
func (h *Handler) Withdraw(c *gin.Context) {
	var req amountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Abort(c, apperr.New(apperr.CodeValidation, "missing amount"))
		return
	}

	userID := c.GetInt64(userhttp.ContextUserID)

	newBalance, err := h.svc.Withdraw(c.Request.Context(), userID, req.Amount)
	if err != nil {
		apperr.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "withdrawal successful", "new_balance": newBalance})
}
