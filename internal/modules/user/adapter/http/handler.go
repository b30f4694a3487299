// Package http exposes the user module over HTTP.
package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bscit-05-39008695/gamehub/internal/modules/user/usecase"
	"github.com/bscit-05-39008695/gamehub/pkg/apperr"
	"github.com/bscit-05-39008695/gamehub/pkg/logger"
)

// Handler handles HTTP requests for the user module.
type Handler struct {
	svc *usecase.UserUseCase
}

// NewHandler creates a new HTTP handler.
func NewHandler(svc *usecase.UserUseCase) *Handler {
	return &Handler{svc: svc}
}

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	Email    string `json:"email" binding:"required,email"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	UserID       int64  `json:"user_id"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    string `json:"expires_at"`
}

// Register handles user registration and returns an initial token pair.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Abort(c, apperr.New(apperr.CodeValidation, "missing required fields"))
		return
	}

	userID, err := h.svc.Register(c.Request.Context(), req.Username, req.Password, req.Email)
	if err != nil {
		apperr.Abort(c, err)
		return
	}

	logger.Info(c.Request.Context()).Int64("user_id", userID).Str("username", req.Username).Msg("user registered")

	_, token, refreshToken, expiresAt, err := h.svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		apperr.Abort(c, err)
		return
	}

	c.JSON(http.StatusCreated, loginResponse{
		UserID:       userID,
		AccessToken:  token,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt.Format(time.RFC3339),
	})
}

// Login handles user login.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Abort(c, apperr.New(apperr.CodeValidation, "missing username or password"))
		return
	}

	userID, token, refreshToken, expiresAt, err := h.svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		apperr.Abort(c, err)
		return
	}

	logger.Info(c.Request.Context()).Int64("user_id", userID).Msg("user logged in")

	c.JSON(http.StatusOK, loginResponse{
		UserID:       userID,
		AccessToken:  token,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt.Format(time.RFC3339),
	})
}

// Logout invalidates the caller's session.
func (h *Handler) Logout(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		apperr.Abort(c, apperr.New(apperr.CodeValidation, "missing token"))
		return
	}

	if err := h.svc.Logout(c.Request.Context(), token); err != nil {
		apperr.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Refresh exchanges a refresh token for a new access token.
func (h *Handler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Abort(c, apperr.New(apperr.CodeValidation, "missing refresh_token"))
		return
	}

	token, expiresAt, err := h.svc.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		apperr.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"expires_at":   expiresAt.Format(time.RFC3339),
	})
}

// Profile returns the authenticated user's account details.
func (h *Handler) Profile(c *gin.Context) {
	userID := c.GetInt64(ContextUserID)

	user, err := h.svc.Profile(c.Request.Context(), userID)
	if err != nil {
		apperr.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":         user.UserID,
		"username":   user.Username,
		"email":      user.Email,
		"balance":    user.Balance,
		"created_at": user.CreatedAt.Format(time.RFC3339),
	})
}

func bearerToken(c *gin.Context) string {
	token := c.GetHeader("Authorization")
	if strings.HasPrefix(token, "Bearer ") {
		return token[7:]
	}
	return ""
}
