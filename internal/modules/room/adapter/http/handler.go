// Package http exposes room and matchmaking endpoints.
package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bscit-05-39008695/gamehub/internal/modules/room/usecase"
	userhttp "github.com/bscit-05-39008695/gamehub/internal/modules/user/adapter/http"
	"github.com/bscit-05-39008695/gamehub/pkg/apperr"
)

// Handler handles room HTTP requests.
type Handler struct {
	svc *usecase.RoomUseCase
}

// NewHandler creates a new room HTTP handler.
func NewHandler(svc *usecase.RoomUseCase) *Handler {
	return &Handler{svc: svc}
}

type createRoomRequest struct {
	GameID   int64  `json:"game_id"`
	RoomName string `json:"room_name"`
}

// CreateRoom creates a fresh room and joins the caller into it.
func (h *Handler) CreateRoom(c *gin.Context) {
	var req createRoomRequest
	// Body is optional, the default game is russian roulette.
	_ = c.ShouldBindJSON(&req)

	userID := c.GetInt64(userhttp.ContextUserID)

	gameID, err := h.resolveGame(c, req.GameID)
	if err != nil {
		apperr.Abort(c, err)
		return
	}

	result, err := h.svc.CreateRoom(c.Request.Context(), userID, gameID, req.RoomName)
	if err != nil {
		apperr.Abort(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

type joinRequest struct {
	GameID int64 `json:"game_id"`
}

// Join matches the caller into a waiting game, creating one when
// nothing is waiting.
func (h *Handler) Join(c *gin.Context) {
	var req joinRequest
	_ = c.ShouldBindJSON(&req)

	userID := c.GetInt64(userhttp.ContextUserID)

	gameID, err := h.resolveGame(c, req.GameID)
	if err != nil {
		apperr.Abort(c, err)
		return
	}

	result, err := h.svc.Join(c.Request.Context(), userID, gameID)
	if err != nil {
		apperr.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Leave removes the caller from their active game.
func (h *Handler) Leave(c *gin.Context) {
	userID := c.GetInt64(userhttp.ContextUserID)

	if err := h.svc.Leave(c.Request.Context(), userID); err != nil {
		apperr.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "left"})
}

func (h *Handler) resolveGame(c *gin.Context, gameID int64) (int64, error) {
	if gameID != 0 {
		return gameID, nil
	}
	return h.svc.DefaultGameID(c.Request.Context())
}

// Status reports the state of one multiplayer game.
func (h *Handler) Status(c *gin.Context) {
	gameID, err := strconv.ParseInt(c.Param("game_id"), 10, 64)
	if err != nil {
		apperr.Abort(c, apperr.New(apperr.CodeValidation, "invalid game id"))
		return
	}

	result, svcErr := h.svc.Status(c.Request.Context(), gameID)
	if svcErr != nil {
		apperr.Abort(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, result)
}
