// Package http streams events to clients over SSE.
package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bscit-05-39008695/gamehub/internal/modules/events/domain"
	"github.com/bscit-05-39008695/gamehub/internal/modules/events/usecase"
	userhttp "github.com/bscit-05-39008695/gamehub/internal/modules/user/adapter/http"
	"github.com/bscit-05-39008695/gamehub/pkg/logger"
)

// heartbeatInterval keeps idle SSE connections alive through proxies.
// A var so tests can shorten it.
var heartbeatInterval = 30 * time.Second

// Handler serves the SSE event stream.
type Handler struct {
	bus *usecase.Bus
}

// NewHandler creates a new events HTTP handler.
func NewHandler(bus *usecase.Bus) *Handler {
	return &Handler{bus: bus}
}

// Stream holds the connection open and pushes the caller's events as
// SSE frames until the client disconnects.
func (h *Handler) Stream(c *gin.Context) {
	userID := c.GetInt64(userhttp.ContextUserID)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Writer.WriteHeader(http.StatusOK)

	sub := h.bus.Subscribe(userID)
	defer h.bus.Unsubscribe(sub)

	ctx := c.Request.Context()

	writeFrame(c, domain.Event{
		Type:   domain.TypeConnected,
		Fields: map[string]interface{}{"user_id": userID},
	})

	logger.Info(ctx).Int64("user_id", userID).Str("subscription_id", sub.ID).Msg("sse client connected")

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx).Int64("user_id", userID).Msg("sse client disconnected")
			return
		case event := <-sub.C:
			if !writeFrame(c, event) {
				return
			}
		case <-heartbeat.C:
			ok := writeFrame(c, domain.Event{
				Type:   domain.TypeHeartbeat,
				Fields: map[string]interface{}{"time": time.Now().Unix()},
			})
			if !ok {
				return
			}
		}
	}
}

func writeFrame(c *gin.Context, event domain.Event) bool {
	payload, err := json.Marshal(event)
	if err != nil {
		logger.WarnGlobal().Err(err).Str("type", event.Type).Msg("failed to marshal sse event")
		return true
	}
	if _, err := fmt.Fprintf(c.Writer, "data: %s\n\n", payload); err != nil {
		return false
	}
	c.Writer.Flush()
	return true
}
