package service

import (
	"context"

	eventsdomain "github.com/bscit-05-39008695/gamehub/internal/modules/events/domain"
)

// EventService pushes events to connected players. Delivery is
// best-effort: users without an open event stream silently miss events.
type EventService interface {
	// BroadcastToGame enqueues the event for every user holding an
	// active membership in the game.
	BroadcastToGame(ctx context.Context, gameID int64, event eventsdomain.Event)
	// SendToUser enqueues the event for one user.
	SendToUser(ctx context.Context, userID int64, event eventsdomain.Event)
}
