// Package redis bridges events between instances over redis pub/sub.
package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/bscit-05-39008695/gamehub/internal/modules/events/domain"
	"github.com/bscit-05-39008695/gamehub/internal/modules/events/usecase"
	"github.com/bscit-05-39008695/gamehub/pkg/logger"
)

// Channel is the pub/sub channel carrying bridged events.
const Channel = "gamehub:events"

type envelope struct {
	Origin string       `json:"origin"`
	GameID int64        `json:"game_id,omitempty"`
	UserID int64        `json:"user_id,omitempty"`
	Event  domain.Event `json:"event"`
}

// Bridge publishes local events to redis and replays remote ones into
// the local bus. Frames tagged with our own origin are skipped so
// events are never delivered twice on the publishing instance.
type Bridge struct {
	client *redis.Client
	bus    *usecase.Bus
	origin string
}

// NewBridge creates a new redis bridge.
func NewBridge(client *redis.Client, bus *usecase.Bus) *Bridge {
	return &Bridge{
		client: client,
		bus:    bus,
		origin: uuid.NewString(),
	}
}

// Publish sends the event to all other instances.
func (b *Bridge) Publish(ctx context.Context, gameID, userID int64, event domain.Event) error {
	payload, err := json.Marshal(envelope{
		Origin: b.origin,
		GameID: gameID,
		UserID: userID,
		Event:  event,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal event envelope: %w", err)
	}
	if err := b.client.Publish(ctx, Channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// Run consumes bridged events until the context is cancelled.
func (b *Bridge) Run(ctx context.Context) {
	pubsub := b.client.Subscribe(ctx, Channel)
	defer pubsub.Close()

	logger.InfoGlobal().Str("channel", Channel).Msg("event bridge started")

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var env envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				logger.WarnGlobal().Err(err).Msg("failed to decode bridged event")
				continue
			}
			if env.Origin == b.origin {
				continue
			}
			b.bus.DeliverLocal(ctx, env.GameID, env.UserID, env.Event)
		}
	}
}
