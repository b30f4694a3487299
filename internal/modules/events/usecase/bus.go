// Package usecase implements the in-process event bus behind the SSE
// channel.
package usecase

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/bscit-05-39008695/gamehub/internal/modules/events/domain"
	"github.com/bscit-05-39008695/gamehub/pkg/logger"
)

// queueSize bounds each subscriber queue. A full queue drops the
// oldest event so slow consumers never block game progress.
const queueSize = 256

// Subscription is one live SSE connection's event queue.
type Subscription struct {
	ID     string
	UserID int64
	C      chan domain.Event
}

// Bridge fans events out to other instances.
type Bridge interface {
	Publish(ctx context.Context, gameID, userID int64, event domain.Event) error
}

// Bus routes events to subscribed users, locally and across instances
// through an optional bridge.
type Bus struct {
	mu       sync.RWMutex
	subs     map[int64]map[string]*Subscription
	resolver domain.MembershipResolver
	bridge   Bridge
}

// NewBus creates a new event bus.
func NewBus(resolver domain.MembershipResolver) *Bus {
	return &Bus{
		subs:     make(map[int64]map[string]*Subscription),
		resolver: resolver,
	}
}

// SetBridge wires the cross-instance bridge.
func (b *Bus) SetBridge(bridge Bridge) {
	b.bridge = bridge
}

// Subscribe registers a new event queue for the user.
func (b *Bus) Subscribe(userID int64) *Subscription {
	sub := &Subscription{
		ID:     uuid.NewString(),
		UserID: userID,
		C:      make(chan domain.Event, queueSize),
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subs[userID] == nil {
		b.subs[userID] = make(map[string]*Subscription)
	}
	b.subs[userID][sub.ID] = sub
	return sub
}

// Unsubscribe removes the subscription. Its channel is not closed,
// the reader drains on its own context.
func (b *Bus) Unsubscribe(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if userSubs, ok := b.subs[sub.UserID]; ok {
		delete(userSubs, sub.ID)
		if len(userSubs) == 0 {
			delete(b.subs, sub.UserID)
		}
	}
}

// SendToUser delivers the event to every connection of one user.
func (b *Bus) SendToUser(ctx context.Context, userID int64, event domain.Event) {
	b.deliver(userID, event)
	if b.bridge != nil {
		if err := b.bridge.Publish(ctx, 0, userID, event); err != nil {
			logger.Warn(ctx).Err(err).Int64("user_id", userID).Msg("failed to publish event to bridge")
		}
	}
}

// BroadcastToGame delivers the event to every active participant of a
// multiplayer game.
func (b *Bus) BroadcastToGame(ctx context.Context, gameID int64, event domain.Event) {
	userIDs, err := b.resolver.ActiveUserIDs(ctx, gameID)
	if err != nil {
		logger.Warn(ctx).Err(err).Int64("game_id", gameID).Msg("failed to resolve broadcast recipients")
		return
	}
	for _, userID := range userIDs {
		b.deliver(userID, event)
	}
	if b.bridge != nil {
		if err := b.bridge.Publish(ctx, gameID, 0, event); err != nil {
			logger.Warn(ctx).Err(err).Int64("game_id", gameID).Msg("failed to publish event to bridge")
		}
	}
}

// DeliverLocal pushes a bridged event to local subscribers only.
// Either gameID or userID is set, never both.
func (b *Bus) DeliverLocal(ctx context.Context, gameID, userID int64, event domain.Event) {
	if userID != 0 {
		b.deliver(userID, event)
		return
	}
	userIDs, err := b.resolver.ActiveUserIDs(ctx, gameID)
	if err != nil {
		logger.Warn(ctx).Err(err).Int64("game_id", gameID).Msg("failed to resolve bridged recipients")
		return
	}
	for _, id := range userIDs {
		b.deliver(id, event)
	}
}

// deliver enqueues without ever blocking. When a queue is full the
// oldest event is discarded to make room.
func (b *Bus) deliver(userID int64, event domain.Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, sub := range b.subs[userID] {
		select {
		case sub.C <- event:
		default:
			select {
			case <-sub.C:
			default:
			}
			select {
			case sub.C <- event:
			default:
			}
		}
	}
}
