package usecase

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bscit-05-39008695/gamehub/internal/modules/events/domain"
)

type stubResolver struct {
	members map[int64][]int64
}

func (r *stubResolver) ActiveUserIDs(_ context.Context, gameID int64) ([]int64, error) {
	return r.members[gameID], nil
}

func TestSendToUserReachesAllConnections(t *testing.T) {
	bus := NewBus(&stubResolver{})

	first := bus.Subscribe(7)
	second := bus.Subscribe(7)
	other := bus.Subscribe(8)

	bus.SendToUser(context.Background(), 7, domain.Event{Type: domain.TypeConnected})

	assert.Len(t, first.C, 1)
	assert.Len(t, second.C, 1)
	assert.Len(t, other.C, 0)
}

func TestBroadcastToGameFansOutToMembers(t *testing.T) {
	resolver := &stubResolver{members: map[int64][]int64{42: {1, 2}}}
	bus := NewBus(resolver)

	alice := bus.Subscribe(1)
	bob := bus.Subscribe(2)
	outsider := bus.Subscribe(3)

	bus.BroadcastToGame(context.Background(), 42, domain.Event{Type: domain.TypeGameStarted})

	require.Len(t, alice.C, 1)
	assert.Equal(t, domain.TypeGameStarted, (<-alice.C).Type)
	assert.Len(t, bob.C, 1)
	assert.Len(t, outsider.C, 0)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	bus := NewBus(&stubResolver{})

	sub := bus.Subscribe(5)
	bus.Unsubscribe(sub)

	bus.SendToUser(context.Background(), 5, domain.Event{Type: domain.TypeHeartbeat})

	assert.Len(t, sub.C, 0)
}

func TestFullQueueDropsOldest(t *testing.T) {
	bus := NewBus(&stubResolver{})
	sub := bus.Subscribe(9)
	ctx := context.Background()

	for i := 0; i <= queueSize; i++ {
		bus.SendToUser(ctx, 9, domain.Event{
			Type:   domain.TypeGameStatus,
			Fields: map[string]interface{}{"seq": fmt.Sprintf("%d", i)},
		})
	}

	require.Len(t, sub.C, queueSize)

	// Event 0 was dropped to make room for the newest one.
	first := <-sub.C
	assert.Equal(t, "1", first.Fields["seq"])

	var last domain.Event
	for len(sub.C) > 0 {
		last = <-sub.C
	}
	assert.Equal(t, fmt.Sprintf("%d", queueSize), last.Fields["seq"])
}
