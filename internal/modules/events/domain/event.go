// Package domain defines the event frames pushed to connected players.
package domain

import (
	"context"
	"encoding/json"
)

// Event types pushed over the event stream.
const (
	TypeConnected     = "connected"
	TypeHeartbeat     = "heartbeat"
	TypeRoomCreated   = "room_created"
	TypeGameStatus    = "game_status"
	TypeGameStarted   = "game_started"
	TypeBetPlaced     = "bet_placed"
	TypeTriggerResult = "trigger_result"
	TypeGameResult    = "game_result"
	TypePlayerLeft    = "player_left"
)

// Event is one server-pushed frame. Fields are flattened next to the
// type on the wire, matching the client contract:
//
//	{"type":"game_status","game_id":3,"players":2,...}
type Event struct {
	Type   string
	Fields map[string]interface{}
}

// New creates an event of the given type.
func New(eventType string, fields map[string]interface{}) Event {
	return Event{Type: eventType, Fields: fields}
}

// MarshalJSON flattens Fields alongside the type discriminator.
func (e Event) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(e.Fields)+1)
	for k, v := range e.Fields {
		out[k] = v
	}
	out["type"] = e.Type
	return json.Marshal(out)
}

// UnmarshalJSON restores an event from its flattened form.
func (e *Event) UnmarshalJSON(data []byte) error {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if t, ok := raw["type"].(string); ok {
		e.Type = t
	}
	delete(raw, "type")
	e.Fields = raw
	return nil
}

// MembershipResolver resolves the users holding an active membership in
// a game, the fan-out target set for BroadcastToGame.
type MembershipResolver interface {
	ActiveUserIDs(ctx context.Context, gameID int64) ([]int64, error)
}
