// Package domain defines games, rooms and multiplayer sessions.
package domain

import (
	"time"

	"github.com/bscit-05-39008695/gamehub/pkg/apperr"
)

// Game is a playable game in the catalog.
type Game struct {
	GameID     int64     `gorm:"column:game_id;primaryKey;autoIncrement" json:"game_id"`
	Code       string    `gorm:"column:code;type:varchar(64);uniqueIndex;not null" json:"code"`
	GameName   string    `gorm:"column:game_name;type:varchar(128);not null" json:"game_name"`
	GameType   string    `gorm:"column:game_type;type:varchar(32);not null" json:"game_type"`
	MaxPlayers int       `gorm:"column:max_players;not null;default:1" json:"max_players"`
	Status     string    `gorm:"column:status;type:varchar(16);not null;default:'active'" json:"status"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for Game.
func (Game) TableName() string {
	return "games"
}

// Game type constants.
const (
	GameTypeMultiplayer = "multiplayer"
	GameTypeSingle      = "single"
)

// Well-known game codes seeded at startup.
const (
	GameCodeRoulette = "russian_roulette"
	GameCodeSpin     = "spin_and_win"
)

// Room groups players for one multiplayer game.
type Room struct {
	RoomID    int64     `gorm:"column:room_id;primaryKey;autoIncrement" json:"room_id"`
	GameID    int64     `gorm:"column:game_id;index;not null" json:"game_id"`
	RoomName  string    `gorm:"column:room_name;type:varchar(128);not null" json:"room_name"`
	Status    string    `gorm:"column:status;type:varchar(16);not null;default:'open'" json:"status"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for Room.
func (Room) TableName() string {
	return "rooms"
}

// Room status constants.
const (
	RoomStatusOpen      = "open"
	RoomStatusPlaying   = "playing"
	RoomStatusCompleted = "completed"
)

// Multiplayer is one shared play of a multiplayer game inside a room.
// GameID is denormalized from the room so lookups in the hot path skip
// a join.
type Multiplayer struct {
	MultiplayerID int64      `gorm:"column:multiplayer_id;primaryKey;autoIncrement" json:"multiplayer_id"`
	RoomID        int64      `gorm:"column:room_id;index;not null" json:"room_id"`
	GameID        int64      `gorm:"column:game_id;index;not null" json:"game_id"`
	Status        string     `gorm:"column:status;type:varchar(16);not null;default:'waiting'" json:"status"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	StartedAt     *time.Time `gorm:"column:started_at" json:"started_at,omitempty"`
	CompletedAt   *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`
}

// TableName specifies the table name for Multiplayer.
func (Multiplayer) TableName() string {
	return "multiplayer_sessions"
}

// Multiplayer status constants.
const (
	MultiplayerStatusWaiting   = "waiting"
	MultiplayerStatusReady     = "ready"
	MultiplayerStatusActive    = "active"
	MultiplayerStatusCompleted = "completed"
	MultiplayerStatusAbandoned = "abandoned"
)

// GameSession records one user's participation in one game, single or
// multiplayer.
type GameSession struct {
	SessionID     int64      `gorm:"column:session_id;primaryKey;autoIncrement" json:"session_id"`
	UserID        int64      `gorm:"column:user_id;index;not null" json:"user_id"`
	GameID        int64      `gorm:"column:game_id;index;not null" json:"game_id"`
	MultiplayerID *int64     `gorm:"column:multiplayer_id;index" json:"multiplayer_id,omitempty"`
	Status        string     `gorm:"column:status;type:varchar(16);not null;default:'active'" json:"status"`
	JoinedAt      time.Time  `gorm:"column:joined_at;autoCreateTime" json:"joined_at"`
	LeftAt        *time.Time `gorm:"column:left_at" json:"left_at,omitempty"`
}

// TableName specifies the table name for GameSession.
func (GameSession) TableName() string {
	return "game_sessions"
}

// Game session status constants.
const (
	SessionStatusActive    = "active"
	SessionStatusCompleted = "completed"
	SessionStatusLeft      = "left"
)

// Domain errors.
var (
	ErrGameNotFound    = apperr.New(apperr.CodeNotFound, "game not found")
	ErrRoomNotFound    = apperr.New(apperr.CodeNotFound, "room not found")
	ErrNoActiveSession = apperr.New(apperr.CodeNotFound, "no active game session")
	ErrAlreadyJoined   = apperr.New(apperr.CodeInvalidState, "already in an active game")
	ErrGameFull        = apperr.New(apperr.CodeInvalidState, "game is full")
)
