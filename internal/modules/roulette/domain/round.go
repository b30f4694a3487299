// Package domain defines the russian roulette round and its firing
// rules.
package domain

import (
	"time"

	"github.com/bscit-05-39008695/gamehub/pkg/apperr"
)

// Chambers is the number of chambers in the revolver.
const Chambers = 6

// Round is one revolver cycle shared by all players in a multiplayer
// game. CurrentPosition is the chamber the next trigger pull fires,
// starting at 1.
type Round struct {
	RoundID         int64      `gorm:"column:round_id;primaryKey;autoIncrement" json:"round_id"`
	MultiplayerID   int64      `gorm:"column:multiplayer_id;index;not null" json:"game_id"`
	BulletPosition  int        `gorm:"column:bullet_position;not null" json:"-"`
	CurrentPosition int        `gorm:"column:current_position;not null;default:1" json:"current_position"`
	Status          string     `gorm:"column:status;type:varchar(16);not null;default:'active'" json:"status"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	CompletedAt     *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`
}

// TableName specifies the table name for Round.
func (Round) TableName() string {
	return "roulette_rounds"
}

// Round status constants.
const (
	RoundStatusActive    = "active"
	RoundStatusCompleted = "completed"
)

// Fire pulls the trigger on the current chamber and advances the
// cylinder. It returns whether the chamber held the bullet, whether
// the round is over, and the chamber position that was fired. The
// round is over once the bullet fires or the cylinder is exhausted.
func (r *Round) Fire() (hit bool, over bool, position int) {
	position = r.CurrentPosition
	hit = position == r.BulletPosition
	r.CurrentPosition++
	over = hit || r.CurrentPosition > Chambers
	return hit, over, position
}

// Domain errors.
var (
	ErrRoundNotFound   = apperr.New(apperr.CodeNotFound, "round not found")
	ErrRoundNotActive  = apperr.New(apperr.CodeInvalidState, "round is not active")
	ErrSessionNotReady = apperr.New(apperr.CodeInvalidState, "game is not ready to start")
	ErrNotInGame       = apperr.New(apperr.CodeInvalidState, "player is not in this game")
)
