// Package domain defines bets and their settlement rules.
package domain

import (
	"context"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"

	"github.com/bscit-05-39008695/gamehub/pkg/apperr"
)

// Bet types.
const (
	TypeSurvival    = "survival"
	TypeElimination = "elimination"
	TypeSpin        = "spin"
)

// Bet statuses.
const (
	StatusActive    = "active"
	StatusCompleted = "completed"
)

// OddsMultiplier is the payout multiplier for a winning roulette bet.
const OddsMultiplier = 2.0

// Bet is one wager placed by a user. Roulette bets carry the round
// they are staked on; spin bets settle immediately and have no round.
type Bet struct {
	BetID     string     `gorm:"column:bet_id;primaryKey;type:varchar(64)" json:"bet_id"`
	UserID    int64      `gorm:"column:user_id;index;not null" json:"user_id"`
	GameID    int64      `gorm:"column:game_id;index;not null" json:"game_id"`
	RoundID   *int64     `gorm:"column:round_id;index" json:"round_id,omitempty"`
	BetAmount float64    `gorm:"column:bet_amount;type:decimal(18,2);not null" json:"bet_amount"`
	WinAmount float64    `gorm:"column:win_amount;type:decimal(18,2);not null;default:0" json:"win_amount"`
	NetResult float64    `gorm:"column:net_result;type:decimal(18,2);not null;default:0" json:"net_result"`
	BetType   string     `gorm:"column:bet_type;type:varchar(20);not null" json:"bet_type"`
	Status    string     `gorm:"column:status;type:varchar(16);not null;default:'active'" json:"status"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	SettledAt *time.Time `gorm:"column:settled_at" json:"settled_at,omitempty"`
}

// TableName specifies the table name for Bet.
func (Bet) TableName() string {
	return "bets"
}

// Settle resolves the bet against the round outcome and returns
// whether the bet won. Survival bets win when the bullet did not fire,
// elimination bets win when it did. Winners are paid the stake times
// the odds multiplier.
func (b *Bet) Settle(isHit bool, now time.Time) bool {
	won := (b.BetType == TypeSurvival && !isHit) || (b.BetType == TypeElimination && isHit)
	if won {
		b.WinAmount = b.BetAmount * OddsMultiplier
	} else {
		b.WinAmount = 0
	}
	b.NetResult = b.WinAmount - b.BetAmount
	b.Status = StatusCompleted
	b.SettledAt = &now
	return won
}

// RoundInfo is the slice of round state betting needs to accept a
// wager.
type RoundInfo struct {
	RoundID int64
	GameID  int64
	Active  bool
}

// RoundResolver looks up a roulette round by id.
type RoundResolver interface {
	RoundByID(ctx context.Context, roundID int64) (*RoundInfo, error)
}

// Domain errors.
var (
	ErrInvalidBetType = apperr.New(apperr.CodeValidation, "invalid bet type")
	ErrBetNotFound    = apperr.New(apperr.CodeNotFound, "bet not found")
)

var (
	node *snowflake.Node
	once sync.Once
)

func initSnowflake() {
	var err error
	node, err = snowflake.NewNode(2)
	if err != nil {
		panic(err)
	}
}

// NewBetID generates a unique bet id.
func NewBetID() string {
	once.Do(initSnowflake)
	return node.Generate().String()
}
