// Package domain defines the spin and win wheel.
package domain

import (
	"time"
)

// Segment is one slice of the wheel: a payout multiplier and the
// probability of landing on it.
type Segment struct {
	Multiplier  float64
	Probability float64
}

// Segments is the wheel layout. Probabilities sum to 1.
var Segments = []Segment{
	{Multiplier: 0, Probability: 0.60},
	{Multiplier: 1, Probability: 0.20},
	{Multiplier: 2, Probability: 0.15},
	{Multiplier: 5, Probability: 0.05},
}

// Draw maps a uniform sample in [0, 1) onto a wheel segment.
func Draw(sample float64) Segment {
	cumulative := 0.0
	for _, seg := range Segments {
		cumulative += seg.Probability
		if sample < cumulative {
			return seg
		}
	}
	return Segments[len(Segments)-1]
}

// SpinResult records one play of the wheel.
type SpinResult struct {
	SpinID     int64     `gorm:"column:spin_id;primaryKey;autoIncrement" json:"spin_id"`
	UserID     int64     `gorm:"column:user_id;index;not null" json:"user_id"`
	BetAmount  float64   `gorm:"column:bet_amount;type:decimal(18,2);not null" json:"bet_amount"`
	Multiplier float64   `gorm:"column:multiplier;type:decimal(6,2);not null" json:"multiplier"`
	WinAmount  float64   `gorm:"column:win_amount;type:decimal(18,2);not null" json:"win_amount"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for SpinResult.
func (SpinResult) TableName() string {
	return "spin_and_win"
}
