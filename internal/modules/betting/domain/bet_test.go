package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSettleSurvivalWinsOnMiss(t *testing.T) {
	bet := &Bet{BetAmount: 100, BetType: TypeSurvival, Status: StatusActive}
	now := time.Now()

	won := bet.Settle(false, now)

	assert.True(t, won)
	assert.Equal(t, 200.0, bet.WinAmount)
	assert.Equal(t, 100.0, bet.NetResult)
	assert.Equal(t, StatusCompleted, bet.Status)
	assert.Equal(t, &now, bet.SettledAt)
}

func TestSettleSurvivalLosesOnHit(t *testing.T) {
	bet := &Bet{BetAmount: 100, BetType: TypeSurvival, Status: StatusActive}

	won := bet.Settle(true, time.Now())

	assert.False(t, won)
	assert.Equal(t, 0.0, bet.WinAmount)
	assert.Equal(t, -100.0, bet.NetResult)
	assert.Equal(t, StatusCompleted, bet.Status)
}

func TestSettleEliminationWinsOnHit(t *testing.T) {
	bet := &Bet{BetAmount: 50, BetType: TypeElimination, Status: StatusActive}

	won := bet.Settle(true, time.Now())

	assert.True(t, won)
	assert.Equal(t, 100.0, bet.WinAmount)
	assert.Equal(t, 50.0, bet.NetResult)
}

func TestSettleEliminationLosesOnMiss(t *testing.T) {
	bet := &Bet{BetAmount: 50, BetType: TypeElimination, Status: StatusActive}

	won := bet.Settle(false, time.Now())

	assert.False(t, won)
	assert.Equal(t, 0.0, bet.WinAmount)
	assert.Equal(t, -50.0, bet.NetResult)
}

func TestNewBetIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewBetID()
		assert.False(t, seen[id])
		seen[id] = true
	}
}
