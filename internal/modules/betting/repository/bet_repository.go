// Package repository provides data access for bets.
package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/bscit-05-39008695/gamehub/internal/modules/betting/domain"
)

// BetRepository handles bet data access.
type BetRepository struct {
	db *gorm.DB
}

// NewBetRepository creates a new bet repository.
func NewBetRepository(db *gorm.DB) *BetRepository {
	return &BetRepository{db: db}
}

// CreateIn inserts a bet inside the caller's transaction.
func (r *BetRepository) CreateIn(ctx context.Context, tx *gorm.DB, bet *domain.Bet) error {
	if err := tx.WithContext(ctx).Create(bet).Error; err != nil {
		return fmt.Errorf("failed to create bet: %w", err)
	}
	return nil
}

// ActiveByRoundIn lists the active bets staked on a round, inside the
// caller's transaction.
func (r *BetRepository) ActiveByRoundIn(ctx context.Context, tx *gorm.DB, roundID int64) ([]domain.Bet, error) {
	var bets []domain.Bet
	err := tx.WithContext(ctx).
		Where("round_id = ? AND status = ?", roundID, domain.StatusActive).
		Find(&bets).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list round bets: %w", err)
	}
	return bets, nil
}

// SaveIn persists a settled bet inside the caller's transaction.
func (r *BetRepository) SaveIn(ctx context.Context, tx *gorm.DB, bet *domain.Bet) error {
	if err := tx.WithContext(ctx).Model(&domain.Bet{}).
		Where("bet_id = ?", bet.BetID).
		Updates(map[string]interface{}{
			"win_amount": bet.WinAmount,
			"net_result": bet.NetResult,
			"status":     bet.Status,
			"settled_at": bet.SettledAt,
		}).Error; err != nil {
		return fmt.Errorf("failed to save bet: %w", err)
	}
	return nil
}

// History lists the user's most recent bets, newest first.
func (r *BetRepository) History(ctx context.Context, userID int64, limit int) ([]domain.Bet, error) {
	var bets []domain.Bet
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&bets).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load bet history: %w", err)
	}
	return bets, nil
}

// Stats aggregates settled bet outcomes.
type Stats struct {
	TotalBets   int64   `json:"total_bets"`
	TotalStaked float64 `json:"total_staked"`
	TotalWon    float64 `json:"total_won"`
	NetResult   float64 `json:"net_result"`
	Wins        int64   `json:"wins"`
	Losses      int64   `json:"losses"`
}

// StatsForUser aggregates the user's completed bets across all games.
func (r *BetRepository) StatsForUser(ctx context.Context, userID int64) (*Stats, error) {
	var stats Stats
	err := r.db.WithContext(ctx).Model(&domain.Bet{}).
		Select(
			"COUNT(*) AS total_bets, "+
				"COALESCE(SUM(bet_amount), 0) AS total_staked, "+
				"COALESCE(SUM(win_amount), 0) AS total_won, "+
				"COALESCE(SUM(net_result), 0) AS net_result, "+
				"COALESCE(SUM(CASE WHEN win_amount > 0 THEN 1 ELSE 0 END), 0) AS wins, "+
				"COALESCE(SUM(CASE WHEN win_amount = 0 THEN 1 ELSE 0 END), 0) AS losses").
		Where("user_id = ? AND status = ?", userID, domain.StatusCompleted).
		Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load bet stats: %w", err)
	}
	return &stats, nil
}

// GameStats is per-bet-type aggregation for one user.
type GameStats struct {
	BetType     string  `json:"bet_type"`
	TotalBets   int64   `json:"total_bets"`
	TotalStaked float64 `json:"total_staked"`
	TotalWon    float64 `json:"total_won"`
	NetResult   float64 `json:"net_result"`
}

// StatsByType breaks the user's completed bets down by bet type.
func (r *BetRepository) StatsByType(ctx context.Context, userID int64) ([]GameStats, error) {
	var rows []GameStats
	err := r.db.WithContext(ctx).Model(&domain.Bet{}).
		Select(
			"bet_type, "+
				"COUNT(*) AS total_bets, "+
				"COALESCE(SUM(bet_amount), 0) AS total_staked, "+
				"COALESCE(SUM(win_amount), 0) AS total_won, "+
				"COALESCE(SUM(net_result), 0) AS net_result").
		Where("user_id = ? AND status = ?", userID, domain.StatusCompleted).
		Group("bet_type").
		Order("bet_type").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load per-type stats: %w", err)
	}
	return rows, nil
}
