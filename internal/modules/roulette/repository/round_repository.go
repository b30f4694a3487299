// Package repository provides data access for roulette rounds.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/bscit-05-39008695/gamehub/internal/modules/roulette/domain"
)

// RoundRepository handles roulette round data access.
type RoundRepository struct {
	db *gorm.DB
}

// NewRoundRepository creates a new round repository.
func NewRoundRepository(db *gorm.DB) *RoundRepository {
	return &RoundRepository{db: db}
}

// Create inserts a new round.
func (r *RoundRepository) Create(ctx context.Context, round *domain.Round) error {
	if err := r.db.WithContext(ctx).Create(round).Error; err != nil {
		return fmt.Errorf("failed to create round: %w", err)
	}
	return nil
}

// GetByID retrieves a round by ID.
func (r *RoundRepository) GetByID(ctx context.Context, roundID int64) (*domain.Round, error) {
	var round domain.Round
	if err := r.db.WithContext(ctx).Where("round_id = ?", roundID).First(&round).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRoundNotFound
		}
		return nil, fmt.Errorf("failed to get round: %w", err)
	}
	return &round, nil
}

// FindActiveByMultiplayer returns the active round of a multiplayer
// game, or nil when there is none.
func (r *RoundRepository) FindActiveByMultiplayer(ctx context.Context, multiplayerID int64) (*domain.Round, error) {
	var round domain.Round
	err := r.db.WithContext(ctx).
		Where("multiplayer_id = ? AND status = ?", multiplayerID, domain.RoundStatusActive).
		Order("round_id DESC").
		First(&round).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find active round: %w", err)
	}
	return &round, nil
}

// SavePosition persists the advanced cylinder position.
func (r *RoundRepository) SavePosition(ctx context.Context, round *domain.Round) error {
	if err := r.db.WithContext(ctx).Model(&domain.Round{}).
		Where("round_id = ?", round.RoundID).
		Update("current_position", round.CurrentPosition).Error; err != nil {
		return fmt.Errorf("failed to save round position: %w", err)
	}
	return nil
}

// CompleteIn marks the round completed inside the caller's
// transaction.
func (r *RoundRepository) CompleteIn(ctx context.Context, tx *gorm.DB, round *domain.Round) error {
	now := time.Now()
	if err := tx.WithContext(ctx).Model(&domain.Round{}).
		Where("round_id = ?", round.RoundID).
		Updates(map[string]interface{}{
			"current_position": round.CurrentPosition,
			"status":           domain.RoundStatusCompleted,
			"completed_at":     &now,
		}).Error; err != nil {
		return fmt.Errorf("failed to complete round: %w", err)
	}
	return nil
}
