package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/bscit-05-39008695/gamehub/internal/modules/room/domain"
)

// MultiplayerRepository handles multiplayer session data access.
type MultiplayerRepository struct {
	db *gorm.DB
}

// NewMultiplayerRepository creates a new multiplayer repository.
func NewMultiplayerRepository(db *gorm.DB) *MultiplayerRepository {
	return &MultiplayerRepository{db: db}
}

// Create inserts a new multiplayer session.
func (r *MultiplayerRepository) Create(ctx context.Context, mp *domain.Multiplayer) error {
	if err := r.db.WithContext(ctx).Create(mp).Error; err != nil {
		return fmt.Errorf("failed to create multiplayer session: %w", err)
	}
	return nil
}

// GetByID retrieves a multiplayer session by ID.
func (r *MultiplayerRepository) GetByID(ctx context.Context, multiplayerID int64) (*domain.Multiplayer, error) {
	var mp domain.Multiplayer
	if err := r.db.WithContext(ctx).Where("multiplayer_id = ?", multiplayerID).First(&mp).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNoActiveSession
		}
		return nil, fmt.Errorf("failed to get multiplayer session: %w", err)
	}
	return &mp, nil
}

// FindWaitingByGame returns the oldest joinable multiplayer session for
// the given game, or nil when none is waiting.
func (r *MultiplayerRepository) FindWaitingByGame(ctx context.Context, gameID int64) (*domain.Multiplayer, error) {
	var mp domain.Multiplayer
	err := r.db.WithContext(ctx).
		Where("game_id = ? AND status = ?", gameID, domain.MultiplayerStatusWaiting).
		Order("multiplayer_id").
		First(&mp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find waiting session: %w", err)
	}
	return &mp, nil
}

// UpdateStatus sets the session status, stamping started or completed
// times as appropriate.
func (r *MultiplayerRepository) UpdateStatus(ctx context.Context, multiplayerID int64, status string) error {
	return r.UpdateStatusIn(ctx, r.db, multiplayerID, status)
}

// UpdateStatusIn is UpdateStatus inside the caller's transaction.
func (r *MultiplayerRepository) UpdateStatusIn(ctx context.Context, tx *gorm.DB, multiplayerID int64, status string) error {
	updates := map[string]interface{}{"status": status}
	now := time.Now()
	switch status {
	case domain.MultiplayerStatusActive:
		updates["started_at"] = &now
	case domain.MultiplayerStatusCompleted, domain.MultiplayerStatusAbandoned:
		updates["completed_at"] = &now
	}
	if err := tx.WithContext(ctx).Model(&domain.Multiplayer{}).
		Where("multiplayer_id = ?", multiplayerID).
		Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to update session status: %w", err)
	}
	return nil
}
