package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/bscit-05-39008695/gamehub/internal/modules/room/domain"
)

// GameSessionRepository handles per-user game participation records.
type GameSessionRepository struct {
	db *gorm.DB
}

// NewGameSessionRepository creates a new game session repository.
func NewGameSessionRepository(db *gorm.DB) *GameSessionRepository {
	return &GameSessionRepository{db: db}
}

// Create inserts a new game session.
func (r *GameSessionRepository) Create(ctx context.Context, session *domain.GameSession) error {
	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		return fmt.Errorf("failed to create game session: %w", err)
	}
	return nil
}

// FindActive returns the user's active session in the given
// multiplayer game, or nil when there is none.
func (r *GameSessionRepository) FindActive(ctx context.Context, userID, multiplayerID int64) (*domain.GameSession, error) {
	var session domain.GameSession
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND multiplayer_id = ? AND status = ?", userID, multiplayerID, domain.SessionStatusActive).
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	return &session, nil
}

// FindAnyActiveMultiplayer returns the user's active session in any
// multiplayer game, or nil when there is none.
func (r *GameSessionRepository) FindAnyActiveMultiplayer(ctx context.Context, userID int64) (*domain.GameSession, error) {
	var session domain.GameSession
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ? AND multiplayer_id IS NOT NULL", userID, domain.SessionStatusActive).
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	return &session, nil
}

// CountActive counts active participants in a multiplayer game.
func (r *GameSessionRepository) CountActive(ctx context.Context, multiplayerID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.GameSession{}).
		Where("multiplayer_id = ? AND status = ?", multiplayerID, domain.SessionStatusActive).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}
	return count, nil
}

// ActiveUserIDs lists the user IDs of active participants in a
// multiplayer game.
func (r *GameSessionRepository) ActiveUserIDs(ctx context.Context, multiplayerID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&domain.GameSession{}).
		Where("multiplayer_id = ? AND status = ?", multiplayerID, domain.SessionStatusActive).
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	return ids, nil
}

// MarkLeft marks the session as left and stamps left_at.
func (r *GameSessionRepository) MarkLeft(ctx context.Context, sessionID int64) error {
	now := time.Now()
	if err := r.db.WithContext(ctx).Model(&domain.GameSession{}).
		Where("session_id = ?", sessionID).
		Updates(map[string]interface{}{"status": domain.SessionStatusLeft, "left_at": &now}).Error; err != nil {
		return fmt.Errorf("failed to mark session left: %w", err)
	}
	return nil
}

// CompleteAllForMultiplayer marks every active session in the
// multiplayer game completed, inside the caller's transaction.
func (r *GameSessionRepository) CompleteAllForMultiplayer(ctx context.Context, tx *gorm.DB, multiplayerID int64) error {
	now := time.Now()
	if err := tx.WithContext(ctx).Model(&domain.GameSession{}).
		Where("multiplayer_id = ? AND status = ?", multiplayerID, domain.SessionStatusActive).
		Updates(map[string]interface{}{"status": domain.SessionStatusCompleted, "left_at": &now}).Error; err != nil {
		return fmt.Errorf("failed to complete sessions: %w", err)
	}
	return nil
}
