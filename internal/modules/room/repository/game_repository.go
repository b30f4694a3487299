// Package repository provides data access for games, rooms and
// multiplayer sessions.
package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/bscit-05-39008695/gamehub/internal/modules/room/domain"
)

// GameRepository handles game catalog data access.
type GameRepository struct {
	db *gorm.DB
}

// NewGameRepository creates a new game repository.
func NewGameRepository(db *gorm.DB) *GameRepository {
	return &GameRepository{db: db}
}

// GetByID retrieves a game by ID.
func (r *GameRepository) GetByID(ctx context.Context, gameID int64) (*domain.Game, error) {
	var game domain.Game
	if err := r.db.WithContext(ctx).Where("game_id = ?", gameID).First(&game).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	return &game, nil
}

// GetByCode retrieves a game by its unique code.
func (r *GameRepository) GetByCode(ctx context.Context, code string) (*domain.Game, error) {
	var game domain.Game
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&game).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	return &game, nil
}

// ListActive lists all active games in the catalog.
func (r *GameRepository) ListActive(ctx context.Context) ([]domain.Game, error) {
	var games []domain.Game
	if err := r.db.WithContext(ctx).Where("status = ?", "active").Order("game_id").Find(&games).Error; err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	return games, nil
}

// Seed inserts a game if no game with the same code exists.
func (r *GameRepository) Seed(ctx context.Context, game *domain.Game) error {
	var existing domain.Game
	err := r.db.WithContext(ctx).Where("code = ?", game.Code).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check game: %w", err)
	}
	if err := r.db.WithContext(ctx).Create(game).Error; err != nil {
		return fmt.Errorf("failed to seed game: %w", err)
	}
	return nil
}
