// Package repository provides data access for spin results.
package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/bscit-05-39008695/gamehub/internal/modules/spin/domain"
)

// SpinRepository handles spin result data access.
type SpinRepository struct {
	db *gorm.DB
}

// NewSpinRepository creates a new spin repository.
func NewSpinRepository(db *gorm.DB) *SpinRepository {
	return &SpinRepository{db: db}
}

// CreateIn inserts a spin result inside the caller's transaction.
func (r *SpinRepository) CreateIn(ctx context.Context, tx *gorm.DB, result *domain.SpinResult) error {
	if err := tx.WithContext(ctx).Create(result).Error; err != nil {
		return fmt.Errorf("failed to create spin result: %w", err)
	}
	return nil
}

// Recent lists the user's most recent spins, newest first.
func (r *SpinRepository) Recent(ctx context.Context, userID int64, limit int) ([]domain.SpinResult, error) {
	var results []domain.SpinResult
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("spin_id DESC").
		Limit(limit).
		Find(&results).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list spins: %w", err)
	}
	return results, nil
}
