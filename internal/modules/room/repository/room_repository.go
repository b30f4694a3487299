package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/bscit-05-39008695/gamehub/internal/modules/room/domain"
)

// RoomRepository handles room data access.
type RoomRepository struct {
	db *gorm.DB
}

// NewRoomRepository creates a new room repository.
func NewRoomRepository(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// Create inserts a new room.
func (r *RoomRepository) Create(ctx context.Context, room *domain.Room) error {
	if err := r.db.WithContext(ctx).Create(room).Error; err != nil {
		return fmt.Errorf("failed to create room: %w", err)
	}
	return nil
}

// GetByID retrieves a room by ID.
func (r *RoomRepository) GetByID(ctx context.Context, roomID int64) (*domain.Room, error) {
	var room domain.Room
	if err := r.db.WithContext(ctx).Where("room_id = ?", roomID).First(&room).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	return &room, nil
}

// UpdateStatus sets the room status.
func (r *RoomRepository) UpdateStatus(ctx context.Context, roomID int64, status string) error {
	if err := r.db.WithContext(ctx).Model(&domain.Room{}).
		Where("room_id = ?", roomID).
		Update("status", status).Error; err != nil {
		return fmt.Errorf("failed to update room status: %w", err)
	}
	return nil
}

// UpdateStatusIn sets the room status inside the caller's transaction.
func (r *RoomRepository) UpdateStatusIn(ctx context.Context, tx *gorm.DB, roomID int64, status string) error {
	if err := tx.WithContext(ctx).Model(&domain.Room{}).
		Where("room_id = ?", roomID).
		Update("status", status).Error; err != nil {
		return fmt.Errorf("failed to update room status: %w", err)
	}
	return nil
}
