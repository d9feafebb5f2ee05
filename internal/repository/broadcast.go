package repository

import (
	"context"
	"errors"

	"sigmat/internal/models"

	"gorm.io/gorm"
)

// BroadcastRepository defines persistence operations for admin broadcasts
// and per-user notifications.
type BroadcastRepository interface {
	CreateBroadcast(ctx context.Context, b *models.Broadcast) error
	GetBroadcast(ctx context.Context, id uint) (*models.Broadcast, error)
	ListBroadcasts(ctx context.Context, activeOnly bool) ([]models.Broadcast, error)
	UpdateBroadcast(ctx context.Context, b *models.Broadcast) error
	DeleteBroadcast(ctx context.Context, id uint) error

	CreateNotification(ctx context.Context, n *models.Notification) error
	ListNotifications(ctx context.Context, userID uint) ([]models.Notification, error)
	MarkNotificationRead(ctx context.Context, userID, id uint) error
	DeleteNotification(ctx context.Context, userID, id uint) error
}

type broadcastRepository struct {
	db *gorm.DB
}

// NewBroadcastRepository returns a new BroadcastRepository implementation.
func NewBroadcastRepository(db *gorm.DB) BroadcastRepository {
	return &broadcastRepository{db: db}
}

func (r *broadcastRepository) CreateBroadcast(ctx context.Context, b *models.Broadcast) error {
	if err := r.db.WithContext(ctx).Create(b).Error; err != nil {
		return translateStoreError(err)
	}
	return nil
}

func (r *broadcastRepository) GetBroadcast(ctx context.Context, id uint) (*models.Broadcast, error) {
	var b models.Broadcast
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Broadcast", id)
		}
		return nil, translateStoreError(err)
	}
	return &b, nil
}

func (r *broadcastRepository) ListBroadcasts(ctx context.Context, activeOnly bool) ([]models.Broadcast, error) {
	var broadcasts []models.Broadcast
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	if err := q.Find(&broadcasts).Error; err != nil {
		return nil, translateStoreError(err)
	}
	return broadcasts, nil
}

func (r *broadcastRepository) UpdateBroadcast(ctx context.Context, b *models.Broadcast) error {
	if err := r.db.WithContext(ctx).Save(b).Error; err != nil {
		return translateStoreError(err)
	}
	return nil
}

func (r *broadcastRepository) DeleteBroadcast(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Broadcast{}, id)
	if res.Error != nil {
		return translateStoreError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Broadcast", id)
	}
	return nil
}

func (r *broadcastRepository) CreateNotification(ctx context.Context, n *models.Notification) error {
	if err := r.db.WithContext(ctx).Create(n).Error; err != nil {
		return translateStoreError(err)
	}
	return nil
}

func (r *broadcastRepository) ListNotifications(ctx context.Context, userID uint) ([]models.Notification, error) {
	var notifications []models.Notification
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&notifications).Error; err != nil {
		return nil, translateStoreError(err)
	}
	return notifications, nil
}

func (r *broadcastRepository) MarkNotificationRead(ctx context.Context, userID, id uint) error {
	res := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read", true)
	if res.Error != nil {
		return translateStoreError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Notification", id)
	}
	return nil
}

func (r *broadcastRepository) DeleteNotification(ctx context.Context, userID, id uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Notification{})
	if res.Error != nil {
		return translateStoreError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Notification", id)
	}
	return nil
}
