package repository

import (
	"context"
	"errors"

	"sigmat/internal/models"

	"gorm.io/gorm"
)

// PhotoRepository defines persistence operations for gallery photos.
type PhotoRepository interface {
	Create(ctx context.Context, photo *models.GalleryPhoto) error
	GetByID(ctx context.Context, id uint) (*models.GalleryPhoto, error)
	ListByUser(ctx context.Context, userID uint) ([]models.GalleryPhoto, error)
	CountByUser(ctx context.Context, userID uint) (int64, error)
	ListPending(ctx context.Context) ([]models.GalleryPhoto, error)
	Approve(ctx context.Context, id uint) error
	Delete(ctx context.Context, id uint) error
}

type photoRepository struct {
	db *gorm.DB
}

// NewPhotoRepository returns a new PhotoRepository implementation.
func NewPhotoRepository(db *gorm.DB) PhotoRepository {
	return &photoRepository{db: db}
}

func (r *photoRepository) Create(ctx context.Context, photo *models.GalleryPhoto) error {
	if err := r.db.WithContext(ctx).Create(photo).Error; err != nil {
		return translateStoreError(err)
	}
	return nil
}

func (r *photoRepository) GetByID(ctx context.Context, id uint) (*models.GalleryPhoto, error) {
	var photo models.GalleryPhoto
	if err := r.db.WithContext(ctx).First(&photo, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Photo", id)
		}
		return nil, translateStoreError(err)
	}
	return &photo, nil
}

func (r *photoRepository) ListByUser(ctx context.Context, userID uint) ([]models.GalleryPhoto, error) {
	var photos []models.GalleryPhoto
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&photos).Error; err != nil {
		return nil, translateStoreError(err)
	}
	return photos, nil
}

func (r *photoRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.GalleryPhoto{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, translateStoreError(err)
	}
	return count, nil
}

func (r *photoRepository) ListPending(ctx context.Context) ([]models.GalleryPhoto, error) {
	var photos []models.GalleryPhoto
	if err := r.db.WithContext(ctx).
		Where("status = ?", models.PhotoStatusPending).
		Order("created_at ASC").
		Find(&photos).Error; err != nil {
		return nil, translateStoreError(err)
	}
	return photos, nil
}

func (r *photoRepository) Approve(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Model(&models.GalleryPhoto{}).
		Where("id = ?", id).
		Update("status", models.PhotoStatusApproved)
	if res.Error != nil {
		return translateStoreError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Photo", id)
	}
	return nil
}

func (r *photoRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.GalleryPhoto{}, id)
	if res.Error != nil {
		return translateStoreError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Photo", id)
	}
	return nil
}
