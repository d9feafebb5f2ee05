package repository

import (
	"context"
	"errors"

	"sigmat/internal/models"

	"gorm.io/gorm"
)

// PaymentRepository defines persistence operations for points purchases.
type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	GetByID(ctx context.Context, id uint) (*models.Payment, error)
	GetByReference(ctx context.Context, reference string) (*models.Payment, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Payment, error)
	List(ctx context.Context, limit, offset int) ([]models.Payment, error)
	Complete(ctx context.Context, id uint) error
	Delete(ctx context.Context, id uint) error
}

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository returns a new PaymentRepository implementation.
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	if err := r.db.WithContext(ctx).Create(payment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueConstraintError(err) {
			return models.NewDuplicateError("payment reference already exists")
		}
		return translateStoreError(err)
	}
	return nil
}

func (r *paymentRepository) GetByID(ctx context.Context, id uint) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.WithContext(ctx).Preload("User").First(&payment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Payment", id)
		}
		return nil, translateStoreError(err)
	}
	return &payment, nil
}

func (r *paymentRepository) GetByReference(ctx context.Context, reference string) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.WithContext(ctx).Where("reference = ?", reference).First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Payment", reference)
		}
		return nil, translateStoreError(err)
	}
	return &payment, nil
}

func (r *paymentRepository) ListByUser(ctx context.Context, userID uint) ([]models.Payment, error) {
	var payments []models.Payment
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&payments).Error; err != nil {
		return nil, translateStoreError(err)
	}
	return payments, nil
}

func (r *paymentRepository) List(ctx context.Context, limit, offset int) ([]models.Payment, error) {
	var payments []models.Payment
	if err := r.db.WithContext(ctx).
		Preload("User").
		Limit(limit).Offset(offset).
		Order("created_at DESC").
		Find(&payments).Error; err != nil {
		return nil, translateStoreError(err)
	}
	return payments, nil
}

// Complete marks a pending payment completed and credits the purchased
// points in the same transaction. Confirming twice is an invalid state, so
// the points are only credited once.
func (r *paymentRepository) Complete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var payment models.Payment
		if err := tx.First(&payment, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Payment", id)
			}
			return translateStoreError(err)
		}

		res := tx.Model(&models.Payment{}).
			Where("id = ? AND status = ?", id, models.PaymentStatusPending).
			Update("status", models.PaymentStatusCompleted)
		if res.Error != nil {
			return translateStoreError(res.Error)
		}
		if res.RowsAffected == 0 {
			return models.NewInvalidStateError("payment is already " + payment.Status)
		}

		if err := tx.Model(&models.User{}).
			Where("id = ?", payment.UserID).
			Update("points", gorm.Expr("points + ?", payment.Amount)).Error; err != nil {
			return translateStoreError(err)
		}
		return nil
	})
}

func (r *paymentRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Payment{}, id)
	if res.Error != nil {
		return translateStoreError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Payment", id)
	}
	return nil
}
