package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"
	"strings"

	"sigmat/internal/cache"
	"sigmat/internal/models"

	"gorm.io/gorm"
)

// SearchFilter narrows the member directory. Zero values mean "no filter".
type SearchFilter struct {
	City   string
	Gender string
	MinAge int
	MaxAge int
	Limit  int
	Offset int
}

// UserRepository defines persistence operations for users and blocks.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByIDWithGallery(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, limit, offset int) ([]models.User, error)
	Search(ctx context.Context, viewerID uint, filter SearchFilter) ([]models.User, error)
	AddPoints(ctx context.Context, userID uint, delta int) error

	CreateBlock(ctx context.Context, blockerID, blockedID uint) error
	RemoveBlock(ctx context.Context, blockerID, blockedID uint) error
	BlockExists(ctx context.Context, userID1, userID2 uint) (bool, error)
	BlockedBy(ctx context.Context, blockerID uint) ([]models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	key := cache.UserKey(id)

	err := cache.Aside(ctx, key, &user, cache.UserTTL, func() error {
		if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("User", id)
			}
			return translateStoreError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByIDWithGallery(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).
		Preload("Gallery", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", id)
		}
		return nil, translateStoreError(err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, translateStoreError(err)
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueConstraintError(err) {
			return models.NewValidationError("Email already registered")
		}
		return translateStoreError(err)
	}
	return nil
}

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	// PostgreSQL unique violation SQLSTATE 23505
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}

// translateStoreError maps a database error onto the application taxonomy.
// Connectivity failures become STORE_UNAVAILABLE so callers know the
// operation may be retried; everything else is an internal error.
func translateStoreError(err error) *models.AppError {
	if isStoreUnavailable(err) {
		return models.NewStoreUnavailableError(err)
	}
	return models.NewInternalError(err)
}

// isStoreUnavailable reports whether err is a connectivity-class failure
// rather than a query-level one.
func isStoreUnavailable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	msg := strings.ToLower(err.Error())
	// PostgreSQL connection exception class is SQLSTATE 08xxx.
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "bad connection") ||
		strings.Contains(msg, "database is closed") ||
		strings.Contains(msg, "sqlstate 08")
}

// asAppError passes application errors through untouched and translates
// anything else, typically a failed transaction begin or commit.
func asAppError(err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return translateStoreError(err)
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return translateStoreError(err)
	}
	cache.InvalidateUser(ctx, user.ID)
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.User{}, id).Error; err != nil {
		return translateStoreError(err)
	}
	cache.InvalidateUser(ctx, id)
	return nil
}

func (r *userRepository) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Limit(limit).Offset(offset).Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, translateStoreError(err)
	}
	return users, nil
}

// Search returns active members matching the filter, excluding the viewer
// and anyone with a block in either direction.
func (r *userRepository) Search(ctx context.Context, viewerID uint, filter SearchFilter) ([]models.User, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}

	q := r.db.WithContext(ctx).
		Where("users.id != ?", viewerID).
		Where("users.status = ?", models.UserStatusActive).
		Where("users.id NOT IN (?)",
			r.db.Model(&models.UserBlock{}).Select("blocked_id").Where("blocker_id = ?", viewerID)).
		Where("users.id NOT IN (?)",
			r.db.Model(&models.UserBlock{}).Select("blocker_id").Where("blocked_id = ?", viewerID))

	if filter.City != "" {
		q = q.Where("LOWER(users.city) LIKE ?", "%"+strings.ToLower(filter.City)+"%")
	}
	if filter.Gender != "" {
		q = q.Where("users.gender = ?", filter.Gender)
	}
	if filter.MinAge > 0 {
		q = q.Where("users.age >= ?", filter.MinAge)
	}
	if filter.MaxAge > 0 {
		q = q.Where("users.age <= ?", filter.MaxAge)
	}

	var users []models.User
	if err := q.Limit(limit).Offset(filter.Offset).Order("users.created_at DESC").Find(&users).Error; err != nil {
		return nil, translateStoreError(err)
	}
	return users, nil
}

func (r *userRepository) AddPoints(ctx context.Context, userID uint, delta int) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("points", gorm.Expr("points + ?", delta))
	if res.Error != nil {
		return translateStoreError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("User", userID)
	}
	cache.InvalidateUser(ctx, userID)
	return nil
}

func (r *userRepository) CreateBlock(ctx context.Context, blockerID, blockedID uint) error {
	block := &models.UserBlock{BlockerID: blockerID, BlockedID: blockedID}
	if err := r.db.WithContext(ctx).Create(block).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueConstraintError(err) {
			return models.NewDuplicateError("user is already blocked")
		}
		return translateStoreError(err)
	}
	return nil
}

func (r *userRepository) RemoveBlock(ctx context.Context, blockerID, blockedID uint) error {
	res := r.db.WithContext(ctx).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Delete(&models.UserBlock{})
	if res.Error != nil {
		return translateStoreError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Block", blockedID)
	}
	return nil
}

func (r *userRepository) BlockExists(ctx context.Context, userID1, userID2 uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.UserBlock{}).
		Where("(blocker_id = ? AND blocked_id = ?) OR (blocker_id = ? AND blocked_id = ?)",
			userID1, userID2, userID2, userID1).
		Count(&count).Error; err != nil {
		return false, translateStoreError(err)
	}
	return count > 0, nil
}

func (r *userRepository) BlockedBy(ctx context.Context, blockerID uint) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).
		Table("users").
		Joins("JOIN user_blocks b ON users.id = b.blocked_id").
		Where("b.blocker_id = ?", blockerID).
		Find(&users).Error; err != nil {
		return nil, translateStoreError(err)
	}
	return users, nil
}
