// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"
	"time"

	"sigmat/internal/models"

	"gorm.io/gorm"
)

// FriendRepository defines persistence operations for friend requests and
// friendship edges.
type FriendRepository interface {
	CreateRequest(ctx context.Context, req *models.FriendRequest) error
	GetRequest(ctx context.Context, id uint) (*models.FriendRequest, error)
	GetPendingByPair(ctx context.Context, userID1, userID2 uint) (*models.FriendRequest, error)
	AcceptRequest(ctx context.Context, req *models.FriendRequest) (*models.Friendship, error)
	ResolveRequest(ctx context.Context, id uint, status models.FriendRequestStatus) error
	PendingReceived(ctx context.Context, userID uint) ([]models.FriendRequest, error)
	PendingSent(ctx context.Context, userID uint) ([]models.FriendRequest, error)
	GetFriends(ctx context.Context, userID uint) ([]models.User, error)
	GetFriendshipBetweenUsers(ctx context.Context, userID1, userID2 uint) (*models.Friendship, error)
	RemoveFriendship(ctx context.Context, userID1, userID2 uint) error
	CountFriends(ctx context.Context, userID uint) (int64, error)
}

type friendRepository struct {
	db *gorm.DB
}

// NewFriendRepository returns a new FriendRepository implementation.
func NewFriendRepository(db *gorm.DB) FriendRepository {
	return &friendRepository{db: db}
}

// CreateRequest inserts a pending request for the pair. The insert carries
// both guards itself: the partial unique index on pair_key rejects a second
// pending request in either direction, and the NOT EXISTS clause refuses the
// row when the friendship edge already exists, so a send cannot race past an
// accept that committed after the caller's own check.
func (r *friendRepository) CreateRequest(ctx context.Context, req *models.FriendRequest) error {
	req.PairKey = models.PairKey(req.SenderID, req.ReceiverID)
	req.Status = models.FriendRequestPending
	lo, hi := models.CanonicalPair(req.SenderID, req.ReceiverID)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Exec(
			`INSERT INTO friend_requests (sender_id, receiver_id, pair_key, status, created_at)
			 SELECT ?, ?, ?, ?, ?
			 WHERE NOT EXISTS (SELECT 1 FROM friendships WHERE user_low_id = ? AND user_high_id = ?)`,
			req.SenderID, req.ReceiverID, req.PairKey, req.Status, time.Now(), lo, hi)
		if res.Error != nil {
			if errors.Is(res.Error, gorm.ErrDuplicatedKey) || isUniqueConstraintError(res.Error) {
				return models.NewDuplicateError("a pending request already exists between these users")
			}
			return translateStoreError(res.Error)
		}
		if res.RowsAffected == 0 {
			return models.NewConflictError("users are already friends")
		}
		if err := tx.Where("pair_key = ? AND status = ?", req.PairKey, models.FriendRequestPending).
			First(req).Error; err != nil {
			return translateStoreError(err)
		}
		return nil
	})
	if err != nil {
		return asAppError(err)
	}
	return nil
}

func (r *friendRepository) GetRequest(ctx context.Context, id uint) (*models.FriendRequest, error) {
	var req models.FriendRequest
	if err := r.db.WithContext(ctx).Preload("Sender").Preload("Receiver").First(&req, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("FriendRequest", id)
		}
		return nil, translateStoreError(err)
	}
	return &req, nil
}

func (r *friendRepository) GetPendingByPair(ctx context.Context, userID1, userID2 uint) (*models.FriendRequest, error) {
	var req models.FriendRequest
	if err := r.db.WithContext(ctx).
		Where("pair_key = ? AND status = ?", models.PairKey(userID1, userID2), models.FriendRequestPending).
		First(&req).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, translateStoreError(err)
	}
	return &req, nil
}

// AcceptRequest flips the request to accepted and creates the friendship edge
// in one transaction. The status change is a compare-and-set on the pending
// state, so two concurrent accepts (or an accept racing a cancel) leave
// exactly one winner and at most one edge.
func (r *friendRepository) AcceptRequest(ctx context.Context, req *models.FriendRequest) (*models.Friendship, error) {
	now := time.Now()
	lo, hi := models.CanonicalPair(req.SenderID, req.ReceiverID)
	friendship := &models.Friendship{
		UserLowID:  lo,
		UserHighID: hi,
		RequestID:  req.ID,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.FriendRequest{}).
			Where("id = ? AND status = ?", req.ID, models.FriendRequestPending).
			Updates(map[string]interface{}{"status": models.FriendRequestAccepted, "resolved_at": now})
		if res.Error != nil {
			return translateStoreError(res.Error)
		}
		if res.RowsAffected == 0 {
			return r.staleTransitionError(tx, req.ID)
		}

		if err := tx.Create(friendship).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueConstraintError(err) {
				return models.NewConflictError("users are already friends")
			}
			return translateStoreError(err)
		}
		return nil
	})
	if err != nil {
		return nil, asAppError(err)
	}

	req.Status = models.FriendRequestAccepted
	req.ResolvedAt = &now
	return friendship, nil
}

func (r *friendRepository) ResolveRequest(ctx context.Context, id uint, status models.FriendRequestStatus) error {
	now := time.Now()
	res := r.db.WithContext(ctx).Model(&models.FriendRequest{}).
		Where("id = ? AND status = ?", id, models.FriendRequestPending).
		Updates(map[string]interface{}{"status": status, "resolved_at": now})
	if res.Error != nil {
		return translateStoreError(res.Error)
	}
	if res.RowsAffected == 0 {
		return r.staleTransitionError(r.db.WithContext(ctx), id)
	}
	return nil
}

// staleTransitionError distinguishes a vanished request from one another
// caller already resolved.
func (r *friendRepository) staleTransitionError(tx *gorm.DB, id uint) error {
	var current models.FriendRequest
	if err := tx.First(&current, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("FriendRequest", id)
		}
		return translateStoreError(err)
	}
	return models.NewInvalidStateError("request is already " + string(current.Status))
}

func (r *friendRepository) PendingReceived(ctx context.Context, userID uint) ([]models.FriendRequest, error) {
	var requests []models.FriendRequest
	if err := r.db.WithContext(ctx).
		Where("receiver_id = ? AND status = ?", userID, models.FriendRequestPending).
		Preload("Sender").
		Order("created_at DESC, id DESC").
		Find(&requests).Error; err != nil {
		return nil, translateStoreError(err)
	}
	return requests, nil
}

func (r *friendRepository) PendingSent(ctx context.Context, userID uint) ([]models.FriendRequest, error) {
	var requests []models.FriendRequest
	if err := r.db.WithContext(ctx).
		Where("sender_id = ? AND status = ?", userID, models.FriendRequestPending).
		Preload("Receiver").
		Order("created_at DESC, id DESC").
		Find(&requests).Error; err != nil {
		return nil, translateStoreError(err)
	}
	return requests, nil
}

func (r *friendRepository) GetFriends(ctx context.Context, userID uint) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).
		Table("users").
		Joins("JOIN friendships f ON (users.id = f.user_low_id OR users.id = f.user_high_id)").
		Where("(f.user_low_id = ? OR f.user_high_id = ?) AND users.id != ?", userID, userID, userID).
		Order("f.created_at DESC").
		Find(&users).Error; err != nil {
		return nil, translateStoreError(err)
	}
	return users, nil
}

func (r *friendRepository) GetFriendshipBetweenUsers(ctx context.Context, userID1, userID2 uint) (*models.Friendship, error) {
	lo, hi := models.CanonicalPair(userID1, userID2)
	var friendship models.Friendship
	if err := r.db.WithContext(ctx).
		Where("user_low_id = ? AND user_high_id = ?", lo, hi).
		First(&friendship).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, translateStoreError(err)
	}
	return &friendship, nil
}

func (r *friendRepository) RemoveFriendship(ctx context.Context, userID1, userID2 uint) error {
	lo, hi := models.CanonicalPair(userID1, userID2)
	res := r.db.WithContext(ctx).
		Where("user_low_id = ? AND user_high_id = ?", lo, hi).
		Delete(&models.Friendship{})
	if res.Error != nil {
		return translateStoreError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Friendship", 0)
	}
	return nil
}

func (r *friendRepository) CountFriends(ctx context.Context, userID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Friendship{}).
		Where("user_low_id = ? OR user_high_id = ?", userID, userID).
		Count(&count).Error; err != nil {
		return 0, translateStoreError(err)
	}
	return count, nil
}
