// Package service contains the business logic layer of the application.
package service

import (
	"context"
	"errors"
	"log/slog"

	"sigmat/internal/middleware"
	"sigmat/internal/models"
	"sigmat/internal/notifications"
	"sigmat/internal/repository"
)

// Relation status values returned by GetRelationStatus.
const (
	RelationNone            = "none"
	RelationFriends         = "friends"
	RelationPendingSent     = "pending_sent"
	RelationPendingReceived = "pending_received"
)

// FriendService drives the friend-request lifecycle: it validates each
// transition against the caller's role and the current request state, and
// leaves the race-sensitive checks to the store's unique indexes.
type FriendService struct {
	friendRepo repository.FriendRepository
	userRepo   repository.UserRepository
	notifier   *notifications.Notifier
}

// NewFriendService returns a new FriendService.
func NewFriendService(friendRepo repository.FriendRepository, userRepo repository.UserRepository, notifier *notifications.Notifier) *FriendService {
	return &FriendService{
		friendRepo: friendRepo,
		userRepo:   userRepo,
		notifier:   notifier,
	}
}

// SendFriendRequest creates a pending request from sender to receiver.
// Exactly one pending request may exist per user pair; when two users send
// to each other concurrently, the database index picks one winner and the
// other caller gets a duplicate error.
func (s *FriendService) SendFriendRequest(ctx context.Context, senderID, receiverID uint) (*models.FriendRequest, error) {
	if senderID == receiverID {
		return nil, models.NewSelfRequestError("cannot send a friend request to yourself")
	}

	sender, err := s.userRepo.GetByID(ctx, senderID)
	if err != nil {
		return nil, err
	}
	if _, err := s.userRepo.GetByID(ctx, receiverID); err != nil {
		return nil, err
	}

	blocked, err := s.userRepo.BlockExists(ctx, senderID, receiverID)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, models.NewNotFoundError("User", receiverID)
	}

	friendship, err := s.friendRepo.GetFriendshipBetweenUsers(ctx, senderID, receiverID)
	if err != nil {
		return nil, err
	}
	if friendship != nil {
		return nil, models.NewDuplicateError("you are already friends")
	}

	req := &models.FriendRequest{
		SenderID:   senderID,
		ReceiverID: receiverID,
	}
	if err := s.friendRepo.CreateRequest(ctx, req); err != nil {
		if isConflict(err) {
			middleware.FriendRequestConflicts.Inc()
		}
		return nil, err
	}

	middleware.FriendRequestTransitions.WithLabelValues("sent").Inc()
	s.publish(ctx, receiverID, notifications.Event{
		Type:      notifications.EventFriendRequest,
		RequestID: req.ID,
		UserID:    senderID,
		UserName:  sender.Name,
	})

	return s.friendRepo.GetRequest(ctx, req.ID)
}

// AcceptFriendRequest accepts a pending request. Only the receiver may
// accept; acceptance atomically creates the friendship edge.
func (s *FriendService) AcceptFriendRequest(ctx context.Context, userID, requestID uint) (*models.FriendRequest, error) {
	req, err := s.friendRepo.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.ReceiverID != userID {
		return nil, models.NewUnauthorizedError("only the receiver can accept a friend request")
	}
	if req.Status.Terminal() {
		return nil, models.NewInvalidStateError("request is already " + string(req.Status))
	}

	if _, err := s.friendRepo.AcceptRequest(ctx, req); err != nil {
		if isConflict(err) {
			middleware.FriendRequestConflicts.Inc()
		}
		return nil, err
	}

	middleware.FriendRequestTransitions.WithLabelValues("accepted").Inc()
	s.publish(ctx, req.SenderID, notifications.Event{
		Type:      notifications.EventRequestAccept,
		RequestID: req.ID,
		UserID:    req.ReceiverID,
		UserName:  req.Receiver.Name,
	})

	return req, nil
}

// RejectFriendRequest rejects a pending request. Only the receiver may
// reject; the record stays behind as history and does not block a later
// request for the same pair.
func (s *FriendService) RejectFriendRequest(ctx context.Context, userID, requestID uint) (*models.FriendRequest, error) {
	req, err := s.friendRepo.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.ReceiverID != userID {
		return nil, models.NewUnauthorizedError("only the receiver can reject a friend request")
	}
	if req.Status.Terminal() {
		return nil, models.NewInvalidStateError("request is already " + string(req.Status))
	}

	if err := s.friendRepo.ResolveRequest(ctx, requestID, models.FriendRequestRejected); err != nil {
		return nil, err
	}

	middleware.FriendRequestTransitions.WithLabelValues("rejected").Inc()
	req.Status = models.FriendRequestRejected
	s.publish(ctx, req.SenderID, notifications.Event{
		Type:      notifications.EventRequestReject,
		RequestID: req.ID,
		UserID:    req.ReceiverID,
		UserName:  req.Receiver.Name,
	})
	return req, nil
}

// CancelFriendRequest withdraws a pending request. Only the sender may
// cancel.
func (s *FriendService) CancelFriendRequest(ctx context.Context, userID, requestID uint) (*models.FriendRequest, error) {
	req, err := s.friendRepo.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.SenderID != userID {
		return nil, models.NewUnauthorizedError("only the sender can cancel a friend request")
	}
	if req.Status.Terminal() {
		return nil, models.NewInvalidStateError("request is already " + string(req.Status))
	}

	if err := s.friendRepo.ResolveRequest(ctx, requestID, models.FriendRequestCancelled); err != nil {
		return nil, err
	}

	middleware.FriendRequestTransitions.WithLabelValues("cancelled").Inc()
	req.Status = models.FriendRequestCancelled
	return req, nil
}

// GetPendingRequests returns pending requests addressed to the user,
// newest first.
func (s *FriendService) GetPendingRequests(ctx context.Context, userID uint) ([]models.FriendRequest, error) {
	return s.friendRepo.PendingReceived(ctx, userID)
}

// GetSentRequests returns the user's own pending requests, newest first.
func (s *FriendService) GetSentRequests(ctx context.Context, userID uint) ([]models.FriendRequest, error) {
	return s.friendRepo.PendingSent(ctx, userID)
}

// GetFriends returns the user's friends.
func (s *FriendService) GetFriends(ctx context.Context, userID uint) ([]models.User, error) {
	return s.friendRepo.GetFriends(ctx, userID)
}

// GetRelationStatus reports how two users currently relate: friends, a
// pending request in one direction, or nothing.
func (s *FriendService) GetRelationStatus(ctx context.Context, userID, targetUserID uint) (string, uint, error) {
	if _, err := s.userRepo.GetByID(ctx, targetUserID); err != nil {
		return "", 0, err
	}

	friendship, err := s.friendRepo.GetFriendshipBetweenUsers(ctx, userID, targetUserID)
	if err != nil {
		return "", 0, err
	}
	if friendship != nil {
		return RelationFriends, 0, nil
	}

	req, err := s.friendRepo.GetPendingByPair(ctx, userID, targetUserID)
	if err != nil {
		return "", 0, err
	}
	if req == nil {
		return RelationNone, 0, nil
	}
	if req.SenderID == userID {
		return RelationPendingSent, req.ID, nil
	}
	return RelationPendingReceived, req.ID, nil
}

// RemoveFriend deletes the friendship edge between two users. Either side
// may remove it; afterwards the pair can start over with a fresh request.
func (s *FriendService) RemoveFriend(ctx context.Context, userID, targetUserID uint) error {
	if userID == targetUserID {
		return models.NewSelfRequestError("cannot unfriend yourself")
	}

	friendship, err := s.friendRepo.GetFriendshipBetweenUsers(ctx, userID, targetUserID)
	if err != nil {
		return err
	}
	if friendship == nil {
		return models.NewNotFoundError("Friendship", targetUserID)
	}

	if err := s.friendRepo.RemoveFriendship(ctx, userID, targetUserID); err != nil {
		return err
	}

	middleware.FriendRequestTransitions.WithLabelValues("removed").Inc()
	s.publish(ctx, targetUserID, notifications.Event{
		Type:   notifications.EventFriendRemoved,
		UserID: userID,
	})
	return nil
}

func (s *FriendService) publish(ctx context.Context, userID uint, event notifications.Event) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.PublishEvent(ctx, userID, event); err != nil {
		middleware.Logger.Warn("failed to publish notification",
			slog.Uint64("user_id", uint64(userID)),
			slog.String("type", event.Type),
			slog.String("error", err.Error()),
		)
	}
}

func isConflict(err error) bool {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		return false
	}
	return appErr.Code == models.CodeDuplicate || appErr.Code == models.CodeConflict
}
