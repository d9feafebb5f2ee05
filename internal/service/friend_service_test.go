package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"sigmat/internal/models"
	"sigmat/internal/notifications"
	"sigmat/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newFriendService(t *testing.T) (*FriendService, repository.UserRepository, *gorm.DB) {
	t.Helper()

	db := setupTestDB(t)
	friendRepo := repository.NewFriendRepository(db)
	userRepo := repository.NewUserRepository(db)
	return NewFriendService(friendRepo, userRepo, nil), userRepo, db
}

func TestSendFriendRequest(t *testing.T) {
	svc, _, db := newFriendService(t)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	t.Run("happy path", func(t *testing.T) {
		req, err := svc.SendFriendRequest(ctx, alice.ID, bob.ID)
		require.NoError(t, err)
		assert.Equal(t, alice.ID, req.SenderID)
		assert.Equal(t, bob.ID, req.ReceiverID)
		assert.Equal(t, models.FriendRequestPending, req.Status)
		assert.Equal(t, "alice", req.Sender.Name)
	})

	t.Run("self request", func(t *testing.T) {
		_, err := svc.SendFriendRequest(ctx, alice.ID, alice.ID)
		assertAppErrorCode(t, err, models.CodeSelfRequest)
	})

	t.Run("duplicate pending", func(t *testing.T) {
		_, err := svc.SendFriendRequest(ctx, alice.ID, bob.ID)
		assertAppErrorCode(t, err, models.CodeDuplicate)
	})

	t.Run("reverse direction collides with pending", func(t *testing.T) {
		_, err := svc.SendFriendRequest(ctx, bob.ID, alice.ID)
		assertAppErrorCode(t, err, models.CodeDuplicate)
	})

	t.Run("unknown receiver", func(t *testing.T) {
		_, err := svc.SendFriendRequest(ctx, alice.ID, 9999)
		assertAppErrorCode(t, err, models.CodeNotFound)
	})
}

func TestSendFriendRequestBlocked(t *testing.T) {
	svc, userRepo, db := newFriendService(t)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	require.NoError(t, userRepo.CreateBlock(ctx, bob.ID, alice.ID))

	// A block in either direction makes the target look like it does not
	// exist, so the blocker is never revealed.
	_, err := svc.SendFriendRequest(ctx, alice.ID, bob.ID)
	assertAppErrorCode(t, err, models.CodeNotFound)

	_, err = svc.SendFriendRequest(ctx, bob.ID, alice.ID)
	assertAppErrorCode(t, err, models.CodeNotFound)
}

func TestAcceptFriendRequest(t *testing.T) {
	svc, _, db := newFriendService(t)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")

	req, err := svc.SendFriendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	t.Run("only the receiver may accept", func(t *testing.T) {
		_, err := svc.AcceptFriendRequest(ctx, alice.ID, req.ID)
		assertAppErrorCode(t, err, models.CodeUnauthorized)

		_, err = svc.AcceptFriendRequest(ctx, carol.ID, req.ID)
		assertAppErrorCode(t, err, models.CodeUnauthorized)
	})

	t.Run("receiver accepts", func(t *testing.T) {
		accepted, err := svc.AcceptFriendRequest(ctx, bob.ID, req.ID)
		require.NoError(t, err)
		assert.Equal(t, models.FriendRequestAccepted, accepted.Status)

		status, _, err := svc.GetRelationStatus(ctx, alice.ID, bob.ID)
		require.NoError(t, err)
		assert.Equal(t, RelationFriends, status)

		friends, err := svc.GetFriends(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, friends, 1)
		assert.Equal(t, bob.ID, friends[0].ID)
	})

	t.Run("second accept is rejected", func(t *testing.T) {
		_, err := svc.AcceptFriendRequest(ctx, bob.ID, req.ID)
		assertAppErrorCode(t, err, models.CodeInvalidState)
	})

	t.Run("already friends blocks a new request", func(t *testing.T) {
		_, err := svc.SendFriendRequest(ctx, bob.ID, alice.ID)
		assertAppErrorCode(t, err, models.CodeDuplicate)
	})

	t.Run("unknown request", func(t *testing.T) {
		_, err := svc.AcceptFriendRequest(ctx, bob.ID, 9999)
		assertAppErrorCode(t, err, models.CodeNotFound)
	})
}

func TestRejectFriendRequest(t *testing.T) {
	svc, _, db := newFriendService(t)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	req, err := svc.SendFriendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	t.Run("sender cannot reject", func(t *testing.T) {
		_, err := svc.RejectFriendRequest(ctx, alice.ID, req.ID)
		assertAppErrorCode(t, err, models.CodeUnauthorized)
	})

	t.Run("receiver rejects", func(t *testing.T) {
		rejected, err := svc.RejectFriendRequest(ctx, bob.ID, req.ID)
		require.NoError(t, err)
		assert.Equal(t, models.FriendRequestRejected, rejected.Status)

		status, _, err := svc.GetRelationStatus(ctx, alice.ID, bob.ID)
		require.NoError(t, err)
		assert.Equal(t, RelationNone, status)
	})

	t.Run("rejection does not block a fresh request", func(t *testing.T) {
		again, err := svc.SendFriendRequest(ctx, alice.ID, bob.ID)
		require.NoError(t, err)
		assert.NotEqual(t, req.ID, again.ID)
	})
}

func TestCancelFriendRequest(t *testing.T) {
	svc, _, db := newFriendService(t)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	req, err := svc.SendFriendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	t.Run("receiver cannot cancel", func(t *testing.T) {
		_, err := svc.CancelFriendRequest(ctx, bob.ID, req.ID)
		assertAppErrorCode(t, err, models.CodeUnauthorized)
	})

	t.Run("sender cancels", func(t *testing.T) {
		cancelled, err := svc.CancelFriendRequest(ctx, alice.ID, req.ID)
		require.NoError(t, err)
		assert.Equal(t, models.FriendRequestCancelled, cancelled.Status)
	})

	t.Run("cancel twice", func(t *testing.T) {
		_, err := svc.CancelFriendRequest(ctx, alice.ID, req.ID)
		assertAppErrorCode(t, err, models.CodeInvalidState)
	})

	t.Run("accept after cancel", func(t *testing.T) {
		_, err := svc.AcceptFriendRequest(ctx, bob.ID, req.ID)
		assertAppErrorCode(t, err, models.CodeInvalidState)
	})
}

func TestGetRelationStatus(t *testing.T) {
	svc, _, db := newFriendService(t)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	status, requestID, err := svc.GetRelationStatus(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, RelationNone, status)
	assert.Zero(t, requestID)

	req, err := svc.SendFriendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	status, requestID, err = svc.GetRelationStatus(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, RelationPendingSent, status)
	assert.Equal(t, req.ID, requestID)

	status, requestID, err = svc.GetRelationStatus(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, RelationPendingReceived, status)
	assert.Equal(t, req.ID, requestID)

	_, _, err = svc.GetRelationStatus(ctx, alice.ID, 9999)
	assertAppErrorCode(t, err, models.CodeNotFound)
}

func TestRemoveFriend(t *testing.T) {
	svc, _, db := newFriendService(t)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	req, err := svc.SendFriendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	_, err = svc.AcceptFriendRequest(ctx, bob.ID, req.ID)
	require.NoError(t, err)

	t.Run("self removal", func(t *testing.T) {
		err := svc.RemoveFriend(ctx, alice.ID, alice.ID)
		assertAppErrorCode(t, err, models.CodeSelfRequest)
	})

	t.Run("either side may remove", func(t *testing.T) {
		require.NoError(t, svc.RemoveFriend(ctx, bob.ID, alice.ID))

		friends, err := svc.GetFriends(ctx, alice.ID)
		require.NoError(t, err)
		assert.Empty(t, friends)
	})

	t.Run("remove twice", func(t *testing.T) {
		err := svc.RemoveFriend(ctx, bob.ID, alice.ID)
		assertAppErrorCode(t, err, models.CodeNotFound)
	})

	t.Run("pair can start over", func(t *testing.T) {
		again, err := svc.SendFriendRequest(ctx, bob.ID, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, models.FriendRequestPending, again.Status)
	})
}

func TestPendingViews(t *testing.T) {
	svc, _, db := newFriendService(t)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")

	_, err := svc.SendFriendRequest(ctx, alice.ID, carol.ID)
	require.NoError(t, err)
	_, err = svc.SendFriendRequest(ctx, bob.ID, carol.ID)
	require.NoError(t, err)

	received, err := svc.GetPendingRequests(ctx, carol.ID)
	require.NoError(t, err)
	require.Len(t, received, 2)
	assert.Equal(t, "bob", received[0].Sender.Name)

	sent, err := svc.GetSentRequests(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, sent, 1)
	assert.Equal(t, "carol", sent[0].Receiver.Name)
}

func TestRejectFriendRequestNotifiesSender(t *testing.T) {
	db := setupTestDB(t)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	svc := NewFriendService(
		repository.NewFriendRepository(db),
		repository.NewUserRepository(db),
		notifications.NewNotifier(client),
	)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	ctx := context.Background()

	req, err := svc.SendFriendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	sub := client.Subscribe(ctx, notifications.UserChannel(alice.ID))
	t.Cleanup(func() { sub.Close() })
	_, err = sub.Receive(ctx)
	require.NoError(t, err)

	_, err = svc.RejectFriendRequest(ctx, bob.ID, req.ID)
	require.NoError(t, err)

	select {
	case msg := <-sub.Channel():
		var event notifications.Event
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &event))
		assert.Equal(t, notifications.EventRequestReject, event.Type)
		assert.Equal(t, req.ID, event.RequestID)
		assert.Equal(t, bob.ID, event.UserID)
		assert.Equal(t, "bob", event.UserName)
	case <-time.After(2 * time.Second):
		t.Fatal("expected a rejection event on the sender's channel")
	}
}
