package models

import (
	"fmt"
	"time"
)

// FriendRequestStatus represents the lifecycle state of a friend request.
type FriendRequestStatus string

const (
	// FriendRequestPending awaits the receiver's decision.
	FriendRequestPending FriendRequestStatus = "pending"
	// FriendRequestAccepted is terminal; acceptance creates the friendship edge.
	FriendRequestAccepted FriendRequestStatus = "accepted"
	// FriendRequestRejected is terminal; it does not block a later request.
	FriendRequestRejected FriendRequestStatus = "rejected"
	// FriendRequestCancelled is terminal; the sender withdrew the request.
	FriendRequestCancelled FriendRequestStatus = "cancelled"
)

// Terminal reports whether no further transition is possible from s.
func (s FriendRequestStatus) Terminal() bool {
	return s == FriendRequestAccepted || s == FriendRequestRejected || s == FriendRequestCancelled
}

// CanonicalPair orders two user IDs so that {a,b} and {b,a} map to the same
// key regardless of request direction.
func CanonicalPair(a, b uint) (uint, uint) {
	if a > b {
		return b, a
	}
	return a, b
}

// PairKey returns the canonical string key for the unordered pair {a,b}.
// A partial unique index on this column (WHERE status = 'pending') guarantees
// at most one pending request per pair; the losing side of two racing sends
// gets a duplicate-key error from the database.
func PairKey(a, b uint) string {
	lo, hi := CanonicalPair(a, b)
	return fmt.Sprintf("%d:%d", lo, hi)
}

// FriendRequest is one directional friendship proposal. Terminal records are
// immutable history: they are never deleted, only superseded by newer
// requests for the same pair.
type FriendRequest struct {
	ID         uint                `gorm:"primaryKey" json:"id"`
	SenderID   uint                `gorm:"not null;index" json:"sender_id"`
	ReceiverID uint                `gorm:"not null;index" json:"receiver_id"`
	PairKey    string              `gorm:"not null;index" json:"-"`
	Status     FriendRequestStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	CreatedAt  time.Time           `json:"created_at"`
	ResolvedAt *time.Time          `json:"resolved_at,omitempty"`

	Sender   User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	Receiver User `gorm:"foreignKey:ReceiverID" json:"receiver,omitempty"`
}

// TableName specifies the table name for GORM
func (FriendRequest) TableName() string {
	return "friend_requests"
}

// Friendship is the undirected edge created when a request is accepted.
// The pair is stored canonically (UserLowID < UserHighID) so the composite
// unique index covers both directions.
type Friendship struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserLowID  uint      `gorm:"not null;uniqueIndex:idx_friendships_pair" json:"user_low_id"`
	UserHighID uint      `gorm:"not null;uniqueIndex:idx_friendships_pair" json:"user_high_id"`
	RequestID  uint      `gorm:"not null" json:"request_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM
func (Friendship) TableName() string {
	return "friendships"
}

// Other returns the participant that is not userID.
func (f *Friendship) Other(userID uint) uint {
	if f.UserLowID == userID {
		return f.UserHighID
	}
	return f.UserLowID
}

// Involves reports whether userID is one of the two participants.
func (f *Friendship) Involves(userID uint) bool {
	return f.UserLowID == userID || f.UserHighID == userID
}
