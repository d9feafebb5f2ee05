package models

import (
	"time"

	"gorm.io/gorm"
)

// UserStatus is the account status controlled by the admin dashboard.
type UserStatus string

const (
	// UserStatusActive is the default status for new accounts.
	UserStatusActive UserStatus = "active"
	// UserStatusPaused hides the account from search without blocking login.
	UserStatusPaused UserStatus = "paused"
	// UserStatusBlocked prevents the account from authenticating.
	UserStatusBlocked UserStatus = "blocked"
)

const (
	GenderMale   = "male"
	GenderFemale = "female"
)

// Age bounds enforced at registration and profile update.
const (
	MinAge = 18
	MaxAge = 60
)

// StartingPoints is credited to every new account.
const StartingPoints = 10

// User represents a member of the platform.
type User struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	Name               string         `gorm:"not null" json:"name"`
	Email              string         `gorm:"unique;not null" json:"email"`
	Password           string         `gorm:"not null" json:"-"`
	City               string         `gorm:"index" json:"city"`
	Gender             string         `gorm:"type:varchar(10)" json:"gender"`
	Age                int            `json:"age"`
	Bio                string         `json:"bio"`
	ProfilePhoto       string         `gorm:"type:text" json:"profile_photo"`
	ProfilePhotoStatus string         `gorm:"type:varchar(20);default:'none'" json:"profile_photo_status"`
	Points             int            `gorm:"default:10" json:"points"`
	Status             UserStatus     `gorm:"type:varchar(20);default:'active';index" json:"status"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`

	Gallery []GalleryPhoto `gorm:"foreignKey:UserID" json:"gallery,omitempty"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}

// PublicUser is the directory record exposed to other members. Sensitive
// fields (email, points, status) stay out of it.
type PublicUser struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	City         string `json:"city"`
	Gender       string `json:"gender"`
	Age          int    `json:"age"`
	Bio          string `json:"bio"`
	ProfilePhoto string `json:"profile_photo"`
}

// Public returns the directory view of the user.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:           u.ID,
		Name:         u.Name,
		City:         u.City,
		Gender:       u.Gender,
		Age:          u.Age,
		Bio:          u.Bio,
		ProfilePhoto: u.ProfilePhoto,
	}
}

// UserBlock records that blocker does not want any contact from blocked.
// Blocks are directional; either direction suppresses search results and
// friend requests between the two users.
type UserBlock struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BlockerID uint      `gorm:"not null;uniqueIndex:idx_user_blocks_pair" json:"blocker_id"`
	BlockedID uint      `gorm:"not null;uniqueIndex:idx_user_blocks_pair" json:"blocked_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM
func (UserBlock) TableName() string {
	return "user_blocks"
}
