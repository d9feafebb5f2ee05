package models

import "time"

// Broadcast is an announcement the admin sends to all members. Active
// broadcasts are included in every member's notification feed.
type Broadcast struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"not null" json:"title"`
	Content   string    `gorm:"type:text" json:"content"`
	ImageURL  string    `gorm:"type:text" json:"image_url"`
	VideoURL  string    `gorm:"type:text" json:"video_url"`
	Type      string    `gorm:"type:varchar(20);default:'info'" json:"type"`
	Active    bool      `gorm:"default:true;index" json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM
func (Broadcast) TableName() string {
	return "broadcasts"
}

// Notification is a per-user message, e.g. a direct note from the admin.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Title     string    `gorm:"not null" json:"title"`
	Content   string    `gorm:"type:text" json:"content"`
	ImageURL  string    `gorm:"type:text" json:"image_url"`
	Type      string    `gorm:"type:varchar(30);default:'admin_message'" json:"type"`
	Read      bool      `gorm:"default:false" json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM
func (Notification) TableName() string {
	return "notifications"
}
