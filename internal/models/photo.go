package models

import "time"

// Gallery photo moderation states.
const (
	PhotoStatusPending  = "pending"
	PhotoStatusApproved = "approved"
)

// MaxGalleryPhotos limits how many photos a member can keep in their gallery.
const MaxGalleryPhotos = 5

// GalleryPhoto is a member-uploaded photo awaiting or past moderation.
// Rejected photos are removed rather than kept with a rejected status,
// matching the admin dashboard's reject action.
type GalleryPhoto struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	URL       string    `gorm:"type:text;not null" json:"url"`
	Status    string    `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM
func (GalleryPhoto) TableName() string {
	return "gallery_photos"
}
