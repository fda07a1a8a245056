package entity

import (
	"time"

	"gorm.io/gorm"
)

// NotificationToken is a push credential stored when a user adds the frame or
// enables notifications, and deleted on the opposite events.
type NotificationToken struct {
	FID       int64 `gorm:"primaryKey;column:fid"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	Token string
	URL   string
}
