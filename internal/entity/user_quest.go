package entity

import (
	"database/sql"
	"time"

	"gorm.io/gorm"
)

// DailyShare is one day of the share ledger of a share-based quest.
type DailyShare struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// UserQuest is the progress of one user against one quest. Completion is
// terminal: once IsCompleted is set, progress never regresses.
type UserQuest struct {
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	UserAddress string `gorm:"primaryKey"`
	QuestID     string `gorm:"primaryKey"`
	Quest       Quest  `gorm:"foreignKey:QuestID"`

	Progress    float64
	IsCompleted bool
	CompletedAt sql.NullTime
	StartedAt   time.Time
	DailyShares Array[DailyShare]
}

// QuestUser aggregates quest state per user: the login streak ledger and the
// totals the level derivation combines with activity points.
type QuestUser struct {
	UserAddress string `gorm:"primaryKey"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`

	DailyLoginStreak     int
	LastLoginDate        string
	TotalQuestsCompleted int
	TotalQuestPoints     int64
}
