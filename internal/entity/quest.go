package entity

import (
	"database/sql"
	"time"

	"github.com/basequest/backend/pkg/enum"
)

type QuestType string

var (
	QuestEarlyAdopter  = enum.New(QuestType("early_adopter"))
	QuestActivityBased = enum.New(QuestType("activity_based"))
	QuestStreakBased   = enum.New(QuestType("streak_based"))
	QuestShareBased    = enum.New(QuestType("share_based"))
)

// Quest is an admin-authored quest definition shared across users. The
// requirements map is type-specific and normalized by the progress engine on
// creation.
type Quest struct {
	Base

	Title        string
	Description  []byte `gorm:"type:longtext"`
	Type         QuestType
	Requirements Map
	RewardPoints int64
	IsActive     bool
	StartDate    time.Time
	EndDate      sql.NullTime
}
