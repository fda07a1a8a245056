package entity

import (
	"database/sql"
	"time"

	"github.com/basequest/backend/pkg/enum"
)

type RewardType string

var (
	RewardPoints   = enum.New(RewardType("points"))
	RewardNFT      = enum.New(RewardType("nft"))
	RewardToken    = enum.New(RewardType("token"))
	RewardBadge    = enum.New(RewardType("badge"))
	RewardDiscount = enum.New(RewardType("discount"))
)

type UserRewardStatus string

var (
	RewardRedeemed = enum.New(UserRewardStatus("redeemed"))
)

// Reward is an admin-authored redeemable. Eligibility requires the combined
// point threshold, completion of every listed quest, and a free redemption
// slot when a cap is set.
type Reward struct {
	Base

	Name               string
	Description        []byte `gorm:"type:longtext"`
	Type               RewardType
	PointsReward       int64
	QuestIDs           Array[string]
	RequiredPoints     int64
	IsActive           bool
	MaxRedemptions     sql.NullInt64
	CurrentRedemptions int64
}

// UserReward is a redemption record. At most one row exists per
// (user, reward) pair.
type UserReward struct {
	Base

	UserAddress string `gorm:"uniqueIndex:idx_user_reward"`
	RewardID    string `gorm:"uniqueIndex:idx_user_reward"`
	Reward      Reward `gorm:"foreignKey:RewardID"`

	RewardName   string
	RewardType   RewardType
	PointsReward int64
	RedeemedAt   time.Time
	Status       UserRewardStatus
}
