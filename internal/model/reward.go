package model

type Reward struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Description        string   `json:"description,omitempty"`
	Type               string   `json:"type"`
	PointsReward       int64    `json:"points_reward"`
	QuestIDs           []string `json:"quest_ids,omitempty"`
	RequiredPoints     int64    `json:"required_points"`
	MaxRedemptions     int64    `json:"max_redemptions,omitempty"`
	CurrentRedemptions int64    `json:"current_redemptions"`

	IsEligible        bool     `json:"is_eligible"`
	IsRedeemed        bool     `json:"is_redeemed"`
	UnmetRequirements []string `json:"unmet_requirements,omitempty"`
}

type GetRewardsRequest struct {
	UserAddress string `json:"user_address"`
}

type GetRewardsResponse struct {
	Rewards []Reward `json:"rewards"`
}

type RedeemRewardRequest struct {
	UserAddress string `json:"user_address"`
	RewardID    string `json:"reward_id"`
}

type RedeemRewardResponse struct {
	RewardID     string `json:"reward_id"`
	RewardName   string `json:"reward_name"`
	PointsReward int64  `json:"points_reward"`
	RedeemedAt   string `json:"redeemed_at"`
}

type CreateRewardRequest struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Type           string   `json:"type"`
	PointsReward   int64    `json:"points_reward"`
	QuestIDs       []string `json:"quest_ids"`
	RequiredPoints int64    `json:"required_points"`
	MaxRedemptions int64    `json:"max_redemptions"`
	Notify         bool     `json:"notify"`
}

type CreateRewardResponse struct {
	ID string `json:"id"`
}
