package model

import (
	"strconv"
	"time"

	"github.com/basequest/backend/internal/entity"
)

func ConvertActivity(activity *entity.Activity) Activity {
	return Activity{
		ID:          strconv.FormatInt(activity.ID, 10),
		Type:        string(activity.Type),
		Description: activity.Description,
		Timestamp:   activity.OccurredAt.UnixMilli(),
		Points:      activity.Points,
		Hash:        activity.TxHash,
		Direction:   string(activity.Direction),
		Asset:       activity.Asset,
		TokenID:     activity.TokenID,
	}
}

func ConvertQuest(quest *entity.Quest) Quest {
	result := Quest{
		ID:           quest.ID,
		Title:        quest.Title,
		Description:  string(quest.Description),
		Type:         string(quest.Type),
		Requirements: quest.Requirements,
		RewardPoints: quest.RewardPoints,
		IsActive:     quest.IsActive,
		StartDate:    quest.StartDate.Format(time.RFC3339),
	}

	if quest.EndDate.Valid {
		result.EndDate = quest.EndDate.Time.Format(time.RFC3339)
	}

	return result
}

func ConvertUserQuest(quest *entity.Quest, userQuest *entity.UserQuest, sharesToday int) UserQuest {
	result := UserQuest{
		Quest:       ConvertQuest(quest),
		Progress:    userQuest.Progress,
		IsCompleted: userQuest.IsCompleted,
		StartedAt:   userQuest.StartedAt.Format(time.RFC3339),
		SharesToday: sharesToday,
	}

	if userQuest.CompletedAt.Valid {
		result.CompletedAt = userQuest.CompletedAt.Time.Format(time.RFC3339)
	}

	return result
}

func ConvertReward(reward *entity.Reward) Reward {
	result := Reward{
		ID:                 reward.ID,
		Name:               reward.Name,
		Description:        string(reward.Description),
		Type:               string(reward.Type),
		PointsReward:       reward.PointsReward,
		QuestIDs:           reward.QuestIDs,
		RequiredPoints:     reward.RequiredPoints,
		CurrentRedemptions: reward.CurrentRedemptions,
	}

	if reward.MaxRedemptions.Valid {
		result.MaxRedemptions = reward.MaxRedemptions.Int64
	}

	return result
}
