package repository

import (
	"context"

	"github.com/basequest/backend/internal/entity"
	"github.com/basequest/backend/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type UserQuestRepository interface {
	Get(ctx context.Context, userAddress, questID string) (*entity.UserQuest, error)
	GetByUser(ctx context.Context, userAddress string) ([]entity.UserQuest, error)
	Create(ctx context.Context, userQuest *entity.UserQuest) error
	Update(ctx context.Context, userQuest *entity.UserQuest) error
}

type userQuestRepository struct{}

func NewUserQuestRepository() *userQuestRepository {
	return &userQuestRepository{}
}

func (r *userQuestRepository) Get(
	ctx context.Context, userAddress, questID string,
) (*entity.UserQuest, error) {
	result := &entity.UserQuest{}
	err := xcontext.DB(ctx).
		Where("user_address=? AND quest_id=?", userAddress, questID).
		Take(result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *userQuestRepository) GetByUser(
	ctx context.Context, userAddress string,
) ([]entity.UserQuest, error) {
	var result []entity.UserQuest
	err := xcontext.DB(ctx).
		Where("user_address=?", userAddress).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *userQuestRepository) Create(ctx context.Context, userQuest *entity.UserQuest) error {
	return xcontext.DB(ctx).Create(userQuest).Error
}

func (r *userQuestRepository) Update(ctx context.Context, userQuest *entity.UserQuest) error {
	return xcontext.DB(ctx).
		Model(&entity.UserQuest{}).
		Where("user_address=? AND quest_id=?", userQuest.UserAddress, userQuest.QuestID).
		Updates(map[string]any{
			"progress":     userQuest.Progress,
			"is_completed": userQuest.IsCompleted,
			"completed_at": userQuest.CompletedAt,
			"daily_shares": userQuest.DailyShares,
		}).Error
}

type QuestUserRepository interface {
	Get(ctx context.Context, userAddress string) (*entity.QuestUser, error)
	GetAll(ctx context.Context) ([]entity.QuestUser, error)
	Upsert(ctx context.Context, questUser *entity.QuestUser) error
}

type questUserRepository struct{}

func NewQuestUserRepository() *questUserRepository {
	return &questUserRepository{}
}

func (r *questUserRepository) Get(
	ctx context.Context, userAddress string,
) (*entity.QuestUser, error) {
	result := &entity.QuestUser{}
	if err := xcontext.DB(ctx).Where("user_address=?", userAddress).Take(result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *questUserRepository) GetAll(ctx context.Context) ([]entity.QuestUser, error) {
	var result []entity.QuestUser
	if err := xcontext.DB(ctx).Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *questUserRepository) Upsert(ctx context.Context, questUser *entity.QuestUser) error {
	return xcontext.DB(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_address"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"daily_login_streak",
				"last_login_date",
				"total_quests_completed",
				"total_quest_points",
				"updated_at",
			}),
		}).Create(questUser).Error
}
