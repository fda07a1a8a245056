package repository

import (
	"context"

	"github.com/basequest/backend/internal/entity"
	"github.com/basequest/backend/pkg/xcontext"
)

type UserRewardRepository interface {
	Get(ctx context.Context, userAddress, rewardID string) (*entity.UserReward, error)
	GetByUser(ctx context.Context, userAddress string) ([]entity.UserReward, error)
	Create(ctx context.Context, userReward *entity.UserReward) error
}

type userRewardRepository struct{}

func NewUserRewardRepository() *userRewardRepository {
	return &userRewardRepository{}
}

func (r *userRewardRepository) Get(
	ctx context.Context, userAddress, rewardID string,
) (*entity.UserReward, error) {
	result := &entity.UserReward{}
	err := xcontext.DB(ctx).
		Where("user_address=? AND reward_id=?", userAddress, rewardID).
		Take(result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *userRewardRepository) GetByUser(
	ctx context.Context, userAddress string,
) ([]entity.UserReward, error) {
	var result []entity.UserReward
	err := xcontext.DB(ctx).
		Where("user_address=?", userAddress).
		Order("redeemed_at DESC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *userRewardRepository) Create(ctx context.Context, userReward *entity.UserReward) error {
	return xcontext.DB(ctx).Create(userReward).Error
}
