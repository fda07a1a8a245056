package repository

import (
	"context"
	"errors"

	"github.com/basequest/backend/internal/entity"
	"github.com/basequest/backend/pkg/xcontext"
	"gorm.io/gorm"
)

var ErrRedemptionCapReached = errors.New("redemption cap reached")

type RewardRepository interface {
	Create(ctx context.Context, reward *entity.Reward) error
	GetByID(ctx context.Context, id string) (*entity.Reward, error)
	GetActive(ctx context.Context) ([]entity.Reward, error)
	IncreaseRedemptions(ctx context.Context, id string) error
}

type rewardRepository struct{}

func NewRewardRepository() *rewardRepository {
	return &rewardRepository{}
}

func (r *rewardRepository) Create(ctx context.Context, reward *entity.Reward) error {
	return xcontext.DB(ctx).Create(reward).Error
}

func (r *rewardRepository) GetByID(ctx context.Context, id string) (*entity.Reward, error) {
	result := &entity.Reward{}
	if err := xcontext.DB(ctx).Where("id=?", id).Take(result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *rewardRepository) GetActive(ctx context.Context) ([]entity.Reward, error) {
	var result []entity.Reward
	err := xcontext.DB(ctx).
		Where("is_active=?", true).
		Order("created_at ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

// IncreaseRedemptions atomically takes one redemption slot. The condition on
// max_redemptions makes a capped reward fail with ErrRedemptionCapReached
// instead of over-counting.
func (r *rewardRepository) IncreaseRedemptions(ctx context.Context, id string) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Reward{}).
		Where("id=? AND (max_redemptions IS NULL OR current_redemptions < max_redemptions)", id).
		Update("current_redemptions", gorm.Expr("current_redemptions+1"))

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return ErrRedemptionCapReached
	}

	return nil
}
