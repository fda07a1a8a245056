package repository

import (
	"context"

	"github.com/basequest/backend/internal/entity"
	"github.com/basequest/backend/pkg/xcontext"
)

type ActivityRepository interface {
	GetByWallet(ctx context.Context, address string, limit int) ([]entity.Activity, error)
	Create(ctx context.Context, activity *entity.Activity) error
	ReplaceAll(ctx context.Context, address string, activities []entity.Activity) error
	Count(ctx context.Context, address string) (int64, error)
}

type activityRepository struct{}

func NewActivityRepository() *activityRepository {
	return &activityRepository{}
}

func (r *activityRepository) GetByWallet(
	ctx context.Context, address string, limit int,
) ([]entity.Activity, error) {
	var result []entity.Activity
	tx := xcontext.DB(ctx).
		Where("wallet_address=?", address).
		Order("occurred_at DESC")

	if limit > 0 {
		tx = tx.Limit(limit)
	}

	if err := tx.Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *activityRepository) Create(ctx context.Context, activity *entity.Activity) error {
	return xcontext.DB(ctx).Create(activity).Error
}

// ReplaceAll rewrites the stored activity list of a wallet with the merged
// result of a scan. Callers run this inside the scan transaction. The delete
// is unscoped: merged rows keep their original ids, so soft-deleted rows
// would collide with the re-insert on the primary key.
func (r *activityRepository) ReplaceAll(
	ctx context.Context, address string, activities []entity.Activity,
) error {
	err := xcontext.DB(ctx).
		Unscoped().
		Where("wallet_address=?", address).
		Delete(&entity.Activity{}).Error
	if err != nil {
		return err
	}

	if len(activities) == 0 {
		return nil
	}

	return xcontext.DB(ctx).Create(&activities).Error
}

func (r *activityRepository) Count(ctx context.Context, address string) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).
		Model(&entity.Activity{}).
		Where("wallet_address=?", address).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}
