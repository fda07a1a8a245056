package repository

import (
	"context"

	"github.com/basequest/backend/internal/entity"
	"github.com/basequest/backend/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type WalletRepository interface {
	Get(ctx context.Context, address string) (*entity.Wallet, error)
	Upsert(ctx context.Context, wallet *entity.Wallet) error
	UpdateQuestPoints(ctx context.Context, address string, questPoints, combinedPoints int64, level string) error
	GetTopByCombinedPoints(ctx context.Context, offset, limit int) ([]entity.Wallet, error)
	GetAll(ctx context.Context) ([]entity.Wallet, error)
}

type walletRepository struct{}

func NewWalletRepository() *walletRepository {
	return &walletRepository{}
}

func (r *walletRepository) Get(ctx context.Context, address string) (*entity.Wallet, error) {
	result := &entity.Wallet{}
	if err := xcontext.DB(ctx).Where("address=?", address).Take(result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *walletRepository) Upsert(ctx context.Context, wallet *entity.Wallet) error {
	return xcontext.DB(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "address"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"total_points",
				"quest_points",
				"combined_points",
				"level",
				"last_scanned_block",
				"is_initial_scan_complete",
				"updated_at",
			}),
		}).Create(wallet).Error
}

func (r *walletRepository) UpdateQuestPoints(
	ctx context.Context, address string, questPoints, combinedPoints int64, level string,
) error {
	return xcontext.DB(ctx).
		Model(&entity.Wallet{}).
		Where("address=?", address).
		Updates(map[string]any{
			"quest_points":    questPoints,
			"combined_points": combinedPoints,
			"level":           level,
		}).Error
}

func (r *walletRepository) GetTopByCombinedPoints(
	ctx context.Context, offset, limit int,
) ([]entity.Wallet, error) {
	var result []entity.Wallet
	err := xcontext.DB(ctx).
		Order("combined_points DESC").
		Offset(offset).Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *walletRepository) GetAll(ctx context.Context) ([]entity.Wallet, error) {
	var result []entity.Wallet
	if err := xcontext.DB(ctx).Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}
