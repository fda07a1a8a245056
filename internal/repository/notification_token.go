package repository

import (
	"context"

	"github.com/basequest/backend/internal/entity"
	"github.com/basequest/backend/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type NotificationTokenRepository interface {
	Get(ctx context.Context, fid int64) (*entity.NotificationToken, error)
	GetAll(ctx context.Context) ([]entity.NotificationToken, error)
	Upsert(ctx context.Context, token *entity.NotificationToken) error
	Delete(ctx context.Context, fid int64) error
}

type notificationTokenRepository struct{}

func NewNotificationTokenRepository() *notificationTokenRepository {
	return &notificationTokenRepository{}
}

func (r *notificationTokenRepository) Get(
	ctx context.Context, fid int64,
) (*entity.NotificationToken, error) {
	result := &entity.NotificationToken{}
	if err := xcontext.DB(ctx).Where("fid=?", fid).Take(result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *notificationTokenRepository) GetAll(
	ctx context.Context,
) ([]entity.NotificationToken, error) {
	var result []entity.NotificationToken
	if err := xcontext.DB(ctx).Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *notificationTokenRepository) Upsert(
	ctx context.Context, token *entity.NotificationToken,
) error {
	return xcontext.DB(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "fid"}},
			DoUpdates: clause.AssignmentColumns([]string{"token", "url", "updated_at"}),
		}).Create(token).Error
}

func (r *notificationTokenRepository) Delete(ctx context.Context, fid int64) error {
	return xcontext.DB(ctx).Where("fid=?", fid).Delete(&entity.NotificationToken{}).Error
}
