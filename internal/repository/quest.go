package repository

import (
	"context"

	"github.com/basequest/backend/internal/entity"
	"github.com/basequest/backend/pkg/xcontext"
)

type QuestRepository interface {
	Create(ctx context.Context, quest *entity.Quest) error
	GetByID(ctx context.Context, id string) (*entity.Quest, error)
	GetActive(ctx context.Context) ([]entity.Quest, error)
	GetAll(ctx context.Context) ([]entity.Quest, error)
}

type questRepository struct{}

func NewQuestRepository() *questRepository {
	return &questRepository{}
}

func (r *questRepository) Create(ctx context.Context, quest *entity.Quest) error {
	return xcontext.DB(ctx).Create(quest).Error
}

func (r *questRepository) GetByID(ctx context.Context, id string) (*entity.Quest, error) {
	result := &entity.Quest{}
	if err := xcontext.DB(ctx).Where("id=?", id).Take(result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *questRepository) GetActive(ctx context.Context) ([]entity.Quest, error) {
	var result []entity.Quest
	err := xcontext.DB(ctx).
		Where("is_active=?", true).
		Order("start_date ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *questRepository) GetAll(ctx context.Context) ([]entity.Quest, error) {
	var result []entity.Quest
	if err := xcontext.DB(ctx).Order("start_date ASC").Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}
