package entity

import (
	"context"

	"github.com/basequest/backend/pkg/xcontext"
)

func MigrateTable(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&Wallet{},
		&Activity{},
		&Quest{},
		&UserQuest{},
		&QuestUser{},
		&Reward{},
		&UserReward{},
		&NotificationToken{},
	)
}
