package statistic

import (
	"context"

	"github.com/basequest/backend/internal/model"
	"github.com/basequest/backend/internal/repository"
	"github.com/basequest/backend/pkg/xcontext"
	"github.com/basequest/backend/pkg/xredis"
	"github.com/redis/go-redis/v9"
)

// Leaderboard ranks wallets by combined points or by completed quests. Boards
// live in redis sorted sets and are rebuilt from the store when a key is
// missing.
type Leaderboard interface {
	GetLeaderboard(ctx context.Context, orderedBy string, offset, limit int) ([]model.LeaderboardEntry, error)
	GetRank(ctx context.Context, userAddress, orderedBy string) (uint64, error)
	ChangePoints(ctx context.Context, userAddress string, combinedPoints int64) error
	ChangeQuests(ctx context.Context, userAddress string, totalCompleted int64) error
}

type leaderboard struct {
	walletRepo    repository.WalletRepository
	questUserRepo repository.QuestUserRepository
	redisClient   xredis.Client
}

func New(
	walletRepo repository.WalletRepository,
	questUserRepo repository.QuestUserRepository,
	redisClient xredis.Client,
) *leaderboard {
	return &leaderboard{
		walletRepo:    walletRepo,
		questUserRepo: questUserRepo,
		redisClient:   redisClient,
	}
}

func (l *leaderboard) GetLeaderboard(
	ctx context.Context, orderedBy string, offset, limit int,
) ([]model.LeaderboardEntry, error) {
	key := keyOf(orderedBy)
	if err := l.rebuildIfMissing(ctx, key); err != nil {
		return nil, err
	}

	zs, err := l.redisClient.ZRevRangeWithScores(ctx, key, offset, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]model.LeaderboardEntry, 0, len(zs))
	for i, z := range zs {
		address, ok := z.Member.(string)
		if !ok {
			xcontext.Logger(ctx).Warnf("Invalid leaderboard member %T", z.Member)
			continue
		}

		entries = append(entries, model.LeaderboardEntry{
			Address:     address,
			Value:       int64(z.Score),
			CurrentRank: offset + i + 1,
		})
	}

	return entries, nil
}

func (l *leaderboard) GetRank(
	ctx context.Context, userAddress, orderedBy string,
) (uint64, error) {
	key := keyOf(orderedBy)
	if err := l.rebuildIfMissing(ctx, key); err != nil {
		return 0, err
	}

	rank, err := l.redisClient.ZRevRank(ctx, key, userAddress)
	if err != nil {
		return 0, err
	}

	return rank + 1, nil
}

// ChangePoints sets the absolute combined score of a wallet. Callers pass the
// recomputed total, not a delta, so rescans stay idempotent on the board.
func (l *leaderboard) ChangePoints(
	ctx context.Context, userAddress string, combinedPoints int64,
) error {
	return l.redisClient.ZAdd(ctx, pointsKey(), redis.Z{
		Member: userAddress,
		Score:  float64(combinedPoints),
	})
}

func (l *leaderboard) ChangeQuests(
	ctx context.Context, userAddress string, totalCompleted int64,
) error {
	return l.redisClient.ZAdd(ctx, questsKey(), redis.Z{
		Member: userAddress,
		Score:  float64(totalCompleted),
	})
}

func (l *leaderboard) rebuildIfMissing(ctx context.Context, key string) error {
	exist, err := l.redisClient.Exist(ctx, key)
	if err != nil {
		return err
	}

	if exist {
		return nil
	}

	switch key {
	case pointsKey():
		wallets, err := l.walletRepo.GetAll(ctx)
		if err != nil {
			return err
		}

		for _, wallet := range wallets {
			err := l.redisClient.ZAdd(ctx, key, redis.Z{
				Member: wallet.Address,
				Score:  float64(wallet.CombinedPoints),
			})
			if err != nil {
				return err
			}
		}

	case questsKey():
		questUsers, err := l.questUserRepo.GetAll(ctx)
		if err != nil {
			return err
		}

		for _, questUser := range questUsers {
			err := l.redisClient.ZAdd(ctx, key, redis.Z{
				Member: questUser.UserAddress,
				Score:  float64(questUser.TotalQuestsCompleted),
			})
			if err != nil {
				return err
			}
		}
	}

	return nil
}
