package statistic

import (
	"testing"

	"github.com/basequest/backend/internal/entity"
	"github.com/basequest/backend/internal/repository"
	"github.com/basequest/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func TestLeaderboard_RebuildFromStore(t *testing.T) {
	ctx := testutil.MockContext(t)

	walletRepo := repository.NewWalletRepository()
	for _, wallet := range []entity.Wallet{
		{Address: "0xaaa", CombinedPoints: 300},
		{Address: "0xbbb", CombinedPoints: 700},
		{Address: "0xccc", CombinedPoints: 100},
	} {
		w := wallet
		require.NoError(t, walletRepo.Upsert(ctx, &w))
	}

	leaderboard := New(walletRepo, repository.NewQuestUserRepository(), testutil.NewMockRedisClient())

	// The redis key does not exist yet, the first read rebuilds it.
	entries, err := leaderboard.GetLeaderboard(ctx, OrderedByPoints, 0, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, "0xbbb", entries[0].Address)
	require.Equal(t, int64(700), entries[0].Value)
	require.Equal(t, 1, entries[0].CurrentRank)
	require.Equal(t, "0xccc", entries[2].Address)

	rank, err := leaderboard.GetRank(ctx, "0xaaa", OrderedByPoints)
	require.NoError(t, err)
	require.Equal(t, uint64(2), rank)
}

func TestLeaderboard_ChangePointsIsAbsolute(t *testing.T) {
	ctx := testutil.MockContext(t)

	leaderboard := New(
		repository.NewWalletRepository(),
		repository.NewQuestUserRepository(),
		testutil.NewMockRedisClient(),
	)

	require.NoError(t, leaderboard.ChangePoints(ctx, "0xaaa", 50))
	require.NoError(t, leaderboard.ChangePoints(ctx, "0xaaa", 50))
	require.NoError(t, leaderboard.ChangePoints(ctx, "0xbbb", 80))

	entries, err := leaderboard.GetLeaderboard(ctx, OrderedByPoints, 0, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "0xbbb", entries[0].Address)
	require.Equal(t, int64(50), entries[1].Value)
}

func TestLeaderboard_QuestsBoard(t *testing.T) {
	ctx := testutil.MockContext(t)

	questUserRepo := repository.NewQuestUserRepository()
	require.NoError(t, questUserRepo.Upsert(ctx, &entity.QuestUser{
		UserAddress:          "0xaaa",
		TotalQuestsCompleted: 4,
	}))
	require.NoError(t, questUserRepo.Upsert(ctx, &entity.QuestUser{
		UserAddress:          "0xbbb",
		TotalQuestsCompleted: 9,
	}))

	leaderboard := New(repository.NewWalletRepository(), questUserRepo, testutil.NewMockRedisClient())

	entries, err := leaderboard.GetLeaderboard(ctx, OrderedByQuests, 0, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "0xbbb", entries[0].Address)
	require.Equal(t, int64(9), entries[0].Value)
}
