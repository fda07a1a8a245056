package questprogress

import (
	"context"
	"testing"
	"time"

	"github.com/basequest/backend/internal/entity"
	"github.com/basequest/backend/internal/repository"
	"github.com/basequest/backend/pkg/dateutil"
	"github.com/basequest/backend/pkg/errorx"
	"github.com/basequest/backend/pkg/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const testUser = "0xabcdef0123456789abcdef0123456789abcdef01"

func newTestEngine() *Engine {
	return NewEngine(
		repository.NewQuestRepository(),
		repository.NewUserQuestRepository(),
		repository.NewQuestUserRepository(),
		repository.NewWalletRepository(),
		repository.NewActivityRepository(),
	)
}

func createQuest(
	t *testing.T, ctx context.Context, questType entity.QuestType,
	requirements entity.Map, points int64,
) *entity.Quest {
	quest := &entity.Quest{
		Base:         entity.Base{ID: uuid.NewString()},
		Title:        "test quest",
		Type:         questType,
		Requirements: requirements,
		RewardPoints: points,
		IsActive:     true,
		StartDate:    time.Now(),
	}

	require.NoError(t, repository.NewQuestRepository().Create(ctx, quest))
	return quest
}

func TestEngine_UpdateDailyLoginStreak(t *testing.T) {
	ctx := testutil.MockContext(t)
	engine := newTestEngine()

	// First login starts the streak.
	questUser, err := engine.UpdateDailyLoginStreak(ctx, testUser)
	require.NoError(t, err)
	require.Equal(t, 1, questUser.DailyLoginStreak)
	require.Equal(t, dateutil.Today(), questUser.LastLoginDate)

	// Same day again keeps it.
	questUser, err = engine.UpdateDailyLoginStreak(ctx, testUser)
	require.NoError(t, err)
	require.Equal(t, 1, questUser.DailyLoginStreak)

	// Last login yesterday increments.
	questUser.LastLoginDate = dateutil.Yesterday(time.Now())
	questUser.DailyLoginStreak = 6
	require.NoError(t, repository.NewQuestUserRepository().Upsert(ctx, questUser))

	questUser, err = engine.UpdateDailyLoginStreak(ctx, testUser)
	require.NoError(t, err)
	require.Equal(t, 7, questUser.DailyLoginStreak)

	// A gap resets to 1.
	questUser.LastLoginDate = dateutil.Day(time.Now().AddDate(0, 0, -3))
	require.NoError(t, repository.NewQuestUserRepository().Upsert(ctx, questUser))

	questUser, err = engine.UpdateDailyLoginStreak(ctx, testUser)
	require.NoError(t, err)
	require.Equal(t, 1, questUser.DailyLoginStreak)
}

func TestEngine_StreakQuestScenario(t *testing.T) {
	ctx := testutil.MockContext(t)
	engine := newTestEngine()

	quest := createQuest(t, ctx, entity.QuestStreakBased,
		entity.Map{"streakDays": 7}, 100)

	// Day 6: logged in yesterday with a streak of 6.
	questUserRepo := repository.NewQuestUserRepository()
	require.NoError(t, questUserRepo.Upsert(ctx, &entity.QuestUser{
		UserAddress:      testUser,
		DailyLoginStreak: 6,
		LastLoginDate:    dateutil.Yesterday(time.Now()),
	}))

	// Day 7 login.
	_, err := engine.UpdateDailyLoginStreak(ctx, testUser)
	require.NoError(t, err)

	userQuests, questUser, err := engine.EvaluateAll(ctx, testUser)
	require.NoError(t, err)
	require.Len(t, userQuests, 1)
	require.True(t, userQuests[0].IsCompleted)
	require.Equal(t, float64(7), userQuests[0].Progress)
	require.Equal(t, quest.RewardPoints, questUser.TotalQuestPoints)
	require.Equal(t, 1, questUser.TotalQuestsCompleted)

	// Day 8: points are awarded exactly once.
	_, err = engine.UpdateDailyLoginStreak(ctx, testUser)
	require.NoError(t, err)

	userQuests, questUser, err = engine.EvaluateAll(ctx, testUser)
	require.NoError(t, err)
	require.True(t, userQuests[0].IsCompleted)
	require.Equal(t, quest.RewardPoints, questUser.TotalQuestPoints)
	require.Equal(t, 1, questUser.TotalQuestsCompleted)
}

func TestEngine_ActivityQuest(t *testing.T) {
	ctx := testutil.MockContext(t)
	engine := newTestEngine()

	quest := createQuest(t, ctx, entity.QuestActivityBased,
		entity.Map{"activityCount": 2}, 50)

	activityRepo := repository.NewActivityRepository()
	require.NoError(t, activityRepo.Create(ctx, &entity.Activity{
		SnowFlakeBase: entity.SnowFlakeBase{ID: 1},
		WalletAddress: testUser,
		Type:          entity.TokenTransfer,
		OccurredAt:    time.Now(),
		Points:        10,
	}))

	userQuest, err := engine.EvaluateQuest(ctx, testUser, quest)
	require.NoError(t, err)
	require.False(t, userQuest.IsCompleted)
	require.Equal(t, float64(1), userQuest.Progress)

	require.NoError(t, activityRepo.Create(ctx, &entity.Activity{
		SnowFlakeBase: entity.SnowFlakeBase{ID: 2},
		WalletAddress: testUser,
		Type:          entity.Swap,
		OccurredAt:    time.Now(),
		Points:        30,
	}))

	userQuest, err = engine.EvaluateQuest(ctx, testUser, quest)
	require.NoError(t, err)
	require.True(t, userQuest.IsCompleted)
}

func TestEngine_EarlyAdopterQuest(t *testing.T) {
	ctx := testutil.MockContext(t)
	engine := newTestEngine()

	future := createQuest(t, ctx, entity.QuestEarlyAdopter,
		entity.Map{"targetDate": time.Now().AddDate(0, 0, 1).Format(time.RFC3339)}, 25)

	userQuest, err := engine.EvaluateQuest(ctx, testUser, future)
	require.NoError(t, err)
	require.True(t, userQuest.IsCompleted)

	past := createQuest(t, ctx, entity.QuestEarlyAdopter,
		entity.Map{"targetDate": time.Now().AddDate(0, 0, -1).Format(time.RFC3339)}, 25)

	userQuest, err = engine.EvaluateQuest(ctx, testUser, past)
	require.NoError(t, err)
	require.False(t, userQuest.IsCompleted)
}

func TestEngine_RecordShare(t *testing.T) {
	ctx := testutil.MockContext(t)
	engine := newTestEngine()

	quest := createQuest(t, ctx, entity.QuestShareBased,
		entity.Map{"shareCount": 5, "dailyShareLimit": 3}, 40)

	for i := 1; i <= 3; i++ {
		userQuest, err := engine.RecordShare(ctx, testUser, quest.ID)
		require.NoError(t, err)
		require.Equal(t, float64(i), userQuest.Progress)
		require.False(t, userQuest.IsCompleted)
	}

	// The 4th attempt today hits the daily cap and changes nothing.
	_, err := engine.RecordShare(ctx, testUser, quest.ID)
	require.Error(t, err)
	require.Equal(t, errorx.TooManyRequests, err.(errorx.Error).Code)

	userQuest, err := repository.NewUserQuestRepository().Get(ctx, testUser, quest.ID)
	require.NoError(t, err)
	require.Equal(t, float64(3), userQuest.Progress)

	// Shift the ledger to yesterday, two more shares complete the quest.
	userQuest.DailyShares = entity.Array[entity.DailyShare]{
		{Date: dateutil.Yesterday(time.Now()), Count: 3},
	}
	require.NoError(t, repository.NewUserQuestRepository().Update(ctx, userQuest))

	_, err = engine.RecordShare(ctx, testUser, quest.ID)
	require.NoError(t, err)

	final, err := engine.RecordShare(ctx, testUser, quest.ID)
	require.NoError(t, err)
	require.True(t, final.IsCompleted)
	require.Equal(t, float64(5), final.Progress)

	questUser, err := repository.NewQuestUserRepository().Get(ctx, testUser)
	require.NoError(t, err)
	require.Equal(t, int64(40), questUser.TotalQuestPoints)
}

func TestEngine_SyncCatalogIsAdditive(t *testing.T) {
	ctx := testutil.MockContext(t)
	engine := newTestEngine()

	first := createQuest(t, ctx, entity.QuestShareBased,
		entity.Map{"shareCount": 5}, 10)

	_, userQuests, err := engine.SyncCatalog(ctx, testUser)
	require.NoError(t, err)
	require.Len(t, userQuests, 1)

	// Progress survives a later sync with a grown catalog.
	_, err = engine.RecordShare(ctx, testUser, first.ID)
	require.NoError(t, err)

	createQuest(t, ctx, entity.QuestActivityBased,
		entity.Map{"activityCount": 3}, 10)

	_, userQuests, err = engine.SyncCatalog(ctx, testUser)
	require.NoError(t, err)
	require.Len(t, userQuests, 2)

	for _, userQuest := range userQuests {
		if userQuest.QuestID == first.ID {
			require.Equal(t, float64(1), userQuest.Progress)
		}
	}
}
