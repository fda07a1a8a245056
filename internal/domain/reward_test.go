package domain

import (
	"testing"
	"time"

	"github.com/basequest/backend/internal/common"
	"github.com/basequest/backend/internal/entity"
	"github.com/basequest/backend/internal/model"
	"github.com/basequest/backend/internal/repository"
	"github.com/basequest/backend/pkg/errorx"
	"github.com/basequest/backend/pkg/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const (
	testUser      = "0xabcdef0123456789abcdef0123456789abcdef01"
	testOtherUser = "0x1234567890abcdef1234567890abcdef12345678"
)

func newTestRewardDomain() RewardDomain {
	return NewRewardDomain(
		repository.NewRewardRepository(),
		repository.NewUserRewardRepository(),
		repository.NewUserQuestRepository(),
		repository.NewWalletRepository(),
		&testutil.MockPublisher{},
		common.NewUserLocker(),
	)
}

func TestRewardDomain_Eligibility(t *testing.T) {
	ctx := testutil.MockContext(t)
	rewardDomain := newTestRewardDomain()

	questID := uuid.NewString()
	createResp, err := rewardDomain.Create(ctx, &model.CreateRewardRequest{
		Name:           "Exclusive Badge",
		Type:           "badge",
		RequiredPoints: 100,
		QuestIDs:       []string{questID},
	})
	require.NoError(t, err)

	// No points, no completed quest.
	resp, err := rewardDomain.GetRewards(ctx, &model.GetRewardsRequest{UserAddress: testUser})
	require.NoError(t, err)
	require.Len(t, resp.Rewards, 1)
	require.False(t, resp.Rewards[0].IsEligible)
	require.Len(t, resp.Rewards[0].UnmetRequirements, 2)

	// Enough points, quest still missing.
	walletRepo := repository.NewWalletRepository()
	require.NoError(t, walletRepo.Upsert(ctx, &entity.Wallet{
		Address:        testUser,
		TotalPoints:    150,
		CombinedPoints: 150,
		Level:          common.LevelOf(150),
	}))

	resp, err = rewardDomain.GetRewards(ctx, &model.GetRewardsRequest{UserAddress: testUser})
	require.NoError(t, err)
	require.False(t, resp.Rewards[0].IsEligible)
	require.Len(t, resp.Rewards[0].UnmetRequirements, 1)

	// Quest completed, now eligible.
	require.NoError(t, repository.NewUserQuestRepository().Create(ctx, &entity.UserQuest{
		UserAddress: testUser,
		QuestID:     questID,
		IsCompleted: true,
		StartedAt:   time.Now(),
	}))

	resp, err = rewardDomain.GetRewards(ctx, &model.GetRewardsRequest{UserAddress: testUser})
	require.NoError(t, err)
	require.True(t, resp.Rewards[0].IsEligible)
	require.Empty(t, resp.Rewards[0].UnmetRequirements)

	// Redeem flips it to redeemed and not eligible.
	_, err = rewardDomain.Redeem(ctx, &model.RedeemRewardRequest{
		UserAddress: testUser,
		RewardID:    createResp.ID,
	})
	require.NoError(t, err)

	resp, err = rewardDomain.GetRewards(ctx, &model.GetRewardsRequest{UserAddress: testUser})
	require.NoError(t, err)
	require.True(t, resp.Rewards[0].IsRedeemed)
	require.False(t, resp.Rewards[0].IsEligible)
}

func TestRewardDomain_RedeemGuards(t *testing.T) {
	ctx := testutil.MockContext(t)
	rewardDomain := newTestRewardDomain()

	createResp, err := rewardDomain.Create(ctx, &model.CreateRewardRequest{
		Name:           "Limited Drop",
		Type:           "nft",
		MaxRedemptions: 1,
	})
	require.NoError(t, err)

	walletRepo := repository.NewWalletRepository()
	for _, address := range []string{testUser, testOtherUser} {
		require.NoError(t, walletRepo.Upsert(ctx, &entity.Wallet{Address: address}))
	}

	_, err = rewardDomain.Redeem(ctx, &model.RedeemRewardRequest{
		UserAddress: testUser,
		RewardID:    createResp.ID,
	})
	require.NoError(t, err)

	// A second redemption of the same user is rejected.
	_, err = rewardDomain.Redeem(ctx, &model.RedeemRewardRequest{
		UserAddress: testUser,
		RewardID:    createResp.ID,
	})
	require.Error(t, err)
	require.Equal(t, errorx.AlreadyExists, err.(errorx.Error).Code)

	// The cap blocks any further user.
	_, err = rewardDomain.Redeem(ctx, &model.RedeemRewardRequest{
		UserAddress: testOtherUser,
		RewardID:    createResp.ID,
	})
	require.Error(t, err)

	// The counter moved exactly once.
	reward, err := repository.NewRewardRepository().GetByID(ctx, createResp.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), reward.CurrentRedemptions)
}

func TestRewardDomain_RedeemUnknownReward(t *testing.T) {
	ctx := testutil.MockContext(t)
	rewardDomain := newTestRewardDomain()

	_, err := rewardDomain.Redeem(ctx, &model.RedeemRewardRequest{
		UserAddress: testUser,
		RewardID:    uuid.NewString(),
	})
	require.Error(t, err)
	require.Equal(t, errorx.NotFound, err.(errorx.Error).Code)
}
