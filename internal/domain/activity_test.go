package domain

import (
	"context"
	"testing"

	"github.com/basequest/backend/internal/common"
	"github.com/basequest/backend/internal/domain/activityscan"
	"github.com/basequest/backend/internal/domain/statistic"
	"github.com/basequest/backend/internal/model"
	"github.com/basequest/backend/internal/repository"
	"github.com/basequest/backend/pkg/api/alchemy"
	"github.com/basequest/backend/pkg/errorx"
	"github.com/basequest/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func newTestActivityDomain(endpoint alchemy.IEndpoint, redis *testutil.MockRedisClient) ActivityDomain {
	walletRepo := repository.NewWalletRepository()
	activityRepo := repository.NewActivityRepository()

	return NewActivityDomain(
		activityscan.NewPipeline(endpoint, walletRepo, activityRepo),
		walletRepo,
		activityRepo,
		statistic.New(walletRepo, repository.NewQuestUserRepository(), redis),
		common.NewUserLocker(),
	)
}

func TestActivityDomain_GetActivities(t *testing.T) {
	ctx := testutil.MockContext(t)

	endpoint := &testutil.MockAlchemyEndpoint{
		GetBlockNumberFunc: func(ctx context.Context) (uint64, error) {
			return 10, nil
		},
		GetAssetTransfersFunc: func(
			ctx context.Context, filter alchemy.TransferFilter,
		) ([]alchemy.Transfer, error) {
			if !filter.Inbound {
				return nil, nil
			}

			return []alchemy.Transfer{{
				Hash:     "0xaaa",
				BlockNum: 5,
				From:     "0x1111111111111111111111111111111111111111",
				To:       testUser,
				Value:    10,
				Asset:    "USDC",
				Category: alchemy.CategoryERC20,
			}}, nil
		},
	}

	redisClient := testutil.NewMockRedisClient()
	activityDomain := newTestActivityDomain(endpoint, redisClient)

	resp, err := activityDomain.GetActivities(ctx, &model.GetActivitiesRequest{
		Address: testUser,
	})
	require.NoError(t, err)
	require.Len(t, resp.Activities, 1)
	require.Equal(t, int64(10), resp.TotalPoints)
	require.Equal(t, "Newbie", resp.Level)
	require.Equal(t, "Newbie", resp.LevelBadge)
	require.Equal(t, uint64(10), resp.LastScannedBlock)
	require.True(t, resp.IsInitialScanComplete)

	// The combined points board follows the scan.
	require.Equal(t, float64(10), redisClient.Sets["leaderboard:points"][testUser])

	_, err = activityDomain.GetActivities(ctx, &model.GetActivitiesRequest{})
	require.Error(t, err)
}

func TestActivityDomain_RecordActivity(t *testing.T) {
	ctx := testutil.MockContext(t)
	activityDomain := newTestActivityDomain(&testutil.MockAlchemyEndpoint{}, testutil.NewMockRedisClient())

	resp, err := activityDomain.RecordActivity(ctx, &model.RecordActivityRequest{
		Address:     testUser,
		Type:        "swap",
		Description: "Swapped on a DEX",
		TxHash:      "0xabc",
	})
	require.NoError(t, err)
	require.Equal(t, int64(30), resp.TotalPoints)
	require.Equal(t, int64(30), resp.Activity.Points)

	// The same transaction cannot be recorded twice.
	_, err = activityDomain.RecordActivity(ctx, &model.RecordActivityRequest{
		Address: testUser,
		Type:    "swap",
		TxHash:  "0xabc",
	})
	require.Error(t, err)
	require.Equal(t, errorx.AlreadyExists, err.(errorx.Error).Code)

	// Unknown types are rejected.
	_, err = activityDomain.RecordActivity(ctx, &model.RecordActivityRequest{
		Address: testUser,
		Type:    "teleport",
	})
	require.Error(t, err)
}
