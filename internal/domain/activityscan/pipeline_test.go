package activityscan

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/basequest/backend/internal/entity"
	"github.com/basequest/backend/internal/repository"
	"github.com/basequest/backend/pkg/api/alchemy"
	"github.com/basequest/backend/pkg/testutil"
	"github.com/basequest/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

const testAddress = "0xabcdef0123456789abcdef0123456789abcdef01"

func testTransfers() ([]alchemy.Transfer, []alchemy.Transfer) {
	now := time.Now()
	inbound := []alchemy.Transfer{
		{
			Hash:      "0xaaa",
			BlockNum:  90,
			From:      "0x1111111111111111111111111111111111111111",
			To:        testAddress,
			Value:     100,
			Asset:     "USDC",
			Category:  alchemy.CategoryERC20,
			Timestamp: now.Add(-2 * time.Hour),
		},
		{
			Hash:            "0xbbb",
			BlockNum:        95,
			From:            "0x0000000000000000000000000000000000000000",
			To:              testAddress,
			Category:        alchemy.CategoryERC721,
			TokenID:         "42",
			ContractAddress: "0x5555555555555555555555555555555555555555",
			Timestamp:       now.Add(-1 * time.Hour),
		},
	}

	outbound := []alchemy.Transfer{
		{
			Hash:      "0xccc",
			BlockNum:  97,
			From:      testAddress,
			To:        "0x3fc91a3afd70395cd496c647d5a6cc9d4b2b7fad",
			Value:     10,
			Asset:     "WETH",
			Category:  alchemy.CategoryERC20,
			Timestamp: now.Add(-30 * time.Minute),
		},
	}

	return inbound, outbound
}

func newTestPipeline(endpoint alchemy.IEndpoint) *Pipeline {
	return NewPipeline(
		endpoint,
		repository.NewWalletRepository(),
		repository.NewActivityRepository(),
	)
}

func TestPipeline_EnsureScanned(t *testing.T) {
	ctx := testutil.MockContext(t)

	inbound, outbound := testTransfers()
	endpoint := &testutil.MockAlchemyEndpoint{
		GetBlockNumberFunc: func(ctx context.Context) (uint64, error) {
			return 100, nil
		},
		GetAssetTransfersFunc: func(
			ctx context.Context, filter alchemy.TransferFilter,
		) ([]alchemy.Transfer, error) {
			if filter.Inbound {
				return inbound, nil
			}

			return outbound, nil
		},
		GetContractNameFunc: func(ctx context.Context, contractAddress string) (string, error) {
			return "Cool Cats", nil
		},
	}

	pipeline := newTestPipeline(endpoint)
	wallet, activities, err := pipeline.EnsureScanned(ctx, testAddress, false)
	require.NoError(t, err)

	// erc20 in (10) + erc721 in (25) + swap out (30).
	require.Len(t, activities, 3)
	require.Equal(t, int64(65), wallet.TotalPoints)
	require.Equal(t, int64(65), wallet.CombinedPoints)
	require.Equal(t, "HODLer", wallet.Level)
	require.Equal(t, uint64(100), wallet.LastScannedBlock)
	require.True(t, wallet.IsInitialScanComplete)

	// Newest first.
	require.Equal(t, "0xccc", activities[0].TxHash)
	require.Equal(t, entity.Swap, activities[0].Type)
	require.Equal(t, entity.NFTTransfer, activities[1].Type)
	require.Contains(t, activities[1].Description, "Cool Cats")
	require.Equal(t, entity.TokenTransfer, activities[2].Type)
}

func TestPipeline_EnsureScannedIsIdempotent(t *testing.T) {
	ctx := testutil.MockContext(t)

	inbound, outbound := testTransfers()
	endpoint := &testutil.MockAlchemyEndpoint{
		GetBlockNumberFunc: func(ctx context.Context) (uint64, error) {
			return 100, nil
		},
		GetAssetTransfersFunc: func(
			ctx context.Context, filter alchemy.TransferFilter,
		) ([]alchemy.Transfer, error) {
			if filter.Inbound {
				return inbound, nil
			}

			return outbound, nil
		},
		GetContractNameFunc: func(ctx context.Context, contractAddress string) (string, error) {
			return "Cool Cats", nil
		},
	}

	pipeline := newTestPipeline(endpoint)
	first, firstActivities, err := pipeline.EnsureScanned(ctx, testAddress, false)
	require.NoError(t, err)

	// The chain did not move, the second call serves stored data.
	second, secondActivities, err := pipeline.EnsureScanned(ctx, testAddress, false)
	require.NoError(t, err)
	require.Equal(t, first.TotalPoints, second.TotalPoints)
	require.Equal(t, first.Level, second.Level)
	require.Len(t, secondActivities, len(firstActivities))

	// A forced refresh returning the same transfers collapses duplicates.
	third, thirdActivities, err := pipeline.EnsureScanned(ctx, testAddress, true)
	require.NoError(t, err)
	require.Equal(t, first.TotalPoints, third.TotalPoints)
	require.Len(t, thirdActivities, len(firstActivities))
}

func TestPipeline_RescanAfterNewBlocks(t *testing.T) {
	ctx := testutil.MockContext(t)

	inbound, outbound := testTransfers()
	block := uint64(100)
	endpoint := &testutil.MockAlchemyEndpoint{
		GetBlockNumberFunc: func(ctx context.Context) (uint64, error) {
			return block, nil
		},
		GetAssetTransfersFunc: func(
			ctx context.Context, filter alchemy.TransferFilter,
		) ([]alchemy.Transfer, error) {
			if filter.Inbound {
				return inbound, nil
			}

			return outbound, nil
		},
		GetContractNameFunc: func(ctx context.Context, contractAddress string) (string, error) {
			return "Cool Cats", nil
		},
	}

	pipeline := newTestPipeline(endpoint)
	first, firstActivities, err := pipeline.EnsureScanned(ctx, testAddress, false)
	require.NoError(t, err)

	// The chain advances and one new stake shows up alongside the old
	// transfers, so the merge keeps every stored row.
	block = 110
	outbound = append(outbound, alchemy.Transfer{
		Hash:      "0xddd",
		BlockNum:  105,
		From:      testAddress,
		To:        "0x16613524e02ad97edfef371bc883f2f5d6c480a5",
		Value:     1,
		Category:  alchemy.CategoryExternal,
		Timestamp: time.Now(),
	})

	second, secondActivities, err := pipeline.EnsureScanned(ctx, testAddress, false)
	require.NoError(t, err)
	require.Len(t, secondActivities, len(firstActivities)+1)
	require.Equal(t, first.TotalPoints+20, second.TotalPoints)
	require.Equal(t, uint64(110), second.LastScannedBlock)

	// Stored rows survive the rewrite with their original ids.
	firstIDs := map[string]int64{}
	for _, activity := range firstActivities {
		firstIDs[activity.TxHash] = activity.ID
	}
	for _, activity := range secondActivities {
		if id, ok := firstIDs[activity.TxHash]; ok {
			require.Equal(t, id, activity.ID)
		}
	}
}

func TestPipeline_BlockNumberFailure(t *testing.T) {
	ctx := testutil.MockContext(t)

	failing := errors.New("rpc down")
	blockErr := error(nil)
	inbound, outbound := testTransfers()
	endpoint := &testutil.MockAlchemyEndpoint{
		GetBlockNumberFunc: func(ctx context.Context) (uint64, error) {
			return 100, blockErr
		},
		GetAssetTransfersFunc: func(
			ctx context.Context, filter alchemy.TransferFilter,
		) ([]alchemy.Transfer, error) {
			if filter.Inbound {
				return inbound, nil
			}

			return outbound, nil
		},
		GetContractNameFunc: func(ctx context.Context, contractAddress string) (string, error) {
			return "", errors.New("no metadata")
		},
	}

	pipeline := newTestPipeline(endpoint)

	// No stored record yet, the failure aborts this invocation.
	blockErr = failing
	_, _, err := pipeline.EnsureScanned(ctx, testAddress, false)
	require.Error(t, err)

	blockErr = nil
	wallet, _, err := pipeline.EnsureScanned(ctx, testAddress, false)
	require.NoError(t, err)

	// With a stored record the failure degrades to the stored data.
	blockErr = failing
	degraded, activities, err := pipeline.EnsureScanned(ctx, testAddress, true)
	require.NoError(t, err)
	require.Equal(t, wallet.TotalPoints, degraded.TotalPoints)
	require.Len(t, activities, 3)
}

func TestPipeline_PerDirectionFailureDegrades(t *testing.T) {
	ctx := testutil.MockContext(t)

	inbound, _ := testTransfers()
	endpoint := &testutil.MockAlchemyEndpoint{
		GetBlockNumberFunc: func(ctx context.Context) (uint64, error) {
			return 100, nil
		},
		GetAssetTransfersFunc: func(
			ctx context.Context, filter alchemy.TransferFilter,
		) ([]alchemy.Transfer, error) {
			if filter.Inbound {
				return inbound, nil
			}

			return nil, errors.New("indexer timeout")
		},
		GetContractNameFunc: func(ctx context.Context, contractAddress string) (string, error) {
			return "", errors.New("no metadata")
		},
	}

	pipeline := newTestPipeline(endpoint)
	wallet, activities, err := pipeline.EnsureScanned(ctx, testAddress, false)
	require.NoError(t, err)
	require.Len(t, activities, 2)
	require.Equal(t, int64(35), wallet.TotalPoints)
}

func TestPipeline_ActivityCap(t *testing.T) {
	ctx := testutil.MockContext(t)

	configs := testutil.MockConfigs()
	configs.Scan.MaxActivities = 2
	ctx = xcontext.WithConfigs(ctx, configs)

	inbound, outbound := testTransfers()
	endpoint := &testutil.MockAlchemyEndpoint{
		GetBlockNumberFunc: func(ctx context.Context) (uint64, error) {
			return 100, nil
		},
		GetAssetTransfersFunc: func(
			ctx context.Context, filter alchemy.TransferFilter,
		) ([]alchemy.Transfer, error) {
			if filter.Inbound {
				return inbound, nil
			}

			return outbound, nil
		},
		GetContractNameFunc: func(ctx context.Context, contractAddress string) (string, error) {
			return "", errors.New("no metadata")
		},
	}

	pipeline := newTestPipeline(endpoint)
	wallet, activities, err := pipeline.EnsureScanned(ctx, testAddress, false)
	require.NoError(t, err)

	// The two newest survive: the swap (30) and the nft transfer (25).
	require.Len(t, activities, 2)
	require.Equal(t, int64(55), wallet.TotalPoints)
}
