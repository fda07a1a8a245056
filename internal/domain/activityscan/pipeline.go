package activityscan

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/basequest/backend/internal/common"
	"github.com/basequest/backend/internal/entity"
	"github.com/basequest/backend/internal/repository"
	"github.com/basequest/backend/pkg/api/alchemy"
	"github.com/basequest/backend/pkg/xcontext"
	"github.com/puzpuzpuz/xsync"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

var transferCategories = []string{
	alchemy.CategoryExternal,
	alchemy.CategoryInternal,
	alchemy.CategoryERC20,
	alchemy.CategoryERC721,
	alchemy.CategoryERC1155,
}

// Pipeline refreshes a wallet from the chain: it pulls transfers in both
// directions since the scan cursor, classifies and scores them, merges them
// with the stored list, and recomputes the wallet totals.
type Pipeline struct {
	alchemyEndpoint alchemy.IEndpoint
	walletRepo      repository.WalletRepository
	activityRepo    repository.ActivityRepository

	nftNames *xsync.MapOf[string, string]
}

func NewPipeline(
	alchemyEndpoint alchemy.IEndpoint,
	walletRepo repository.WalletRepository,
	activityRepo repository.ActivityRepository,
) *Pipeline {
	return &Pipeline{
		alchemyEndpoint: alchemyEndpoint,
		walletRepo:      walletRepo,
		activityRepo:    activityRepo,
		nftNames:        xsync.NewMapOf[string](),
	}
}

// EnsureScanned returns the wallet record and its activity list, scanning the
// chain first when the record is missing, the caller forces a refresh, or new
// blocks appeared since the cursor. Callers serialize invocations per wallet.
func (p *Pipeline) EnsureScanned(
	ctx context.Context, address string, forceRefresh bool,
) (*entity.Wallet, []entity.Activity, error) {
	address = strings.ToLower(address)

	wallet, err := p.walletRepo.Get(ctx, address)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, err
		}

		wallet = nil
	}

	blockNumber, err := p.alchemyEndpoint.GetBlockNumber(ctx)
	if err != nil {
		if wallet != nil {
			// Serve the stored record, the cursor stays put and the next
			// trigger retries.
			xcontext.Logger(ctx).Warnf("Cannot get block number, serve stored data: %v", err)
			activities, err := p.activityRepo.GetByWallet(ctx, address, 0)
			if err != nil {
				return nil, nil, err
			}

			return wallet, activities, nil
		}

		return nil, nil, err
	}

	if wallet != nil && wallet.IsInitialScanComplete && !forceRefresh &&
		blockNumber <= wallet.LastScannedBlock {
		activities, err := p.activityRepo.GetByWallet(ctx, address, 0)
		if err != nil {
			return nil, nil, err
		}

		return wallet, activities, nil
	}

	var fromBlock uint64
	if wallet != nil && wallet.IsInitialScanComplete {
		fromBlock = wallet.LastScannedBlock + 1
	}

	transfers := p.fetchTransfers(ctx, address, fromBlock)

	stored, err := p.activityRepo.GetByWallet(ctx, address, 0)
	if err != nil {
		return nil, nil, err
	}

	merged := p.merge(ctx, address, stored, transfers)

	cfg := xcontext.Configs(ctx)
	if len(merged) > cfg.Scan.MaxActivities {
		merged = merged[:cfg.Scan.MaxActivities]
	}

	var totalPoints int64
	for _, activity := range merged {
		totalPoints += activity.Points
	}

	var questPoints int64
	if wallet != nil {
		questPoints = wallet.QuestPoints
	}

	updated := &entity.Wallet{
		Address:               address,
		TotalPoints:           totalPoints,
		QuestPoints:           questPoints,
		CombinedPoints:        totalPoints + questPoints,
		Level:                 common.LevelOf(totalPoints + questPoints),
		LastScannedBlock:      blockNumber,
		IsInitialScanComplete: true,
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := p.walletRepo.Upsert(ctx, updated); err != nil {
		return nil, nil, err
	}

	if err := p.activityRepo.ReplaceAll(ctx, address, merged); err != nil {
		return nil, nil, err
	}

	xcontext.WithCommitDBTransaction(ctx)

	return updated, merged, nil
}

// fetchTransfers pulls both directions concurrently. A failed direction
// degrades to an empty list so one indexer hiccup does not hide the other
// half of the history.
func (p *Pipeline) fetchTransfers(
	ctx context.Context, address string, fromBlock uint64,
) map[entity.ActivityDirection][]alchemy.Transfer {
	pageSize := xcontext.Configs(ctx).Scan.TransferPageSize

	var inbound, outbound []alchemy.Transfer
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		transfers, err := p.alchemyEndpoint.GetAssetTransfers(gctx, alchemy.TransferFilter{
			Address:    address,
			Inbound:    true,
			FromBlock:  fromBlock,
			Categories: transferCategories,
			MaxCount:   pageSize,
		})
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot get inbound transfers of %s: %v", address, err)
			return nil
		}

		inbound = transfers
		return nil
	})

	g.Go(func() error {
		transfers, err := p.alchemyEndpoint.GetAssetTransfers(gctx, alchemy.TransferFilter{
			Address:    address,
			Inbound:    false,
			FromBlock:  fromBlock,
			Categories: transferCategories,
			MaxCount:   pageSize,
		})
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot get outbound transfers of %s: %v", address, err)
			return nil
		}

		outbound = transfers
		return nil
	})

	// Fetch closures never return an error, they degrade instead.
	_ = g.Wait()

	return map[entity.ActivityDirection][]alchemy.Transfer{
		entity.Inbound:  inbound,
		entity.Outbound: outbound,
	}
}

// merge folds freshly classified transfers into the stored list. Stored rows
// win on duplicate keys so their ids and timestamps stay stable. The result
// is ordered most recent first.
func (p *Pipeline) merge(
	ctx context.Context,
	address string,
	stored []entity.Activity,
	transfers map[entity.ActivityDirection][]alchemy.Transfer,
) []entity.Activity {
	merged := make([]entity.Activity, 0, len(stored))
	seen := make(map[string]struct{}, len(stored))
	for _, activity := range stored {
		if _, ok := seen[activity.DedupeKey()]; ok {
			continue
		}

		seen[activity.DedupeKey()] = struct{}{}
		merged = append(merged, activity)
	}

	for direction, directionTransfers := range transfers {
		for _, transfer := range directionTransfers {
			activity := p.buildActivity(ctx, address, transfer, direction)
			if _, ok := seen[activity.DedupeKey()]; ok {
				continue
			}

			seen[activity.DedupeKey()] = struct{}{}
			merged = append(merged, activity)
		}
	}

	sort.Slice(merged, func(i, j int) bool {
		if !merged[i].OccurredAt.Equal(merged[j].OccurredAt) {
			return merged[i].OccurredAt.After(merged[j].OccurredAt)
		}

		return merged[i].ID > merged[j].ID
	})

	return merged
}

func (p *Pipeline) buildActivity(
	ctx context.Context, address string, transfer alchemy.Transfer, direction entity.ActivityDirection,
) entity.Activity {
	if transfer.Category == alchemy.CategoryERC721 || transfer.Category == alchemy.CategoryERC1155 {
		if name := p.resolveCollectionName(ctx, transfer.ContractAddress); name != "" {
			transfer.Asset = name
		}
	}

	c := classify(transfer, direction)

	return entity.Activity{
		SnowFlakeBase: entity.SnowFlakeBase{ID: xcontext.SnowFlake(ctx).Generate().Int64()},
		WalletAddress: address,
		Type:          c.Type,
		Description:   c.Description,
		OccurredAt:    transfer.Timestamp,
		Points:        PointsFor(c.Type),
		TxHash:        transfer.Hash,
		Direction:     direction,
		Asset:         transfer.Asset,
		TokenID:       transfer.TokenID,
	}
}

// resolveCollectionName names an NFT contract, preferring the static list,
// then the in-process cache, then the metadata endpoint. Lookup failures are
// not cached so a transient error can recover on the next scan.
func (p *Pipeline) resolveCollectionName(ctx context.Context, contractAddress string) string {
	if contractAddress == "" {
		return ""
	}

	contractAddress = strings.ToLower(contractAddress)
	if name, ok := nftCollections[contractAddress]; ok {
		return name
	}

	if name, ok := p.nftNames.Load(contractAddress); ok {
		return name
	}

	name, err := p.alchemyEndpoint.GetContractName(ctx, contractAddress)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Cannot resolve name of %s: %v", contractAddress, err)
		return ""
	}

	if p.nftNames.Size() < xcontext.Configs(ctx).Scan.NFTNameCacheSize {
		p.nftNames.Store(contractAddress, name)
	}

	return name
}
