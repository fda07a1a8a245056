package domain

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/basequest/backend/internal/common"
	"github.com/basequest/backend/internal/domain/activityscan"
	"github.com/basequest/backend/internal/domain/statistic"
	"github.com/basequest/backend/internal/entity"
	"github.com/basequest/backend/internal/model"
	"github.com/basequest/backend/internal/repository"
	"github.com/basequest/backend/pkg/enum"
	"github.com/basequest/backend/pkg/errorx"
	"github.com/basequest/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type ActivityDomain interface {
	GetActivities(ctx context.Context, req *model.GetActivitiesRequest) (*model.GetActivitiesResponse, error)
	RecordActivity(ctx context.Context, req *model.RecordActivityRequest) (*model.RecordActivityResponse, error)
}

type activityDomain struct {
	pipeline     *activityscan.Pipeline
	walletRepo   repository.WalletRepository
	activityRepo repository.ActivityRepository
	leaderboard  statistic.Leaderboard
	userLocker   *common.UserLocker
}

func NewActivityDomain(
	pipeline *activityscan.Pipeline,
	walletRepo repository.WalletRepository,
	activityRepo repository.ActivityRepository,
	leaderboard statistic.Leaderboard,
	userLocker *common.UserLocker,
) *activityDomain {
	return &activityDomain{
		pipeline:     pipeline,
		walletRepo:   walletRepo,
		activityRepo: activityRepo,
		leaderboard:  leaderboard,
		userLocker:   userLocker,
	}
}

func (d *activityDomain) GetActivities(
	ctx context.Context, req *model.GetActivitiesRequest,
) (*model.GetActivitiesResponse, error) {
	if req.Address == "" {
		return nil, errorx.New(errorx.BadRequest, "Require an address")
	}

	address := strings.ToLower(req.Address)

	unlock := d.userLocker.Lock(address)
	wallet, activities, err := d.pipeline.EnsureScanned(ctx, address, req.ForceRefresh)
	unlock()
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot scan activities of %s: %v", address, err)
		return nil, errorx.Unknown
	}

	if err := d.leaderboard.ChangePoints(ctx, address, wallet.CombinedPoints); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot update points leaderboard: %v", err)
	}

	clientActivities := make([]model.Activity, 0, len(activities))
	for i := range activities {
		clientActivities = append(clientActivities, model.ConvertActivity(&activities[i]))
	}

	return &model.GetActivitiesResponse{
		Address:               wallet.Address,
		Activities:            clientActivities,
		TotalPoints:           wallet.TotalPoints,
		CombinedPoints:        wallet.CombinedPoints,
		Level:                 wallet.Level,
		LevelBadge:            common.LevelBadgeOf(wallet.CombinedPoints),
		LastScannedBlock:      wallet.LastScannedBlock,
		IsInitialScanComplete: wallet.IsInitialScanComplete,
	}, nil
}

func (d *activityDomain) RecordActivity(
	ctx context.Context, req *model.RecordActivityRequest,
) (*model.RecordActivityResponse, error) {
	if req.Address == "" {
		return nil, errorx.New(errorx.BadRequest, "Require an address")
	}

	activityType, err := enum.ToEnum[entity.ActivityType](req.Type)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid activity type %s", req.Type)
	}

	address := strings.ToLower(req.Address)

	unlock := d.userLocker.Lock(address)
	defer unlock()

	activity := entity.Activity{
		SnowFlakeBase: entity.SnowFlakeBase{ID: xcontext.SnowFlake(ctx).Generate().Int64()},
		WalletAddress: address,
		Type:          activityType,
		Description:   req.Description,
		OccurredAt:    time.Now(),
		Points:        activityscan.PointsFor(activityType),
		TxHash:        req.TxHash,
		Direction:     entity.Outbound,
	}

	stored, err := d.activityRepo.GetByWallet(ctx, address, 0)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get activities: %v", err)
		return nil, errorx.Unknown
	}

	if req.TxHash != "" {
		for _, existing := range stored {
			if existing.DedupeKey() == activity.DedupeKey() {
				return nil, errorx.New(errorx.AlreadyExists, "Activity already recorded")
			}
		}
	}

	wallet, err := d.walletRepo.Get(ctx, address)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get wallet: %v", err)
			return nil, errorx.Unknown
		}

		wallet = &entity.Wallet{Address: address}
	}

	wallet.TotalPoints += activity.Points
	wallet.CombinedPoints = wallet.TotalPoints + wallet.QuestPoints
	wallet.Level = common.LevelOf(wallet.CombinedPoints)

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.activityRepo.Create(ctx, &activity); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create activity: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.walletRepo.Upsert(ctx, wallet); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update wallet: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	if err := d.leaderboard.ChangePoints(ctx, address, wallet.CombinedPoints); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot update points leaderboard: %v", err)
	}

	return &model.RecordActivityResponse{
		Activity:    model.ConvertActivity(&activity),
		TotalPoints: wallet.TotalPoints,
	}, nil
}
