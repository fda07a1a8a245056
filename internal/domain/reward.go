package domain

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/basequest/backend/internal/common"
	"github.com/basequest/backend/internal/entity"
	"github.com/basequest/backend/internal/model"
	"github.com/basequest/backend/internal/repository"
	"github.com/basequest/backend/pkg/enum"
	"github.com/basequest/backend/pkg/errorx"
	"github.com/basequest/backend/pkg/pubsub"
	"github.com/basequest/backend/pkg/xcontext"
	"github.com/google/uuid"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

type RewardDomain interface {
	GetRewards(ctx context.Context, req *model.GetRewardsRequest) (*model.GetRewardsResponse, error)
	Redeem(ctx context.Context, req *model.RedeemRewardRequest) (*model.RedeemRewardResponse, error)
	Create(ctx context.Context, req *model.CreateRewardRequest) (*model.CreateRewardResponse, error)
}

type rewardDomain struct {
	rewardRepo     repository.RewardRepository
	userRewardRepo repository.UserRewardRepository
	userQuestRepo  repository.UserQuestRepository
	walletRepo     repository.WalletRepository
	publisher      pubsub.Publisher
	userLocker     *common.UserLocker
}

func NewRewardDomain(
	rewardRepo repository.RewardRepository,
	userRewardRepo repository.UserRewardRepository,
	userQuestRepo repository.UserQuestRepository,
	walletRepo repository.WalletRepository,
	publisher pubsub.Publisher,
	userLocker *common.UserLocker,
) *rewardDomain {
	return &rewardDomain{
		rewardRepo:     rewardRepo,
		userRewardRepo: userRewardRepo,
		userQuestRepo:  userQuestRepo,
		walletRepo:     walletRepo,
		publisher:      publisher,
		userLocker:     userLocker,
	}
}

func (d *rewardDomain) GetRewards(
	ctx context.Context, req *model.GetRewardsRequest,
) (*model.GetRewardsResponse, error) {
	if req.UserAddress == "" {
		return nil, errorx.New(errorx.BadRequest, "Require an user address")
	}

	userAddress := strings.ToLower(req.UserAddress)

	rewards, err := d.rewardRepo.GetActive(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get rewards: %v", err)
		return nil, errorx.Unknown
	}

	combinedPoints, completedQuests, redeemed, err := d.userState(ctx, userAddress)
	if err != nil {
		return nil, err
	}

	clientRewards := make([]model.Reward, 0, len(rewards))
	for i := range rewards {
		clientReward := model.ConvertReward(&rewards[i])
		clientReward.IsRedeemed = redeemed[rewards[i].ID]
		clientReward.UnmetRequirements = unmetRequirements(
			&rewards[i], combinedPoints, completedQuests, redeemed[rewards[i].ID])
		clientReward.IsEligible = len(clientReward.UnmetRequirements) == 0 &&
			!clientReward.IsRedeemed

		clientRewards = append(clientRewards, clientReward)
	}

	return &model.GetRewardsResponse{Rewards: clientRewards}, nil
}

func (d *rewardDomain) Redeem(
	ctx context.Context, req *model.RedeemRewardRequest,
) (*model.RedeemRewardResponse, error) {
	if req.UserAddress == "" {
		return nil, errorx.New(errorx.BadRequest, "Require an user address")
	}

	if req.RewardID == "" {
		return nil, errorx.New(errorx.BadRequest, "Require a reward id")
	}

	userAddress := strings.ToLower(req.UserAddress)

	unlock := d.userLocker.Lock(userAddress)
	defer unlock()

	reward, err := d.rewardRepo.GetByID(ctx, req.RewardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found reward")
		}

		xcontext.Logger(ctx).Errorf("Cannot get reward: %v", err)
		return nil, errorx.Unknown
	}

	if !reward.IsActive {
		return nil, errorx.New(errorx.NotFound, "Not found reward")
	}

	combinedPoints, completedQuests, redeemed, err := d.userState(ctx, userAddress)
	if err != nil {
		return nil, err
	}

	if redeemed[reward.ID] {
		return nil, errorx.New(errorx.AlreadyExists, "Reward already redeemed")
	}

	unmet := unmetRequirements(reward, combinedPoints, completedQuests, false)
	if len(unmet) > 0 {
		return nil, errorx.New(errorx.PermissionDenied,
			"Not eligible: %s", strings.Join(unmet, "; "))
	}

	userReward := &entity.UserReward{
		Base:         entity.Base{ID: uuid.NewString()},
		UserAddress:  userAddress,
		RewardID:     reward.ID,
		RewardName:   reward.Name,
		RewardType:   reward.Type,
		PointsReward: reward.PointsReward,
		RedeemedAt:   time.Now(),
		Status:       entity.RewardRedeemed,
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.rewardRepo.IncreaseRedemptions(ctx, reward.ID); err != nil {
		if errors.Is(err, repository.ErrRedemptionCapReached) {
			return nil, errorx.New(errorx.AlreadyExists, "Redemption cap reached")
		}

		xcontext.Logger(ctx).Errorf("Cannot increase redemptions: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.userRewardRepo.Create(ctx, userReward); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create user reward: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	return &model.RedeemRewardResponse{
		RewardID:     reward.ID,
		RewardName:   reward.Name,
		PointsReward: reward.PointsReward,
		RedeemedAt:   userReward.RedeemedAt.Format(time.RFC3339),
	}, nil
}

func (d *rewardDomain) Create(
	ctx context.Context, req *model.CreateRewardRequest,
) (*model.CreateRewardResponse, error) {
	if req.Name == "" {
		return nil, errorx.New(errorx.BadRequest, "Require a name")
	}

	rewardType, err := enum.ToEnum[entity.RewardType](req.Type)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid reward type %s", req.Type)
	}

	if req.MaxRedemptions < 0 {
		return nil, errorx.New(errorx.BadRequest, "Require a non-negative max redemptions")
	}

	reward := &entity.Reward{
		Base:           entity.Base{ID: uuid.NewString()},
		Name:           req.Name,
		Description:    []byte(req.Description),
		Type:           rewardType,
		PointsReward:   req.PointsReward,
		QuestIDs:       req.QuestIDs,
		RequiredPoints: req.RequiredPoints,
		IsActive:       true,
	}

	if req.MaxRedemptions > 0 {
		reward.MaxRedemptions = sql.NullInt64{Valid: true, Int64: req.MaxRedemptions}
	}

	if err := d.rewardRepo.Create(ctx, reward); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create reward: %v", err)
		return nil, errorx.Unknown
	}

	if req.Notify {
		d.publishBroadcast(ctx, "New Reward Available!",
			fmt.Sprintf("%s can now be redeemed.", reward.Name))
	}

	return &model.CreateRewardResponse{ID: reward.ID}, nil
}

func (d *rewardDomain) publishBroadcast(ctx context.Context, title, body string) {
	event := model.BroadcastEvent{Title: title, Body: body}
	msg, err := json.Marshal(event)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot marshal broadcast event: %v", err)
		return
	}

	topic := xcontext.Configs(ctx).Kafka.BroadcastTopic
	if err := d.publisher.Publish(ctx, topic, &pubsub.Pack{Msg: msg}); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot publish broadcast event: %v", err)
	}
}

// userState loads the three inputs of the eligibility check: combined points,
// the set of completed quest ids, and the already-redeemed reward ids.
func (d *rewardDomain) userState(
	ctx context.Context, userAddress string,
) (int64, []string, map[string]bool, error) {
	var combinedPoints int64
	wallet, err := d.walletRepo.Get(ctx, userAddress)
	if err == nil {
		combinedPoints = wallet.CombinedPoints
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get wallet: %v", err)
		return 0, nil, nil, errorx.Unknown
	}

	userQuests, err := d.userQuestRepo.GetByUser(ctx, userAddress)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user quests: %v", err)
		return 0, nil, nil, errorx.Unknown
	}

	completedQuests := []string{}
	for _, userQuest := range userQuests {
		if userQuest.IsCompleted {
			completedQuests = append(completedQuests, userQuest.QuestID)
		}
	}

	userRewards, err := d.userRewardRepo.GetByUser(ctx, userAddress)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user rewards: %v", err)
		return 0, nil, nil, errorx.Unknown
	}

	redeemed := make(map[string]bool, len(userRewards))
	for _, userReward := range userRewards {
		redeemed[userReward.RewardID] = true
	}

	return combinedPoints, completedQuests, redeemed, nil
}

func unmetRequirements(
	reward *entity.Reward, combinedPoints int64, completedQuests []string, isRedeemed bool,
) []string {
	var unmet []string
	if isRedeemed {
		unmet = append(unmet, "already redeemed")
	}

	if combinedPoints < reward.RequiredPoints {
		unmet = append(unmet, fmt.Sprintf(
			"requires %d points, you have %d", reward.RequiredPoints, combinedPoints))
	}

	for _, questID := range reward.QuestIDs {
		if !slices.Contains(completedQuests, questID) {
			unmet = append(unmet, fmt.Sprintf("quest %s not completed", questID))
		}
	}

	if reward.MaxRedemptions.Valid &&
		reward.CurrentRedemptions >= reward.MaxRedemptions.Int64 {
		unmet = append(unmet, "redemption cap reached")
	}

	return unmet
}
