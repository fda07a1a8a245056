package domain

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/basequest/backend/internal/common"
	"github.com/basequest/backend/internal/domain/questprogress"
	"github.com/basequest/backend/internal/domain/statistic"
	"github.com/basequest/backend/internal/entity"
	"github.com/basequest/backend/internal/model"
	"github.com/basequest/backend/internal/repository"
	"github.com/basequest/backend/pkg/dateutil"
	"github.com/basequest/backend/pkg/enum"
	"github.com/basequest/backend/pkg/errorx"
	"github.com/basequest/backend/pkg/pubsub"
	"github.com/basequest/backend/pkg/xcontext"
	"github.com/google/uuid"
)

type QuestDomain interface {
	GetQuests(ctx context.Context, req *model.GetQuestsRequest) (*model.GetQuestsResponse, error)
	CheckEarlyAdopter(ctx context.Context, req *model.CheckEarlyAdopterRequest) (*model.CheckEarlyAdopterResponse, error)
	RecordShare(ctx context.Context, req *model.RecordShareRequest) (*model.RecordShareResponse, error)
	Create(ctx context.Context, req *model.CreateQuestRequest) (*model.CreateQuestResponse, error)
}

type questDomain struct {
	engine      *questprogress.Engine
	questRepo   repository.QuestRepository
	walletRepo  repository.WalletRepository
	leaderboard statistic.Leaderboard
	publisher   pubsub.Publisher
	userLocker  *common.UserLocker
}

func NewQuestDomain(
	engine *questprogress.Engine,
	questRepo repository.QuestRepository,
	walletRepo repository.WalletRepository,
	leaderboard statistic.Leaderboard,
	publisher pubsub.Publisher,
	userLocker *common.UserLocker,
) *questDomain {
	return &questDomain{
		engine:      engine,
		questRepo:   questRepo,
		walletRepo:  walletRepo,
		leaderboard: leaderboard,
		publisher:   publisher,
		userLocker:  userLocker,
	}
}

func (d *questDomain) GetQuests(
	ctx context.Context, req *model.GetQuestsRequest,
) (*model.GetQuestsResponse, error) {
	if req.UserAddress == "" {
		return nil, errorx.New(errorx.BadRequest, "Require an user address")
	}

	userAddress := strings.ToLower(req.UserAddress)

	unlock := d.userLocker.Lock(userAddress)
	defer unlock()

	if _, err := d.engine.UpdateDailyLoginStreak(ctx, userAddress); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update login streak: %v", err)
		return nil, errorx.Unknown
	}

	userQuests, questUser, err := d.engine.EvaluateAll(ctx, userAddress)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot evaluate quests: %v", err)
		return nil, errorx.Unknown
	}

	d.syncLeaderboards(ctx, userAddress, questUser)

	quests, err := d.questRepo.GetActive(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get quests: %v", err)
		return nil, errorx.Unknown
	}

	questByID := make(map[string]entity.Quest, len(quests))
	for _, quest := range quests {
		questByID[quest.ID] = quest
	}

	clientQuests := make([]model.UserQuest, 0, len(userQuests))
	for i := range userQuests {
		quest, ok := questByID[userQuests[i].QuestID]
		if !ok {
			continue
		}

		clientQuests = append(clientQuests,
			model.ConvertUserQuest(&quest, &userQuests[i], sharesToday(&userQuests[i])))
	}

	var activityPoints int64
	if wallet, err := d.walletRepo.Get(ctx, userAddress); err == nil {
		activityPoints = wallet.TotalPoints
	}

	combined := activityPoints + questUser.TotalQuestPoints

	return &model.GetQuestsResponse{
		Quests:               clientQuests,
		DailyLoginStreak:     questUser.DailyLoginStreak,
		TotalQuestsCompleted: questUser.TotalQuestsCompleted,
		TotalQuestPoints:     questUser.TotalQuestPoints,
		CombinedPoints:       combined,
		Level:                common.LevelOf(combined),
	}, nil
}

func (d *questDomain) CheckEarlyAdopter(
	ctx context.Context, req *model.CheckEarlyAdopterRequest,
) (*model.CheckEarlyAdopterResponse, error) {
	if req.UserAddress == "" {
		return nil, errorx.New(errorx.BadRequest, "Require an user address")
	}

	userAddress := strings.ToLower(req.UserAddress)

	unlock := d.userLocker.Lock(userAddress)
	defer unlock()

	quests, err := d.questRepo.GetActive(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get quests: %v", err)
		return nil, errorx.Unknown
	}

	clientQuests := []model.UserQuest{}
	for i := range quests {
		if quests[i].Type != entity.QuestEarlyAdopter {
			continue
		}

		userQuest, err := d.engine.EvaluateQuest(ctx, userAddress, &quests[i])
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot evaluate quest %s: %v", quests[i].ID, err)
			return nil, errorx.Unknown
		}

		clientQuests = append(clientQuests,
			model.ConvertUserQuest(&quests[i], userQuest, 0))
	}

	return &model.CheckEarlyAdopterResponse{Quests: clientQuests}, nil
}

func (d *questDomain) RecordShare(
	ctx context.Context, req *model.RecordShareRequest,
) (*model.RecordShareResponse, error) {
	if req.UserAddress == "" {
		return nil, errorx.New(errorx.BadRequest, "Require an user address")
	}

	if req.QuestID == "" {
		return nil, errorx.New(errorx.BadRequest, "Require a quest id")
	}

	userAddress := strings.ToLower(req.UserAddress)

	unlock := d.userLocker.Lock(userAddress)
	defer unlock()

	userQuest, err := d.engine.RecordShare(ctx, userAddress, req.QuestID)
	if err != nil {
		return nil, err
	}

	return &model.RecordShareResponse{
		Progress:    userQuest.Progress,
		IsCompleted: userQuest.IsCompleted,
		SharesToday: sharesToday(userQuest),
	}, nil
}

func (d *questDomain) Create(
	ctx context.Context, req *model.CreateQuestRequest,
) (*model.CreateQuestResponse, error) {
	if req.Title == "" {
		return nil, errorx.New(errorx.BadRequest, "Require a title")
	}

	questType, err := enum.ToEnum[entity.QuestType](req.Type)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid quest type %s", req.Type)
	}

	requirements, err := questprogress.Normalize(questType, req.Requirements)
	if err != nil {
		return nil, err
	}

	quest := &entity.Quest{
		Base:         entity.Base{ID: uuid.NewString()},
		Title:        req.Title,
		Description:  []byte(req.Description),
		Type:         questType,
		Requirements: requirements,
		RewardPoints: req.RewardPoints,
		IsActive:     true,
		StartDate:    time.Now(),
	}

	if req.StartDate != "" {
		startDate, err := time.Parse(time.RFC3339, req.StartDate)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid start date: %v", err)
		}

		quest.StartDate = startDate
	}

	if req.EndDate != "" {
		endDate, err := time.Parse(time.RFC3339, req.EndDate)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid end date: %v", err)
		}

		quest.EndDate = sql.NullTime{Valid: true, Time: endDate}
	}

	if err := d.questRepo.Create(ctx, quest); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create quest: %v", err)
		return nil, errorx.Unknown
	}

	if req.Notify {
		d.publishBroadcast(ctx, "New Quest Available!",
			fmt.Sprintf("%s is live. Complete it to earn %d points.",
				quest.Title, quest.RewardPoints))
	}

	return &model.CreateQuestResponse{ID: quest.ID}, nil
}

// publishBroadcast emits a broadcast event after a successful creation. A
// publish failure is logged and swallowed, the creation already committed.
func (d *questDomain) publishBroadcast(ctx context.Context, title, body string) {
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

func (d *questDomain) syncLeaderboards(
	ctx context.Context, userAddress string, questUser *entity.QuestUser,
) {
	if err := d.leaderboard.ChangeQuests(
		ctx, userAddress, int64(questUser.TotalQuestsCompleted)); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot update quests leaderboard: %v", err)
	}

	if wallet, err := d.walletRepo.Get(ctx, userAddress); err == nil {
		if err := d.leaderboard.ChangePoints(ctx, userAddress, wallet.CombinedPoints); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot update points leaderboard: %v", err)
		}
	}
}

func sharesToday(userQuest *entity.UserQuest) int {
	today := dateutil.Today()
	for _, share := range userQuest.DailyShares {
		if share.Date == today {
			return share.Count
		}
	}

	return 0
}
