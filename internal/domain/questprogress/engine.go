package questprogress

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/basequest/backend/internal/common"
	"github.com/basequest/backend/internal/entity"
	"github.com/basequest/backend/internal/repository"
	"github.com/basequest/backend/pkg/dateutil"
	"github.com/basequest/backend/pkg/errorx"
	"github.com/basequest/backend/pkg/xcontext"
	"gorm.io/gorm"
)

// Engine drives per-user quest state: the daily login streak ledger, lazy
// catalog sync, type-specific progress evaluation, and the completion side
// effect that moves quest aggregates and the cached combined points together.
type Engine struct {
	questRepo     repository.QuestRepository
	userQuestRepo repository.UserQuestRepository
	questUserRepo repository.QuestUserRepository
	walletRepo    repository.WalletRepository
	activityRepo  repository.ActivityRepository
}

func NewEngine(
	questRepo repository.QuestRepository,
	userQuestRepo repository.UserQuestRepository,
	questUserRepo repository.QuestUserRepository,
	walletRepo repository.WalletRepository,
	activityRepo repository.ActivityRepository,
) *Engine {
	return &Engine{
		questRepo:     questRepo,
		userQuestRepo: userQuestRepo,
		questUserRepo: questUserRepo,
		walletRepo:    walletRepo,
		activityRepo:  activityRepo,
	}
}

// UpdateDailyLoginStreak applies the calendar rule to the user's streak: same
// day keeps it, yesterday increments it, any other gap resets it to 1. The
// record is created on first sight.
func (e *Engine) UpdateDailyLoginStreak(
	ctx context.Context, userAddress string,
) (*entity.QuestUser, error) {
	questUser, err := e.questUserRepo.Get(ctx, userAddress)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		questUser = &entity.QuestUser{UserAddress: userAddress}
	}

	now := time.Now()
	switch {
	case dateutil.IsSameDayOf(questUser.LastLoginDate, now):
		// No streak change, but callers still re-evaluate quests.
	case dateutil.IsYesterdayOf(questUser.LastLoginDate, now):
		questUser.DailyLoginStreak++
		questUser.LastLoginDate = dateutil.Day(now)
	default:
		questUser.DailyLoginStreak = 1
		questUser.LastLoginDate = dateutil.Day(now)
	}

	if err := e.questUserRepo.Upsert(ctx, questUser); err != nil {
		return nil, err
	}

	return questUser, nil
}

// SyncCatalog instantiates a zero-progress row for every active quest the
// user does not have yet. Additive only, existing rows are untouched.
func (e *Engine) SyncCatalog(
	ctx context.Context, userAddress string,
) ([]entity.Quest, []entity.UserQuest, error) {
	quests, err := e.questRepo.GetActive(ctx)
	if err != nil {
		return nil, nil, err
	}

	userQuests, err := e.userQuestRepo.GetByUser(ctx, userAddress)
	if err != nil {
		return nil, nil, err
	}

	known := make(map[string]struct{}, len(userQuests))
	for _, userQuest := range userQuests {
		known[userQuest.QuestID] = struct{}{}
	}

	for _, quest := range quests {
		if _, ok := known[quest.ID]; ok {
			continue
		}

		userQuest := entity.UserQuest{
			UserAddress: userAddress,
			QuestID:     quest.ID,
			StartedAt:   time.Now(),
		}

		if err := e.userQuestRepo.Create(ctx, &userQuest); err != nil {
			return nil, nil, err
		}

		userQuests = append(userQuests, userQuest)
	}

	return quests, userQuests, nil
}

// EvaluateAll refreshes the progress of every active quest of a user and
// fires the completion side effect for first-time completions. Callers run
// UpdateDailyLoginStreak and SyncCatalog first.
func (e *Engine) EvaluateAll(
	ctx context.Context, userAddress string,
) ([]entity.UserQuest, *entity.QuestUser, error) {
	quests, userQuests, err := e.SyncCatalog(ctx, userAddress)
	if err != nil {
		return nil, nil, err
	}

	questByID := make(map[string]entity.Quest, len(quests))
	for _, quest := range quests {
		questByID[quest.ID] = quest
	}

	for i := range userQuests {
		quest, ok := questByID[userQuests[i].QuestID]
		if !ok {
			// Inactive quest the user started earlier, leave as is.
			continue
		}

		updated, err := e.evaluate(ctx, &quest, &userQuests[i])
		if err != nil {
			return nil, nil, err
		}

		userQuests[i] = *updated
	}

	questUser, err := e.questUserRepo.Get(ctx, userAddress)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, err
		}

		questUser = &entity.QuestUser{UserAddress: userAddress}
	}

	return userQuests, questUser, nil
}

// EvaluateQuest refreshes a single quest of a user, creating the progress row
// if the catalog sync has not seen it before.
func (e *Engine) EvaluateQuest(
	ctx context.Context, userAddress string, quest *entity.Quest,
) (*entity.UserQuest, error) {
	userQuest, err := e.userQuestRepo.Get(ctx, userAddress, quest.ID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		userQuest = &entity.UserQuest{
			UserAddress: userAddress,
			QuestID:     quest.ID,
			StartedAt:   time.Now(),
		}

		if err := e.userQuestRepo.Create(ctx, userQuest); err != nil {
			return nil, err
		}
	}

	return e.evaluate(ctx, quest, userQuest)
}

// RecordShare applies one share attempt against a share-based quest. The
// daily ledger caps attempts per calendar day; a capped attempt is rejected
// without touching progress.
func (e *Engine) RecordShare(
	ctx context.Context, userAddress, questID string,
) (*entity.UserQuest, error) {
	quest, err := e.questRepo.GetByID(ctx, questID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found quest")
		}

		xcontext.Logger(ctx).Errorf("Cannot get quest: %v", err)
		return nil, errorx.Unknown
	}

	if quest.Type != entity.QuestShareBased {
		return nil, errorx.New(errorx.BadRequest, "Quest is not share based")
	}

	req := ShareRequirements{}
	if err := decodeRequirements(quest.Requirements, &req); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot decode share requirements: %v", err)
		return nil, errorx.Unknown
	}

	userQuest, err := e.userQuestRepo.Get(ctx, userAddress, questID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get user quest: %v", err)
			return nil, errorx.Unknown
		}

		userQuest = &entity.UserQuest{
			UserAddress: userAddress,
			QuestID:     questID,
			StartedAt:   time.Now(),
		}

		if err := e.userQuestRepo.Create(ctx, userQuest); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot create user quest: %v", err)
			return nil, errorx.Unknown
		}
	}

	if userQuest.IsCompleted {
		return userQuest, nil
	}

	today := dateutil.Today()
	todayIndex := -1
	for i, share := range userQuest.DailyShares {
		if share.Date == today {
			todayIndex = i
			break
		}
	}

	if req.DailyShareLimit > 0 && todayIndex >= 0 &&
		userQuest.DailyShares[todayIndex].Count >= req.DailyShareLimit {
		return nil, errorx.New(errorx.TooManyRequests,
			"Daily share limit reached, come back tomorrow")
	}

	if todayIndex >= 0 {
		userQuest.DailyShares[todayIndex].Count++
	} else {
		userQuest.DailyShares = append(userQuest.DailyShares,
			entity.DailyShare{Date: today, Count: 1})
	}

	userQuest.Progress++
	if int(userQuest.Progress) >= req.ShareCount {
		if err := e.complete(ctx, quest, userQuest); err != nil {
			return nil, err
		}

		return userQuest, nil
	}

	if err := e.userQuestRepo.Update(ctx, userQuest); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update user quest: %v", err)
		return nil, errorx.Unknown
	}

	return userQuest, nil
}

// evaluate recomputes the progress of one quest and persists the change.
// Completed quests are terminal and never touched again.
func (e *Engine) evaluate(
	ctx context.Context, quest *entity.Quest, userQuest *entity.UserQuest,
) (*entity.UserQuest, error) {
	if userQuest.IsCompleted {
		return userQuest, nil
	}

	progress, target, err := e.currentProgress(ctx, quest, userQuest)
	if err != nil {
		return nil, err
	}

	if progress == userQuest.Progress && (target <= 0 || progress < target) {
		return userQuest, nil
	}

	userQuest.Progress = progress
	if target > 0 && progress >= target {
		if err := e.complete(ctx, quest, userQuest); err != nil {
			return nil, err
		}

		return userQuest, nil
	}

	if err := e.userQuestRepo.Update(ctx, userQuest); err != nil {
		return nil, err
	}

	return userQuest, nil
}

// currentProgress computes (progress, completion target) for one quest. A
// non-positive target means the quest cannot complete through evaluation.
func (e *Engine) currentProgress(
	ctx context.Context, quest *entity.Quest, userQuest *entity.UserQuest,
) (float64, float64, error) {
	switch quest.Type {
	case entity.QuestStreakBased:
		req := StreakRequirements{}
		if err := decodeRequirements(quest.Requirements, &req); err != nil {
			return 0, 0, err
		}

		questUser, err := e.questUserRepo.Get(ctx, userQuest.UserAddress)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, 0, err
			}

			questUser = &entity.QuestUser{}
		}

		return float64(questUser.DailyLoginStreak), float64(req.StreakDays), nil

	case entity.QuestActivityBased:
		req := ActivityRequirements{}
		if err := decodeRequirements(quest.Requirements, &req); err != nil {
			return 0, 0, err
		}

		count, err := e.activityRepo.Count(ctx, userQuest.UserAddress)
		if err != nil {
			return 0, 0, err
		}

		return float64(count), float64(req.ActivityCount), nil

	case entity.QuestEarlyAdopter:
		req := EarlyAdopterRequirements{}
		if err := decodeRequirements(quest.Requirements, &req); err != nil {
			return 0, 0, err
		}

		targetDate, err := parseTargetDate(req.TargetDate)
		if err != nil {
			return 0, 0, err
		}

		if !time.Now().After(targetDate) {
			return 1, 1, nil
		}

		return userQuest.Progress, 1, nil

	case entity.QuestShareBased:
		// Share progress only moves through RecordShare.
		return userQuest.Progress, 0, nil
	}

	return userQuest.Progress, 0, nil
}

// complete marks the first transition to completed and applies its side
// effect in one transaction: the user's quest aggregates and the wallet's
// cached combined points move together.
func (e *Engine) complete(
	ctx context.Context, quest *entity.Quest, userQuest *entity.UserQuest,
) error {
	userQuest.IsCompleted = true
	userQuest.CompletedAt = sql.NullTime{Valid: true, Time: time.Now()}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := e.userQuestRepo.Update(ctx, userQuest); err != nil {
		return err
	}

	questUser, err := e.questUserRepo.Get(ctx, userQuest.UserAddress)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		questUser = &entity.QuestUser{UserAddress: userQuest.UserAddress}
	}

	questUser.TotalQuestsCompleted++
	questUser.TotalQuestPoints += quest.RewardPoints
	if err := e.questUserRepo.Upsert(ctx, questUser); err != nil {
		return err
	}

	var activityPoints int64
	wallet, err := e.walletRepo.Get(ctx, userQuest.UserAddress)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		wallet = nil
	} else {
		activityPoints = wallet.TotalPoints
	}

	combined := activityPoints + questUser.TotalQuestPoints
	level := common.LevelOf(combined)
	if wallet == nil {
		err = e.walletRepo.Upsert(ctx, &entity.Wallet{
			Address:        userQuest.UserAddress,
			QuestPoints:    questUser.TotalQuestPoints,
			CombinedPoints: combined,
			Level:          level,
		})
	} else {
		err = e.walletRepo.UpdateQuestPoints(
			ctx, userQuest.UserAddress, questUser.TotalQuestPoints, combined, level)
	}

	if err != nil {
		return err
	}

	xcontext.WithCommitDBTransaction(ctx)
	return nil
}
