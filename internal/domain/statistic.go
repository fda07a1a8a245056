package domain

import (
	"context"
	"strings"

	"github.com/basequest/backend/internal/domain/statistic"
	"github.com/basequest/backend/internal/model"
	"github.com/basequest/backend/pkg/errorx"
	"github.com/basequest/backend/pkg/xcontext"
	"github.com/pkg/math"
)

const maxLeaderboardLimit = 50

type StatisticDomain interface {
	GetLeaderboard(ctx context.Context, req *model.GetLeaderboardRequest) (*model.GetLeaderboardResponse, error)
	GetRank(ctx context.Context, req *model.GetRankRequest) (*model.GetRankResponse, error)
}

type statisticDomain struct {
	leaderboard statistic.Leaderboard
}

func NewStatisticDomain(leaderboard statistic.Leaderboard) *statisticDomain {
	return &statisticDomain{leaderboard: leaderboard}
}

func (d *statisticDomain) GetLeaderboard(
	ctx context.Context, req *model.GetLeaderboardRequest,
) (*model.GetLeaderboardResponse, error) {
	if req.OrderedBy == "" {
		req.OrderedBy = statistic.OrderedByPoints
	}

	if req.OrderedBy != statistic.OrderedByPoints && req.OrderedBy != statistic.OrderedByQuests {
		return nil, errorx.New(errorx.BadRequest, "Invalid ordered by %s", req.OrderedBy)
	}

	if req.Offset < 0 || req.Limit < 0 {
		return nil, errorx.New(errorx.BadRequest, "Invalid offset or limit")
	}

	if req.Limit == 0 {
		req.Limit = 10
	}

	limit := math.MinInt(req.Limit, maxLeaderboardLimit)
	entries, err := d.leaderboard.GetLeaderboard(ctx, req.OrderedBy, req.Offset, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get leaderboard: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetLeaderboardResponse{Entries: entries}, nil
}

func (d *statisticDomain) GetRank(
	ctx context.Context, req *model.GetRankRequest,
) (*model.GetRankResponse, error) {
	if req.UserAddress == "" {
		return nil, errorx.New(errorx.BadRequest, "Require an user address")
	}

	if req.OrderedBy == "" {
		req.OrderedBy = statistic.OrderedByPoints
	}

	rank, err := d.leaderboard.GetRank(ctx, strings.ToLower(req.UserAddress), req.OrderedBy)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get rank: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetRankResponse{Rank: rank}, nil
}
