package main

import (
	"net/http"

	"github.com/basequest/backend/internal/middleware"
	"github.com/basequest/backend/pkg/router"
	"github.com/basequest/backend/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startApi(cliCtx *cli.Context) error {
	s.loadConfig(cliCtx)
	s.loadLogger()
	s.loadDatabase()
	s.loadSnowFlake()
	s.loadRedis()
	s.loadEndpoints()
	s.loadPublisher()
	s.loadRepos()
	s.loadDomains()
	s.loadRouter()

	cfg := xcontext.Configs(s.ctx)
	xcontext.Logger(s.ctx).Infof("Starting api server on %s", cfg.ApiServer.Address())

	s.server = &http.Server{
		Addr:    cfg.ApiServer.Address(),
		Handler: s.router.Handler(),
	}

	if err := s.server.ListenAndServe(); err != nil {
		panic(err)
	}

	return nil
}

func (s *srv) loadRouter() {
	s.router = router.New(s.ctx)
	s.router.AddCloser(middleware.Logger())

	router.GET(s.router, "/getActivities", s.activityDomain.GetActivities)
	router.POST(s.router, "/recordActivity", s.activityDomain.RecordActivity)
	router.GET(s.router, "/getQuests", s.questDomain.GetQuests)
	router.POST(s.router, "/checkEarlyAdopter", s.questDomain.CheckEarlyAdopter)
	router.POST(s.router, "/recordShare", s.questDomain.RecordShare)
	router.GET(s.router, "/getRewards", s.rewardDomain.GetRewards)
	router.POST(s.router, "/redeemReward", s.rewardDomain.Redeem)
	router.GET(s.router, "/getLeaderboard", s.statisticDomain.GetLeaderboard)
	router.GET(s.router, "/getRank", s.statisticDomain.GetRank)
	router.POST(s.router, "/webhook", s.webhookDomain.Handle)

	adminRouter := s.router.Branch()
	adminRouter.Before(middleware.OnlyAdmin())
	router.POST(adminRouter, "/createQuest", s.questDomain.Create)
	router.POST(adminRouter, "/createReward", s.rewardDomain.Create)
	router.POST(adminRouter, "/notify", s.notificationDomain.Notify)
	router.POST(adminRouter, "/broadcast", s.notificationDomain.Broadcast)
}
