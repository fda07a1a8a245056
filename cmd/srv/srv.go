package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/basequest/backend/config"
	"github.com/basequest/backend/internal/common"
	"github.com/basequest/backend/internal/domain"
	"github.com/basequest/backend/internal/domain/activityscan"
	"github.com/basequest/backend/internal/domain/questprogress"
	"github.com/basequest/backend/internal/domain/statistic"
	"github.com/basequest/backend/internal/entity"
	"github.com/basequest/backend/internal/repository"
	"github.com/basequest/backend/pkg/api/alchemy"
	"github.com/basequest/backend/pkg/api/farcaster"
	"github.com/basequest/backend/pkg/blockchain/keyregistry"
	"github.com/basequest/backend/pkg/crypto"
	"github.com/basequest/backend/pkg/kafka"
	"github.com/basequest/backend/pkg/logger"
	"github.com/basequest/backend/pkg/pubsub"
	"github.com/basequest/backend/pkg/router"
	"github.com/basequest/backend/pkg/xcontext"
	"github.com/basequest/backend/pkg/xredis"
	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type srv struct {
	ctx context.Context

	walletRepo            repository.WalletRepository
	activityRepo          repository.ActivityRepository
	questRepo             repository.QuestRepository
	userQuestRepo         repository.UserQuestRepository
	questUserRepo         repository.QuestUserRepository
	rewardRepo            repository.RewardRepository
	userRewardRepo        repository.UserRewardRepository
	notificationTokenRepo repository.NotificationTokenRepository

	alchemyEndpoint   alchemy.IEndpoint
	farcasterEndpoint farcaster.IEndpoint
	verifier          keyregistry.IVerifier
	redisClient       xredis.Client
	publisher         pubsub.Publisher
	userLocker        *common.UserLocker

	leaderboard statistic.Leaderboard

	activityDomain     domain.ActivityDomain
	questDomain        domain.QuestDomain
	rewardDomain       domain.RewardDomain
	statisticDomain    domain.StatisticDomain
	notificationDomain domain.NotificationDomain
	webhookDomain      domain.WebhookDomain

	router *router.Router
	server *http.Server
}

func (s *srv) loadConfig(cliCtx *cli.Context) {
	configs, err := config.Load(cliCtx.String("config"))
	if err != nil {
		panic(err)
	}

	s.ctx = xcontext.WithConfigs(context.Background(), configs)
}

func (s *srv) loadLogger() {
	s.ctx = xcontext.WithLogger(s.ctx, logger.NewLogger())
}

func (s *srv) loadDatabase() {
	db, err := gorm.Open(mysql.Open(xcontext.Configs(s.ctx).Database.ConnectionString()))
	if err != nil {
		panic(err)
	}

	s.ctx = xcontext.WithDB(s.ctx, db)
}

func (s *srv) loadSnowFlake() {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}

	s.ctx = xcontext.WithSnowFlake(s.ctx, node)
}

func (s *srv) loadRedis() {
	redisClient, err := xredis.NewClient(s.ctx)
	if err != nil {
		panic(err)
	}

	s.redisClient = redisClient
}

func (s *srv) loadEndpoints() {
	configs := xcontext.Configs(s.ctx)
	s.alchemyEndpoint = alchemy.New(configs.Alchemy)
	s.farcasterEndpoint = farcaster.New()

	verifier, err := keyregistry.NewVerifier(configs.KeyRegistry)
	if err != nil {
		panic(err)
	}

	s.verifier = verifier
}

func (s *srv) loadPublisher() {
	s.publisher = kafka.NewPublisher(
		uuid.NewString(), []string{xcontext.Configs(s.ctx).Kafka.Addr})
}

func (s *srv) loadRepos() {
	s.walletRepo = repository.NewWalletRepository()
	s.activityRepo = repository.NewActivityRepository()
	s.questRepo = repository.NewQuestRepository()
	s.userQuestRepo = repository.NewUserQuestRepository()
	s.questUserRepo = repository.NewQuestUserRepository()
	s.rewardRepo = repository.NewRewardRepository()
	s.userRewardRepo = repository.NewUserRewardRepository()
	s.notificationTokenRepo = repository.NewNotificationTokenRepository()
}

// loadNotificationDomain wires only what the broadcaster command needs, it
// has no use for redis, kafka publishing, or the chain endpoints.
func (s *srv) loadNotificationDomain() {
	s.farcasterEndpoint = farcaster.New()
	s.notificationDomain = domain.NewNotificationDomain(
		s.farcasterEndpoint, s.notificationTokenRepo)
}

func (s *srv) loadDomains() {
	s.userLocker = common.NewUserLocker()
	s.leaderboard = statistic.New(s.walletRepo, s.questUserRepo, s.redisClient)

	pipeline := activityscan.NewPipeline(s.alchemyEndpoint, s.walletRepo, s.activityRepo)
	engine := questprogress.NewEngine(
		s.questRepo, s.userQuestRepo, s.questUserRepo, s.walletRepo, s.activityRepo)

	s.activityDomain = domain.NewActivityDomain(
		pipeline, s.walletRepo, s.activityRepo, s.leaderboard, s.userLocker)
	s.questDomain = domain.NewQuestDomain(
		engine, s.questRepo, s.walletRepo, s.leaderboard, s.publisher, s.userLocker)
	s.rewardDomain = domain.NewRewardDomain(
		s.rewardRepo, s.userRewardRepo, s.userQuestRepo, s.walletRepo,
		s.publisher, s.userLocker)
	s.statisticDomain = domain.NewStatisticDomain(s.leaderboard)
	s.notificationDomain = domain.NewNotificationDomain(
		s.farcasterEndpoint, s.notificationTokenRepo)
	s.webhookDomain = domain.NewWebhookDomain(s.verifier, s.notificationTokenRepo)
}

func (s *srv) migrate(cliCtx *cli.Context) error {
	s.loadConfig(cliCtx)
	s.loadLogger()
	s.loadDatabase()

	return entity.MigrateTable(s.ctx)
}

func (s *srv) generateAPIKey(cliCtx *cli.Context) error {
	key, err := crypto.GenerateRandomString()
	if err != nil {
		return err
	}

	fmt.Println(key)
	return nil
}
