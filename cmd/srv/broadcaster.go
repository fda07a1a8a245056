package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/basequest/backend/internal/model"
	"github.com/basequest/backend/pkg/kafka"
	"github.com/basequest/backend/pkg/pubsub"
	"github.com/basequest/backend/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

// startBroadcaster runs the consumer that turns broadcast events into batched
// notification sends, keeping the slow fan-out off the api request path.
func (s *srv) startBroadcaster(cliCtx *cli.Context) error {
	s.loadConfig(cliCtx)
	s.loadLogger()
	s.loadDatabase()
	s.loadRepos()
	s.loadNotificationDomain()

	cfg := xcontext.Configs(s.ctx)
	subscriber := kafka.NewSubscriber(
		"broadcaster",
		[]string{cfg.Kafka.Addr},
		[]string{cfg.Kafka.BroadcastTopic},
		s.handleBroadcastEvent,
	)

	xcontext.Logger(s.ctx).Infof("Starting broadcaster on topic %s", cfg.Kafka.BroadcastTopic)
	subscriber.Subscribe(s.ctx)

	select {}
}

func (s *srv) handleBroadcastEvent(ctx context.Context, pack *pubsub.Pack, t time.Time) {
	var event model.BroadcastEvent
	if err := json.Unmarshal(pack.Msg, &event); err != nil {
		xcontext.Logger(s.ctx).Errorf("Cannot unmarshal broadcast event: %v", err)
		return
	}

	resp, err := s.notificationDomain.Broadcast(s.ctx, &model.BroadcastRequest{
		Title: event.Title,
		Body:  event.Body,
	})
	if err != nil {
		xcontext.Logger(s.ctx).Errorf("Cannot broadcast event: %v", err)
		return
	}

	xcontext.Logger(s.ctx).Infof(
		"Broadcast finished: total=%d success=%d failed=%d rate_limited=%d no_token=%d",
		resp.Total, resp.Success, resp.Failed, resp.RateLimited, resp.NoToken)
}
