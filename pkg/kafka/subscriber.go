package kafka

import (
	"context"
	"log"

	"github.com/basequest/backend/pkg/pubsub"

	"github.com/Shopify/sarama"
)

type subscriber struct {
	topics  []string
	client  sarama.ConsumerGroup
	handler pubsub.SubscribeHandler
}

// NewSubscriber joins a consumer group on the given topics. Offsets start at
// the oldest record, so a freshly deployed broadcaster drains events that were
// published while no consumer was running.
func NewSubscriber(
	groupID string,
	brokerAddrs []string,
	topics []string,
	handler pubsub.SubscribeHandler,
) pubsub.Subscriber {
	config := sarama.NewConfig()
	config.Consumer.Group.Rebalance.Strategy = sarama.BalanceStrategyRoundRobin
	config.Consumer.Offsets.Initial = sarama.OffsetOldest

	client, err := sarama.NewConsumerGroup(brokerAddrs, groupID, config)
	if err != nil {
		panic(err)
	}

	return &subscriber{topics: topics, client: client, handler: handler}
}

// Subscribe starts consuming and returns once the first claim session is set
// up. Consumption continues in the background until ctx is cancelled.
func (s *subscriber) Subscribe(ctx context.Context) {
	session := &claimSession{
		ready:   make(chan struct{}),
		handler: s.handler,
	}

	go func() {
		for {
			// Consume returns on every server-side rebalance and must be
			// called again to take up the new claims.
			if err := s.client.Consume(ctx, s.topics, session); err != nil {
				log.Panicf("Consumer group error: %v", err)
			}
			if ctx.Err() != nil {
				return
			}
			session.ready = make(chan struct{})
		}
	}()

	<-session.ready
}

func (s *subscriber) Stop(ctx context.Context) error {
	return s.client.Close()
}

type claimSession struct {
	ready   chan struct{}
	handler pubsub.SubscribeHandler
}

func (s *claimSession) Setup(sarama.ConsumerGroupSession) error {
	close(s.ready)
	return nil
}

func (s *claimSession) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (s *claimSession) ConsumeClaim(
	session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim,
) error {
	for message := range claim.Messages() {
		session.MarkMessage(message, "")
		s.handler(session.Context(), &pubsub.Pack{
			Key: message.Key,
			Msg: message.Value,
		}, message.Timestamp)
	}

	return nil
}
