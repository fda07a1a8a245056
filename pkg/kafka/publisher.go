package kafka

import (
	"context"
	"fmt"

	"github.com/basequest/backend/pkg/pubsub"

	"github.com/Shopify/sarama"
)

type publisher struct {
	producer sarama.SyncProducer
}

// NewPublisher connects a synchronous producer to the given brokers. Broadcast
// events are low volume, so waiting for the ack on every publish is fine and
// gives the caller a definite outcome to log.
func NewPublisher(clientID string, brokerAddrs []string) pubsub.Publisher {
	config := sarama.NewConfig()
	config.ClientID = clientID
	config.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(brokerAddrs, config)
	if err != nil {
		panic(err)
	}

	return &publisher{producer: producer}
}

func (p *publisher) Publish(ctx context.Context, topic string, pack *pubsub.Pack) error {
	_, _, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.ByteEncoder(pack.Key),
		Value: sarama.ByteEncoder(pack.Msg),
	})
	if err != nil {
		return fmt.Errorf("cannot send message to %s: %w", topic, err)
	}

	return nil
}

func (p *publisher) Stop(ctx context.Context) error {
	return p.producer.Close()
}
