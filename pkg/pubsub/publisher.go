package pubsub

import "context"

// Pack is one message on the wire: an optional partition key and the payload.
type Pack struct {
	Key []byte
	Msg []byte
}

type Publisher interface {
	Publish(ctx context.Context, topic string, pack *Pack) error
	Stop(ctx context.Context) error
}
