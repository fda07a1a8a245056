package pubsub

import (
	"context"
	"time"
)

// SubscribeHandler receives each consumed message along with its broker
// timestamp.
type SubscribeHandler func(ctx context.Context, pack *Pack, t time.Time)

type Subscriber interface {
	Subscribe(ctx context.Context)
	Stop(ctx context.Context) error
}
