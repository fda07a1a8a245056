package farcaster

import "context"

type IEndpoint interface {
	Send(context.Context, Notification) (SendResult, error)
}
