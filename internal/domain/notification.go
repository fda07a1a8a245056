package domain

import (
	"context"
	"errors"
	"time"

	"github.com/basequest/backend/internal/entity"
	"github.com/basequest/backend/internal/model"
	"github.com/basequest/backend/internal/repository"
	"github.com/basequest/backend/pkg/api/farcaster"
	"github.com/basequest/backend/pkg/errorx"
	"github.com/basequest/backend/pkg/xcontext"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// defaultBatchSize bounds the broadcast fan-out when the notification config
// section is missing.
const defaultBatchSize = 10

type NotificationDomain interface {
	Notify(ctx context.Context, req *model.NotifyRequest) (*model.NotifyResponse, error)
	Broadcast(ctx context.Context, req *model.BroadcastRequest) (*model.BroadcastResponse, error)
}

type notificationDomain struct {
	farcasterEndpoint farcaster.IEndpoint
	tokenRepo         repository.NotificationTokenRepository
}

func NewNotificationDomain(
	farcasterEndpoint farcaster.IEndpoint,
	tokenRepo repository.NotificationTokenRepository,
) *notificationDomain {
	return &notificationDomain{
		farcasterEndpoint: farcasterEndpoint,
		tokenRepo:         tokenRepo,
	}
}

func (d *notificationDomain) Notify(
	ctx context.Context, req *model.NotifyRequest,
) (*model.NotifyResponse, error) {
	if req.Title == "" || req.Body == "" {
		return nil, errorx.New(errorx.BadRequest, "Require a title and a body")
	}

	token, err := d.tokenRepo.Get(ctx, req.FID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "No notification token for fid %d", req.FID)
		}

		xcontext.Logger(ctx).Errorf("Cannot get notification token: %v", err)
		return nil, errorx.Unknown
	}

	result, err := d.send(ctx, token, req.Title, req.Body)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot send notification: %v", err)
		return nil, errorx.Unknown
	}

	return &model.NotifyResponse{Result: string(result)}, nil
}

// Broadcast sends to every stored token, or to the requested fid subset. The
// recipient list is split into fixed-size batches; sends inside one batch run
// concurrently, batches run strictly in sequence with a fixed delay between
// them to stay under the delivery rate limit. No retry, a failed send is
// terminal for this run.
func (d *notificationDomain) Broadcast(
	ctx context.Context, req *model.BroadcastRequest,
) (*model.BroadcastResponse, error) {
	if req.Title == "" || req.Body == "" {
		return nil, errorx.New(errorx.BadRequest, "Require a title and a body")
	}

	tokens, err := d.tokenRepo.GetAll(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get notification tokens: %v", err)
		return nil, errorx.Unknown
	}

	tokenByFID := make(map[int64]entity.NotificationToken, len(tokens))
	for _, token := range tokens {
		tokenByFID[token.FID] = token
	}

	resp := &model.BroadcastResponse{}
	recipients := []entity.NotificationToken{}
	if req.FIDs != nil {
		resp.Total = len(req.FIDs)
		for _, fid := range req.FIDs {
			token, ok := tokenByFID[fid]
			if !ok {
				resp.NoToken++
				continue
			}

			recipients = append(recipients, token)
		}
	} else {
		resp.Total = len(tokens)
		recipients = tokens
	}

	cfg := xcontext.Configs(ctx).Notification
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	for begin := 0; begin < len(recipients); begin += batchSize {
		end := begin + batchSize
		if end > len(recipients) {
			end = len(recipients)
		}

		batch := recipients[begin:end]
		results := make([]farcaster.SendResult, len(batch))

		g, gctx := errgroup.WithContext(ctx)
		for i := range batch {
			i := i
			g.Go(func() error {
				result, err := d.send(gctx, &batch[i], req.Title, req.Body)
				if err != nil {
					xcontext.Logger(ctx).Warnf(
						"Cannot send notification to fid %d: %v", batch[i].FID, err)
					result = farcaster.SendFailure
				}

				results[i] = result
				return nil
			})
		}

		// Send closures never fail, they record the failure instead.
		_ = g.Wait()

		for _, result := range results {
			switch result {
			case farcaster.SendSuccess:
				resp.Success++
			case farcaster.SendRateLimited:
				resp.RateLimited++
			default:
				resp.Failed++
			}
		}

		if end < len(recipients) {
			time.Sleep(cfg.BatchDelay())
		}
	}

	return resp, nil
}

func (d *notificationDomain) send(
	ctx context.Context, token *entity.NotificationToken, title, body string,
) (farcaster.SendResult, error) {
	return d.farcasterEndpoint.Send(ctx, farcaster.Notification{
		Token:     token.Token,
		URL:       token.URL,
		Title:     title,
		Body:      body,
		TargetURL: xcontext.Configs(ctx).Farcaster.TargetURL,
	})
}
