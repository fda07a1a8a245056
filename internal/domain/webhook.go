package domain

import (
	"context"
	"encoding/hex"
	"strings"

	"github.com/basequest/backend/internal/entity"
	"github.com/basequest/backend/internal/model"
	"github.com/basequest/backend/internal/repository"
	"github.com/basequest/backend/pkg/blockchain/keyregistry"
	"github.com/basequest/backend/pkg/errorx"
	"github.com/basequest/backend/pkg/xcontext"
)

type WebhookDomain interface {
	Handle(ctx context.Context, req *model.WebhookRequest) (*model.WebhookResponse, error)
}

type webhookDomain struct {
	verifier  keyregistry.IVerifier
	tokenRepo repository.NotificationTokenRepository
}

func NewWebhookDomain(
	verifier keyregistry.IVerifier,
	tokenRepo repository.NotificationTokenRepository,
) *webhookDomain {
	return &webhookDomain{verifier: verifier, tokenRepo: tokenRepo}
}

// Handle processes a frame lifecycle event. The signer key must be registered
// for the claimed fid; a verification error rejects the event rather than
// letting an unverified caller write a token.
func (d *webhookDomain) Handle(
	ctx context.Context, req *model.WebhookRequest,
) (*model.WebhookResponse, error) {
	if req.FID <= 0 {
		return nil, errorx.New(errorx.BadRequest, "Require a fid")
	}

	key, err := hex.DecodeString(strings.TrimPrefix(req.Key, "0x"))
	if err != nil || len(key) == 0 {
		return nil, errorx.New(errorx.BadRequest, "Invalid key")
	}

	valid, err := d.verifier.Verify(ctx, uint64(req.FID), key)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot verify key of fid %d: %v", req.FID, err)
		return nil, errorx.New(errorx.PermissionDenied, "Cannot verify key ownership")
	}

	if !valid {
		return nil, errorx.New(errorx.PermissionDenied, "Key is not registered for this fid")
	}

	switch req.Event {
	case model.EventFrameAdded, model.EventNotificationsEnabled:
		if req.NotificationDetails == nil || req.NotificationDetails.Token == "" {
			return nil, errorx.New(errorx.BadRequest, "Require notification details")
		}

		err := d.tokenRepo.Upsert(ctx, &entity.NotificationToken{
			FID:   req.FID,
			Token: req.NotificationDetails.Token,
			URL:   req.NotificationDetails.URL,
		})
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot store notification token: %v", err)
			return nil, errorx.Unknown
		}

	case model.EventFrameRemoved, model.EventNotificationsDisabed:
		if err := d.tokenRepo.Delete(ctx, req.FID); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot delete notification token: %v", err)
			return nil, errorx.Unknown
		}

	default:
		return nil, errorx.New(errorx.BadRequest, "Invalid event %s", req.Event)
	}

	return &model.WebhookResponse{}, nil
}
