package domain

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/basequest/backend/internal/model"
	"github.com/basequest/backend/internal/repository"
	"github.com/basequest/backend/pkg/errorx"
	"github.com/basequest/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

const testKey = "0x0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

func TestWebhookDomain_TokenLifecycle(t *testing.T) {
	ctx := testutil.MockContext(t)
	tokenRepo := repository.NewNotificationTokenRepository()
	webhookDomain := NewWebhookDomain(&testutil.MockVerifier{}, tokenRepo)

	_, err := webhookDomain.Handle(ctx, &model.WebhookRequest{
		Event: model.EventFrameAdded,
		FID:   42,
		Key:   testKey,
		NotificationDetails: &model.NotificationDetails{
			Token: "token-42",
			URL:   "https://api.warpcast.com/v1/frame-notifications",
		},
	})
	require.NoError(t, err)

	token, err := tokenRepo.Get(ctx, 42)
	require.NoError(t, err)
	require.Equal(t, "token-42", token.Token)

	// Re-enabling replaces the token.
	_, err = webhookDomain.Handle(ctx, &model.WebhookRequest{
		Event: model.EventNotificationsEnabled,
		FID:   42,
		Key:   testKey,
		NotificationDetails: &model.NotificationDetails{
			Token: "token-42-new",
			URL:   "https://api.warpcast.com/v1/frame-notifications",
		},
	})
	require.NoError(t, err)

	token, err = tokenRepo.Get(ctx, 42)
	require.NoError(t, err)
	require.Equal(t, "token-42-new", token.Token)

	_, err = webhookDomain.Handle(ctx, &model.WebhookRequest{
		Event: model.EventFrameRemoved,
		FID:   42,
		Key:   testKey,
	})
	require.NoError(t, err)

	_, err = tokenRepo.Get(ctx, 42)
	require.Error(t, err)
}

func TestWebhookDomain_WirePayload(t *testing.T) {
	ctx := testutil.MockContext(t)
	tokenRepo := repository.NewNotificationTokenRepository()
	webhookDomain := NewWebhookDomain(&testutil.MockVerifier{}, tokenRepo)

	payload := `{
		"event": "frame_added",
		"fid": 42,
		"key": "` + testKey + `",
		"notificationDetails": {
			"token": "token-42",
			"url": "https://api.warpcast.com/v1/frame-notifications"
		}
	}`

	var req model.WebhookRequest
	require.NoError(t, json.Unmarshal([]byte(payload), &req))
	require.NotNil(t, req.NotificationDetails)

	_, err := webhookDomain.Handle(ctx, &req)
	require.NoError(t, err)

	token, err := tokenRepo.Get(ctx, 42)
	require.NoError(t, err)
	require.Equal(t, "token-42", token.Token)
}

func TestWebhookDomain_RejectsUnverifiedKey(t *testing.T) {
	ctx := testutil.MockContext(t)
	tokenRepo := repository.NewNotificationTokenRepository()

	verifier := &testutil.MockVerifier{
		VerifyFunc: func(ctx context.Context, fid uint64, key []byte) (bool, error) {
			return false, nil
		},
	}

	webhookDomain := NewWebhookDomain(verifier, tokenRepo)
	_, err := webhookDomain.Handle(ctx, &model.WebhookRequest{
		Event:               model.EventFrameAdded,
		FID:                 42,
		Key:                 testKey,
		NotificationDetails: &model.NotificationDetails{Token: "token-42"},
	})
	require.Error(t, err)
	require.Equal(t, errorx.PermissionDenied, err.(errorx.Error).Code)

	_, err = tokenRepo.Get(ctx, 42)
	require.Error(t, err)
}

func TestWebhookDomain_FailsClosedOnVerifierError(t *testing.T) {
	ctx := testutil.MockContext(t)
	tokenRepo := repository.NewNotificationTokenRepository()

	verifier := &testutil.MockVerifier{
		VerifyFunc: func(ctx context.Context, fid uint64, key []byte) (bool, error) {
			return false, errors.New("rpc unavailable")
		},
	}

	webhookDomain := NewWebhookDomain(verifier, tokenRepo)
	_, err := webhookDomain.Handle(ctx, &model.WebhookRequest{
		Event:               model.EventFrameAdded,
		FID:                 42,
		Key:                 testKey,
		NotificationDetails: &model.NotificationDetails{Token: "token-42"},
	})
	require.Error(t, err)
	require.Equal(t, errorx.PermissionDenied, err.(errorx.Error).Code)
}

func TestWebhookDomain_RejectsInvalidRequests(t *testing.T) {
	ctx := testutil.MockContext(t)
	webhookDomain := NewWebhookDomain(
		&testutil.MockVerifier{}, repository.NewNotificationTokenRepository())

	_, err := webhookDomain.Handle(ctx, &model.WebhookRequest{
		Event: model.EventFrameAdded,
		Key:   testKey,
	})
	require.Error(t, err)

	_, err = webhookDomain.Handle(ctx, &model.WebhookRequest{
		Event: model.EventFrameAdded,
		FID:   42,
		Key:   "not hex",
	})
	require.Error(t, err)

	_, err = webhookDomain.Handle(ctx, &model.WebhookRequest{
		Event: "unknown_event",
		FID:   42,
		Key:   testKey,
	})
	require.Error(t, err)

	// frame_added without notification details.
	_, err = webhookDomain.Handle(ctx, &model.WebhookRequest{
		Event: model.EventFrameAdded,
		FID:   42,
		Key:   testKey,
	})
	require.Error(t, err)
}
