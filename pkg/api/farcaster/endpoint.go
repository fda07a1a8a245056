package farcaster

import (
	"context"
	"fmt"

	"github.com/basequest/backend/pkg/api"
	"github.com/basequest/backend/pkg/xcontext"
	"github.com/google/uuid"
	"golang.org/x/exp/slices"
)

type Endpoint struct{}

func New() *Endpoint {
	return &Endpoint{}
}

func (e *Endpoint) Send(ctx context.Context, notification Notification) (SendResult, error) {
	resp, err := api.NewGenerator(notification.URL).New("").
		Body(api.JSON{
			"notificationId": uuid.NewString(),
			"title":          notification.Title,
			"body":           notification.Body,
			"targetUrl":      notification.TargetURL,
			"tokens":         []string{notification.Token},
		}).
		POST(ctx)
	if err != nil {
		return SendFailure, err
	}

	if resp.Code == 429 {
		return SendRateLimited, nil
	}

	if resp.Code != 200 {
		xcontext.Logger(ctx).Warnf("Invalid status code from notification api: %d", resp.Code)
		return SendFailure, fmt.Errorf("invalid status code %d", resp.Code)
	}

	body, ok := resp.Body.(api.JSON)
	if !ok {
		return SendFailure, fmt.Errorf("invalid body format")
	}

	// The api reports per-token rate limiting inside a 200 response.
	if rateLimited, err := body.GetArray("result.rateLimitedTokens"); err == nil {
		if slices.Contains(rateLimited, any(notification.Token)) {
			return SendRateLimited, nil
		}
	}

	if invalid, err := body.GetArray("result.invalidTokens"); err == nil {
		if slices.Contains(invalid, any(notification.Token)) {
			return SendFailure, fmt.Errorf("token is no longer valid")
		}
	}

	return SendSuccess, nil
}
