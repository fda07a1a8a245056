package middleware

import (
	"context"
	"crypto/subtle"

	"github.com/basequest/backend/pkg/errorx"
	"github.com/basequest/backend/pkg/router"
	"github.com/basequest/backend/pkg/xcontext"
)

// OnlyAdmin guards the admin surface with the shared api key header.
func OnlyAdmin() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		apiKey := xcontext.Configs(ctx).Admin.APIKey
		if apiKey == "" {
			return nil, errorx.New(errorx.Unavailable, "Admin surface is disabled")
		}

		got := xcontext.HTTPRequest(ctx).Header.Get("X-Api-Key")
		if subtle.ConstantTimeCompare([]byte(got), []byte(apiKey)) != 1 {
			return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
		}

		return nil, nil
	}
}
