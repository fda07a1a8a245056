package middleware

import (
	"context"

	"github.com/basequest/backend/pkg/router"
	"github.com/basequest/backend/pkg/xcontext"
)

// Logger logs every finished request with its outcome.
func Logger() router.CloserFunc {
	return func(ctx context.Context, err error) {
		req := xcontext.HTTPRequest(ctx)
		if err != nil {
			xcontext.Logger(ctx).Warnf("%s %s failed: %v", req.Method, req.URL.Path, err)
			return
		}

		xcontext.Logger(ctx).Infof("%s %s", req.Method, req.URL.Path)
	}
}
