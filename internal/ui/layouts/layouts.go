package layouts

import (
	"context"

	"github.com/templui/tracker/internal/ctxkeys"
)

const defaultAppName = "Progress Tracker"

func appName(ctx context.Context) string {
	if cfg := ctxkeys.Config(ctx); cfg != nil && cfg.AppName != "" {
		return cfg.AppName
	}
	return defaultAppName
}

func isActive(ctx context.Context, path string) bool {
	return ctxkeys.URLPath(ctx) == path
}
