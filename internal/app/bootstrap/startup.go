// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"

	"github.com/dalemusser/pmhub/internal/app/system/ratelimit"
	"github.com/dalemusser/pmhub/internal/app/system/workers"
	"github.com/dalemusser/pmhub/internal/app/workspace"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after the store is
// connected and before the HTTP handler is built. It loads (or seeds) the
// workspace, starts the change log worker and creates the login limiter.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.KV == nil || deps.Services == nil {
		return errors.New("startup: storage not connected")
	}

	c, err := workspace.Open(ctx, deps.KV, workspaceOptions(appCfg), logger)
	if err != nil {
		logger.Error("workspace load failed", zap.Error(err))
		return err
	}
	deps.Services.Workspace = c

	cl := workers.NewChangeLog(c, logger, appCfg.ChangeLogInterval)
	cl.Start()
	deps.Services.ChangeLog = cl

	deps.Services.Logins = ratelimit.NewLoginLimiter()

	return nil
}

func workspaceOptions(appCfg AppConfig) workspace.Options {
	return workspace.Options{
		DataKey:       appCfg.DataKey,
		SessionKey:    appCfg.SessionKeyName,
		SeedVariant:   appCfg.SeedVariant,
		HashPasswords: appCfg.HashPasswords,
	}
}
