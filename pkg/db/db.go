// Package db provides the shared gorm handle. A postgres DSN is expected in
// production; with no DSN configured the app falls back to an in-process
// sqlite database, which keeps local development dependency-free.
package db

import (
	"context"

	"github.com/glebarez/sqlite"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/skyharborlabs/skyharbor/internal/config"
)

func Open(cfg config.Config, log *zap.Logger) (*gorm.DB, error) {
	if cfg.DatabaseDSN == "" {
		log.Warn("no database dsn configured, using in-process sqlite")
		return gorm.Open(sqlite.Open("file:skyharbor?mode=memory&cache=shared"), &gorm.Config{})
	}
	return gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
}

var Module = fx.Module("db",
	fx.Provide(Open),
	fx.Invoke(func(lc fx.Lifecycle, conn *gorm.DB) {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				sqlDB, err := conn.DB()
				if err != nil {
					return err
				}
				return sqlDB.Close()
			},
		})
	}),
)
