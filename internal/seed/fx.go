package seed

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/skyharborlabs/skyharbor/internal/config"
)

var Module = fx.Module("seed",
	fx.Invoke(func(db *gorm.DB, cfg config.Config, log *zap.Logger) error {
		if !cfg.SeedDemoData {
			return nil
		}
		log.Info("seeding demo data")
		return EnsureDemoData(db)
	}),
)
