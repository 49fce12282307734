// Package migration brings the schema up to date at startup. Concurrent
// replicas racing the same schema are serialized through a Postgres advisory
// lock; embedded databases skip the lock.
package migration

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	aircraftdomain "github.com/skyharborlabs/skyharbor/internal/aircraft/domain"
	bookingdomain "github.com/skyharborlabs/skyharbor/internal/booking/domain"
	inquirydomain "github.com/skyharborlabs/skyharbor/internal/inquiry/domain"
	ruledomain "github.com/skyharborlabs/skyharbor/internal/pricingrule/domain"
	quotedomain "github.com/skyharborlabs/skyharbor/internal/quote/domain"
	routedomain "github.com/skyharborlabs/skyharbor/internal/route/domain"
	userdomain "github.com/skyharborlabs/skyharbor/internal/user/domain"
)

func models() []any {
	return []any{
		&userdomain.User{},
		&routedomain.Route{},
		&aircraftdomain.Aircraft{},
		&ruledomain.PricingRule{},
		&inquirydomain.Inquiry{},
		&quotedomain.Quote{},
		&bookingdomain.Booking{},
	}
}

// RunMigrations migrates every model. It must complete before the HTTP
// server accepts traffic.
func RunMigrations(db *gorm.DB) error {
	if db == nil {
		return errors.New("migration database handle is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if db.Dialector.Name() == "postgres" {
		unlock, err := acquireAdvisoryLock(ctx, db)
		if err != nil {
			return err
		}
		defer func() {
			_ = unlock(context.Background())
		}()
	}

	return db.WithContext(ctx).AutoMigrate(models()...)
}
