package migration

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

const advisoryLockKey int64 = 5_917_334_208

type unlockFunc func(ctx context.Context) error

func acquireAdvisoryLock(ctx context.Context, db *gorm.DB) (unlockFunc, error) {
	if db == nil {
		return nil, errors.New("advisory lock requires database handle")
	}

	var locked bool
	err := db.WithContext(ctx).Raw("SELECT pg_try_advisory_lock(?)", advisoryLockKey).Scan(&locked).Error
	if err != nil {
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}
	if !locked {
		return nil, errors.New("another migration process holds the advisory lock")
	}

	return func(unlockCtx context.Context) error {
		var released bool
		if err := db.WithContext(unlockCtx).Raw("SELECT pg_advisory_unlock(?)", advisoryLockKey).Scan(&released).Error; err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		if !released {
			return errors.New("advisory lock was not held by this session")
		}
		return nil
	}, nil
}
