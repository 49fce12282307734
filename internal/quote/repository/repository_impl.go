package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	quotedomain "github.com/skyharborlabs/skyharbor/internal/quote/domain"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) quotedomain.Repository {
	return &repository{db: db}
}

func (r *repository) Insert(ctx context.Context, quote *quotedomain.Quote) error {
	return r.db.WithContext(ctx).Create(quote).Error
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*quotedomain.Quote, error) {
	var quote quotedomain.Quote
	err := r.db.WithContext(ctx).First(&quote, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &quote, nil
}

func (r *repository) Transition(ctx context.Context, id snowflake.ID, from []quotedomain.Status, updates map[string]any) (bool, error) {
	res := r.db.WithContext(ctx).Model(&quotedomain.Quote{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&quotedomain.Quote{}).
		Where("status IN ? AND valid_until < ?", quotedomain.AcceptableFrom, now).
		Update("status", quotedomain.StatusExpired)
	return res.RowsAffected, res.Error
}
