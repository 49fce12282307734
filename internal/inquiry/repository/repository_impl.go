package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	inquirydomain "github.com/skyharborlabs/skyharbor/internal/inquiry/domain"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) inquirydomain.Repository {
	return &repository{db: db}
}

func (r *repository) Insert(ctx context.Context, inquiry *inquirydomain.Inquiry) error {
	return r.db.WithContext(ctx).Create(inquiry).Error
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*inquirydomain.Inquiry, error) {
	var inquiry inquirydomain.Inquiry
	err := r.db.WithContext(ctx).First(&inquiry, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &inquiry, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id snowflake.ID, status inquirydomain.Status) error {
	res := r.db.WithContext(ctx).Model(&inquirydomain.Inquiry{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return inquirydomain.ErrInquiryNotFound
	}
	return nil
}
