package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	aircraftdomain "github.com/skyharborlabs/skyharbor/internal/aircraft/domain"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) aircraftdomain.Repository {
	return &repository{db: db}
}

func (r *repository) Insert(ctx context.Context, aircraft *aircraftdomain.Aircraft) error {
	return r.db.WithContext(ctx).Create(aircraft).Error
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*aircraftdomain.Aircraft, error) {
	var aircraft aircraftdomain.Aircraft
	err := r.db.WithContext(ctx).First(&aircraft, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &aircraft, nil
}

// ListEligible returns aircraft not explicitly marked unavailable or inactive.
func (r *repository) ListEligible(ctx context.Context) ([]aircraftdomain.Aircraft, error) {
	var fleet []aircraftdomain.Aircraft
	err := r.db.WithContext(ctx).
		Where("(available IS NULL OR available = ?) AND (is_active IS NULL OR is_active = ?)", true, true).
		Order("id").
		Find(&fleet).Error
	return fleet, err
}

func (r *repository) List(ctx context.Context) ([]aircraftdomain.Aircraft, error) {
	var fleet []aircraftdomain.Aircraft
	err := r.db.WithContext(ctx).Order("id").Find(&fleet).Error
	return fleet, err
}

func (r *repository) Update(ctx context.Context, aircraft *aircraftdomain.Aircraft) error {
	return r.db.WithContext(ctx).Save(aircraft).Error
}
