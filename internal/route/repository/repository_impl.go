package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	routedomain "github.com/skyharborlabs/skyharbor/internal/route/domain"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) routedomain.Repository {
	return &repository{db: db}
}

func (r *repository) FindByPair(ctx context.Context, origin, destination string) (*routedomain.Route, error) {
	var route routedomain.Route
	err := r.db.WithContext(ctx).
		Where("origin = ? AND destination = ?", origin, destination).
		First(&route).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &route, nil
}

func (r *repository) Upsert(ctx context.Context, route *routedomain.Route) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "origin"}, {Name: "destination"}},
		DoUpdates: clause.AssignmentColumns([]string{"distance_km", "estimated_hours", "updated_at"}),
	}).Create(route).Error
}

func (r *repository) List(ctx context.Context) ([]routedomain.Route, error) {
	var routes []routedomain.Route
	err := r.db.WithContext(ctx).Order("origin, destination").Find(&routes).Error
	return routes, err
}
