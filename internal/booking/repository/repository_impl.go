package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	bookingdomain "github.com/skyharborlabs/skyharbor/internal/booking/domain"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) bookingdomain.Repository {
	return &repository{db: db}
}

func (r *repository) Insert(ctx context.Context, booking *bookingdomain.Booking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*bookingdomain.Booking, error) {
	return r.find(ctx, r.db, id)
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id snowflake.ID) (*bookingdomain.Booking, error) {
	return r.find(ctx, r.db.Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *repository) find(ctx context.Context, db *gorm.DB, id snowflake.ID) (*bookingdomain.Booking, error) {
	var booking bookingdomain.Booking
	err := db.WithContext(ctx).First(&booking, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &booking, nil
}

func (r *repository) Save(ctx context.Context, booking *bookingdomain.Booking) error {
	return r.db.WithContext(ctx).Save(booking).Error
}
