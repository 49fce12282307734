package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	userdomain "github.com/skyharborlabs/skyharbor/internal/user/domain"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) userdomain.Repository {
	return &repository{db: db}
}

func (r *repository) Insert(ctx context.Context, user *userdomain.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*userdomain.User, error) {
	var user userdomain.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *repository) FindByTokenHash(ctx context.Context, hash string) (*userdomain.User, error) {
	var user userdomain.User
	err := r.db.WithContext(ctx).First(&user, "token_hash = ?", hash).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}
