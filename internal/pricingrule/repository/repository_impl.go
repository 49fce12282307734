package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	ruledomain "github.com/skyharborlabs/skyharbor/internal/pricingrule/domain"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) ruledomain.Repository {
	return &repository{db: db}
}

func (r *repository) Insert(ctx context.Context, rule *ruledomain.PricingRule) error {
	return r.db.WithContext(ctx).Create(rule).Error
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*ruledomain.PricingRule, error) {
	var rule ruledomain.PricingRule
	err := r.db.WithContext(ctx).First(&rule, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rule, nil
}

func (r *repository) FindActive(ctx context.Context) (*ruledomain.PricingRule, error) {
	var rule ruledomain.PricingRule
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("updated_at DESC").
		First(&rule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rule, nil
}

func (r *repository) List(ctx context.Context) ([]ruledomain.PricingRule, error) {
	var rules []ruledomain.PricingRule
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&rules).Error
	return rules, err
}

// Activate flips the target rule on and every other rule off in one
// transaction, keeping at most one rule active.
func (r *repository) Activate(ctx context.Context, id snowflake.ID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&ruledomain.PricingRule{}).
			Where("is_active = ? AND id <> ?", true, id).
			Update("is_active", false).Error; err != nil {
			return err
		}

		res := tx.Model(&ruledomain.PricingRule{}).
			Where("id = ?", id).
			Update("is_active", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ruledomain.ErrRuleNotFound
		}
		return nil
	})
}

func (r *repository) Update(ctx context.Context, rule *ruledomain.PricingRule) error {
	return r.db.WithContext(ctx).Save(rule).Error
}
