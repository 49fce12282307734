// Package domain defines the versioned pricing rule configuration.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"

	"github.com/skyharborlabs/skyharbor/internal/pricing"
)

// PricingRule is operator-editable pricing configuration. Issued quotes store
// their own computed snapshot, so editing a rule never moves an existing
// quote's price.
type PricingRule struct {
	ID   snowflake.ID `gorm:"primaryKey" json:"id"`
	Name string       `gorm:"type:text;not null" json:"name"`

	MarginPercent float64                                `gorm:"not null" json:"margin_percent"`
	ClassMargins  datatypes.JSONType[map[string]float64] `json:"class_margins"`
	TaxRate       float64                                `gorm:"not null" json:"tax_rate"`
	TaxName       string                                 `gorm:"type:text" json:"tax_name"`

	FuelSurchargePerKm float64 `gorm:"not null" json:"fuel_surcharge_per_km"`
	AirportFeePerLeg   float64 `gorm:"not null" json:"airport_fee_per_leg"`
	GroundHandling     float64 `gorm:"not null" json:"ground_handling"`
	CrewExpensePerHour float64 `gorm:"not null" json:"crew_expense_per_hour"`

	ApplyDiscountAfterLegs int     `gorm:"not null;default:3" json:"apply_discount_after_legs"`
	MultiLegDiscount       float64 `gorm:"not null" json:"multi_leg_discount"`

	FlightTimeBuffer float64 `gorm:"not null" json:"flight_time_buffer"`
	DefaultCurrency  string  `gorm:"type:text;not null;default:USD" json:"default_currency"`

	IsActive  bool       `gorm:"not null;default:false;index" json:"is_active"`
	ValidFrom *time.Time `json:"valid_from,omitempty"`
	ValidTo   *time.Time `json:"valid_to,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (PricingRule) TableName() string { return "pricing_rules" }

// Snapshot converts the stored rule into the immutable form the pricing
// engine consumes.
func (r *PricingRule) Snapshot() pricing.Rule {
	return pricing.Rule{
		MarginPercent: r.MarginPercent,
		ClassMargins:  r.ClassMargins.Data(),
		TaxRate:       r.TaxRate,
		TaxName:       r.TaxName,
		Fees: pricing.Fees{
			FuelSurchargePerKm: r.FuelSurchargePerKm,
			AirportFeePerLeg:   r.AirportFeePerLeg,
			GroundHandling:     r.GroundHandling,
			CrewExpensePerHour: r.CrewExpensePerHour,
		},
		MultiLeg: pricing.MultiLegRules{
			ApplyDiscountAfterLegs: r.ApplyDiscountAfterLegs,
			DiscountPercent:        r.MultiLegDiscount,
		},
		FlightTimeBuffer: r.FlightTimeBuffer,
		Currency:         r.DefaultCurrency,
	}
}

// EffectiveAt reports whether the rule's optional validity window covers t.
func (r *PricingRule) EffectiveAt(t time.Time) bool {
	if r.ValidFrom != nil && t.Before(*r.ValidFrom) {
		return false
	}
	if r.ValidTo != nil && t.After(*r.ValidTo) {
		return false
	}
	return true
}

var (
	ErrRuleNotFound = errors.New("pricing_rule_not_found")
	ErrInvalidRule  = errors.New("invalid_pricing_rule")
	ErrInvalidID    = errors.New("invalid_id")
)

type Repository interface {
	Insert(ctx context.Context, rule *PricingRule) error
	FindByID(ctx context.Context, id snowflake.ID) (*PricingRule, error)
	FindActive(ctx context.Context) (*PricingRule, error)
	List(ctx context.Context) ([]PricingRule, error)
	Activate(ctx context.Context, id snowflake.ID) error
	Update(ctx context.Context, rule *PricingRule) error
}
