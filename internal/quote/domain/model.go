// Package domain defines the priced quote and its lifecycle states.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"

	"github.com/skyharborlabs/skyharbor/internal/pricing"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusSent     Status = "sent"
	StatusAccepted Status = "accepted"
	StatusExpired  Status = "expired"
	StatusRejected Status = "rejected"
)

// AcceptableFrom are the only states a quote may be accepted from.
var AcceptableFrom = []Status{StatusPending, StatusSent}

// Leg is one priced flight segment stored on the quote.
type Leg struct {
	Origin        string  `json:"origin"`
	Destination   string  `json:"destination"`
	DepartureDate string  `json:"departure_date"`
	DepartureTime string  `json:"departure_time,omitempty"`
	DistanceKM    float64 `json:"distance_km"`
	FlightHours   float64 `json:"flight_hours"`

	BaseFlyingCost float64 `json:"base_flying_cost"`
	FuelSurcharge  float64 `json:"fuel_surcharge"`
	AirportFee     float64 `json:"airport_fee"`
	CrewExpense    float64 `json:"crew_expense"`
	Subtotal       float64 `json:"subtotal"`
}

// PricingSnapshot is the quote's own copy of the computed breakdown. It is
// written exactly once at generation and never recomputed, so later edits to
// pricing rules cannot move an issued quote's price.
type PricingSnapshot struct {
	TotalBaseFlyingCost float64 `json:"total_base_flying_cost"`
	TotalFuelSurcharge  float64 `json:"total_fuel_surcharge"`
	TotalAirportFees    float64 `json:"total_airport_fees"`
	TotalCrewExpenses   float64 `json:"total_crew_expenses"`

	Subtotal             float64 `json:"subtotal"`
	GroundHandling       float64 `json:"ground_handling"`
	SubtotalWithHandling float64 `json:"subtotal_with_handling"`

	MarginPercent      float64 `json:"margin_percent"`
	MarginAmount       float64 `json:"margin_amount"`
	SubtotalWithMargin float64 `json:"subtotal_with_margin"`

	TaxName             string  `gorm:"type:text" json:"tax_name,omitempty"`
	TaxRate             float64 `json:"tax_rate"`
	TaxAmount           float64 `json:"tax_amount"`
	TotalBeforeDiscount float64 `json:"total_before_discount"`

	MultiLegDiscount float64 `json:"multi_leg_discount"`
	TotalCost        float64 `json:"total_cost"`

	Currency string `gorm:"type:text" json:"currency"`
}

// SnapshotOf copies every aggregate of a computed breakdown.
func SnapshotOf(bd *pricing.Breakdown) PricingSnapshot {
	return PricingSnapshot{
		TotalBaseFlyingCost:  bd.TotalBaseFlyingCost,
		TotalFuelSurcharge:   bd.TotalFuelSurcharge,
		TotalAirportFees:     bd.TotalAirportFees,
		TotalCrewExpenses:    bd.TotalCrewExpenses,
		Subtotal:             bd.Subtotal,
		GroundHandling:       bd.GroundHandling,
		SubtotalWithHandling: bd.SubtotalWithHandling,
		MarginPercent:        bd.MarginPercent,
		MarginAmount:         bd.MarginAmount,
		SubtotalWithMargin:   bd.SubtotalWithMargin,
		TaxName:              bd.TaxName,
		TaxRate:              bd.TaxRate,
		TaxAmount:            bd.TaxAmount,
		TotalBeforeDiscount:  bd.TotalBeforeDiscount,
		MultiLegDiscount:     bd.MultiLegDiscount,
		TotalCost:            bd.TotalCost,
		Currency:             bd.Currency,
	}
}

type Quote struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	InquiryID  snowflake.ID `gorm:"not null;index" json:"inquiry_id"`
	AircraftID snowflake.ID `gorm:"not null" json:"aircraft_id"`
	UserID     snowflake.ID `gorm:"index" json:"user_id"`

	Legs    datatypes.JSONSlice[Leg] `json:"legs"`
	Pricing PricingSnapshot          `gorm:"embedded;embeddedPrefix:pricing_" json:"pricing"`

	Status     Status     `gorm:"type:text;not null;default:pending;index" json:"status"`
	ValidUntil time.Time  `gorm:"not null" json:"valid_until"`
	SentAt     *time.Time `json:"sent_at,omitempty"`
	AcceptedAt *time.Time `json:"accepted_at,omitempty"`

	Notes string `gorm:"type:text" json:"notes,omitempty"`
	Terms string `gorm:"type:text" json:"terms,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Quote) TableName() string { return "quotes" }

var (
	ErrQuoteNotFound      = errors.New("quote_not_found")
	ErrQuoteNotAcceptable = errors.New("quote_not_acceptable")
	ErrQuoteExpired       = errors.New("quote_expired")
	ErrNotQuoteOwner      = errors.New("not_quote_owner")
	ErrNoContactEmail     = errors.New("no_contact_email")
	ErrInvalidID          = errors.New("invalid_id")
)

type Repository interface {
	Insert(ctx context.Context, quote *Quote) error
	FindByID(ctx context.Context, id snowflake.ID) (*Quote, error)
	// Transition applies updates only while the quote is in one of the from
	// states; it reports whether a row was actually changed. This is the
	// guard against concurrent accept/send races.
	Transition(ctx context.Context, id snowflake.ID, from []Status, updates map[string]any) (bool, error)
	// ExpireStale moves every pending or sent quote whose validity lapsed
	// before now into the expired state and returns how many rows moved.
	ExpireStale(ctx context.Context, now time.Time) (int64, error)
}
