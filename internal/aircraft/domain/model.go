// Package domain contains the fleet catalog models.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"

	"github.com/skyharborlabs/skyharbor/internal/pricing"
)

// Aircraft is one fleet entry. Available and IsActive are tri-state: only an
// explicit false disqualifies the aircraft from search.
type Aircraft struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	TailNumber string       `gorm:"type:text;uniqueIndex" json:"tail_number"`
	Category   string       `gorm:"type:text;not null;index" json:"category"`
	Type       string       `gorm:"type:text;not null" json:"type"`

	CruiseSpeed         float64 `gorm:"not null" json:"cruise_speed"`
	HourlyRate          float64 `gorm:"not null" json:"hourly_rate"`
	HourlyOperatingCost float64 `gorm:"not null" json:"hourly_operating_cost"`
	PassengerCapacity   int     `gorm:"not null" json:"passenger_capacity"`

	Amenities datatypes.JSONSlice[string] `json:"amenities"`

	Available *bool `json:"available,omitempty"`
	IsActive  *bool `json:"is_active,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Aircraft) TableName() string { return "aircraft" }

// CostProfile maps the catalog entry onto the pricing engine's input.
func (a *Aircraft) CostProfile() pricing.CostProfile {
	return pricing.CostProfile{
		Category:            a.Category,
		CruiseSpeed:         a.CruiseSpeed,
		HourlyRate:          a.HourlyRate,
		HourlyOperatingCost: a.HourlyOperatingCost,
	}
}

// HasAmenities reports whether the aircraft carries every requested amenity.
func (a *Aircraft) HasAmenities(wanted []string) bool {
	if len(wanted) == 0 {
		return true
	}
	have := make(map[string]struct{}, len(a.Amenities))
	for _, amenity := range a.Amenities {
		have[amenity] = struct{}{}
	}
	for _, amenity := range wanted {
		if _, ok := have[amenity]; !ok {
			return false
		}
	}
	return true
}

var (
	ErrAircraftNotFound = errors.New("aircraft_not_found")
	ErrInvalidAircraft  = errors.New("invalid_aircraft")
	ErrInvalidID        = errors.New("invalid_id")
)

type Repository interface {
	Insert(ctx context.Context, aircraft *Aircraft) error
	FindByID(ctx context.Context, id snowflake.ID) (*Aircraft, error)
	ListEligible(ctx context.Context) ([]Aircraft, error)
	List(ctx context.Context) ([]Aircraft, error)
	Update(ctx context.Context, aircraft *Aircraft) error
}
