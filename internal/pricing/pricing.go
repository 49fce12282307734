// Package pricing implements the deterministic cost-plus pricing engine.
// Calculate is a pure function: callers resolve the active rule and leg
// distances up front and pass them in, so the same inputs always produce
// the same breakdown.
package pricing

import (
	"errors"
	"fmt"
	"math"
)

// DefaultDiscountLegThreshold is used when a rule does not configure its own.
const DefaultDiscountLegThreshold = 3

// Fees is the flat fee block of a pricing rule.
type Fees struct {
	FuelSurchargePerKm float64 `json:"fuel_surcharge_per_km"`
	AirportFeePerLeg   float64 `json:"airport_fee_per_leg"`
	GroundHandling     float64 `json:"ground_handling"`
	CrewExpensePerHour float64 `json:"crew_expense_per_hour"`
}

// MultiLegRules configures the threshold-based multi-leg discount.
type MultiLegRules struct {
	ApplyDiscountAfterLegs int     `json:"apply_discount_after_legs"`
	DiscountPercent        float64 `json:"discount_percent"`
}

// Rule is an immutable snapshot of the pricing configuration in effect
// for one computation.
type Rule struct {
	MarginPercent    float64            `json:"margin_percent"`
	ClassMargins     map[string]float64 `json:"class_margins,omitempty"`
	TaxRate          float64            `json:"tax_rate"`
	TaxName          string             `json:"tax_name"`
	Fees             Fees               `json:"fees"`
	MultiLeg         MultiLegRules      `json:"multi_leg"`
	FlightTimeBuffer float64            `json:"flight_time_buffer"`
	Currency         string             `json:"currency"`
}

// MarginFor returns the margin percentage for an aircraft class, falling
// back to the global margin when no override exists.
func (r Rule) MarginFor(class string) float64 {
	if pct, ok := r.ClassMargins[class]; ok {
		return pct
	}
	return r.MarginPercent
}

// DiscountThreshold returns the configured leg count threshold or the default.
func (r Rule) DiscountThreshold() int {
	if r.MultiLeg.ApplyDiscountAfterLegs > 0 {
		return r.MultiLeg.ApplyDiscountAfterLegs
	}
	return DefaultDiscountLegThreshold
}

// ZeroRule is the hard-coded fallback applied when no pricing rule is active.
// Every charge it produces is zero except the raw flying cost.
func ZeroRule(currency string) Rule {
	if currency == "" {
		currency = "USD"
	}
	return Rule{Currency: currency}
}

// CostProfile carries the aircraft figures the engine needs.
type CostProfile struct {
	Category            string
	CruiseSpeed         float64
	HourlyRate          float64
	HourlyOperatingCost float64
}

// HourlyCostBasis prefers the true operating cost over the commercial rate.
func (p CostProfile) HourlyCostBasis() float64 {
	if p.HourlyOperatingCost > 0 {
		return p.HourlyOperatingCost
	}
	return p.HourlyRate
}

// LegInput is one flight segment with its resolved distance. DistanceKM of
// zero means the route could not be resolved.
type LegInput struct {
	Origin      string
	Destination string
	DistanceKM  float64
}

// LegBreakdown is the per-leg portion of a computed breakdown.
type LegBreakdown struct {
	Origin         string  `json:"origin"`
	Destination    string  `json:"destination"`
	DistanceKM     float64 `json:"distance_km"`
	FlightHours    float64 `json:"flight_hours"`
	BaseFlyingCost float64 `json:"base_flying_cost"`
	FuelSurcharge  float64 `json:"fuel_surcharge"`
	AirportFee     float64 `json:"airport_fee"`
	CrewExpense    float64 `json:"crew_expense"`
	Subtotal       float64 `json:"subtotal"`
}

// Breakdown exposes every intermediate of the cost-plus computation so a
// quote can be re-displayed and audited without recomputing.
type Breakdown struct {
	Legs []LegBreakdown `json:"legs"`

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

	TaxName             string  `json:"tax_name,omitempty"`
	TaxRate             float64 `json:"tax_rate"`
	TaxAmount           float64 `json:"tax_amount"`
	TotalBeforeDiscount float64 `json:"total_before_discount"`

	MultiLegDiscount float64 `json:"multi_leg_discount"`
	TotalCost        float64 `json:"total_cost"`

	Currency string `json:"currency"`
}

// ErrNoLegs is returned when Calculate is invoked with an empty itinerary.
var ErrNoLegs = errors.New("pricing_no_legs")

// MissingDistanceError aborts a computation whose leg has no resolvable
// distance. Partial pricing is never returned.
type MissingDistanceError struct {
	Leg         int
	Origin      string
	Destination string
}

func (e *MissingDistanceError) Error() string {
	return fmt.Sprintf("pricing_missing_distance: leg %d %s-%s has no resolvable distance", e.Leg, e.Origin, e.Destination)
}

// FlightHours derives block hours for a leg. A missing distance or cruise
// speed yields zero hours rather than a division error.
func FlightHours(distanceKM, cruiseSpeed, buffer float64) float64 {
	if distanceKM <= 0 || cruiseSpeed <= 0 {
		return 0
	}
	return round2(distanceKM/cruiseSpeed + buffer)
}

// Calculate prices an ordered itinerary against one aircraft profile and one
// rule snapshot. Monetary quantities are rounded to two decimals at each
// derivation point, per leg and per aggregate, so repeated calls are
// byte-identical.
func Calculate(profile CostProfile, legs []LegInput, rule Rule) (*Breakdown, error) {
	if len(legs) == 0 {
		return nil, ErrNoLegs
	}

	bd := &Breakdown{
		Legs:     make([]LegBreakdown, 0, len(legs)),
		Currency: rule.Currency,
		TaxName:  rule.TaxName,
		TaxRate:  rule.TaxRate,
	}

	basis := profile.HourlyCostBasis()
	for i, leg := range legs {
		if leg.DistanceKM <= 0 {
			return nil, &MissingDistanceError{Leg: i, Origin: leg.Origin, Destination: leg.Destination}
		}

		hours := FlightHours(leg.DistanceKM, profile.CruiseSpeed, rule.FlightTimeBuffer)
		lb := LegBreakdown{
			Origin:         leg.Origin,
			Destination:    leg.Destination,
			DistanceKM:     leg.DistanceKM,
			FlightHours:    hours,
			BaseFlyingCost: round2(hours * basis),
			FuelSurcharge:  round2(rule.Fees.FuelSurchargePerKm * leg.DistanceKM),
			AirportFee:     round2(rule.Fees.AirportFeePerLeg),
			CrewExpense:    round2(hours * rule.Fees.CrewExpensePerHour),
		}
		lb.Subtotal = round2(lb.BaseFlyingCost + lb.FuelSurcharge + lb.AirportFee + lb.CrewExpense)

		bd.Legs = append(bd.Legs, lb)
		bd.TotalBaseFlyingCost = round2(bd.TotalBaseFlyingCost + lb.BaseFlyingCost)
		bd.TotalFuelSurcharge = round2(bd.TotalFuelSurcharge + lb.FuelSurcharge)
		bd.TotalAirportFees = round2(bd.TotalAirportFees + lb.AirportFee)
		bd.TotalCrewExpenses = round2(bd.TotalCrewExpenses + lb.CrewExpense)
	}

	bd.Subtotal = round2(bd.TotalBaseFlyingCost + bd.TotalFuelSurcharge + bd.TotalAirportFees + bd.TotalCrewExpenses)
	bd.GroundHandling = round2(rule.Fees.GroundHandling)
	bd.SubtotalWithHandling = round2(bd.Subtotal + bd.GroundHandling)

	bd.MarginPercent = rule.MarginFor(profile.Category)
	bd.MarginAmount = round2(bd.SubtotalWithHandling * bd.MarginPercent / 100)
	bd.SubtotalWithMargin = round2(bd.SubtotalWithHandling + bd.MarginAmount)

	bd.TaxAmount = round2(bd.SubtotalWithMargin * rule.TaxRate / 100)
	bd.TotalBeforeDiscount = round2(bd.SubtotalWithMargin + bd.TaxAmount)

	// The discount applies to the final pre-discount total, margin and tax
	// included. Preserved source behavior.
	if len(legs) >= rule.DiscountThreshold() && rule.MultiLeg.DiscountPercent > 0 {
		bd.MultiLegDiscount = round2(bd.TotalBeforeDiscount * rule.MultiLeg.DiscountPercent / 100)
	}
	bd.TotalCost = round2(bd.TotalBeforeDiscount - bd.MultiLegDiscount)

	return bd, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
