package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	ruledomain "github.com/skyharborlabs/skyharbor/internal/pricingrule/domain"
)

type createPricingRuleRequest struct {
	Name string `json:"name"`

	MarginPercent float64            `json:"margin_percent"`
	ClassMargins  map[string]float64 `json:"class_margins"`
	TaxRate       float64            `json:"tax_rate"`
	TaxName       string             `json:"tax_name"`

	FuelSurchargePerKm float64 `json:"fuel_surcharge_per_km"`
	AirportFeePerLeg   float64 `json:"airport_fee_per_leg"`
	GroundHandling     float64 `json:"ground_handling"`
	CrewExpensePerHour float64 `json:"crew_expense_per_hour"`

	ApplyDiscountAfterLegs int     `json:"apply_discount_after_legs"`
	MultiLegDiscount       float64 `json:"multi_leg_discount"`

	FlightTimeBuffer float64    `json:"flight_time_buffer"`
	DefaultCurrency  string     `json:"default_currency"`
	ValidFrom        *time.Time `json:"valid_from"`
	ValidTo          *time.Time `json:"valid_to"`
}

// CreatePricingRule stores a new rule in the inactive state. Activation is a
// separate, deliberate step so a half-entered rule can never price a quote.
func (s *Server) CreatePricingRule(c *gin.Context) {
	var req createPricingRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	rule, err := s.ruleSvc.Create(c.Request.Context(), &ruledomain.PricingRule{
		Name:                   req.Name,
		MarginPercent:          req.MarginPercent,
		ClassMargins:           datatypes.NewJSONType(req.ClassMargins),
		TaxRate:                req.TaxRate,
		TaxName:                req.TaxName,
		FuelSurchargePerKm:     req.FuelSurchargePerKm,
		AirportFeePerLeg:       req.AirportFeePerLeg,
		GroundHandling:         req.GroundHandling,
		CrewExpensePerHour:     req.CrewExpensePerHour,
		ApplyDiscountAfterLegs: req.ApplyDiscountAfterLegs,
		MultiLegDiscount:       req.MultiLegDiscount,
		FlightTimeBuffer:       req.FlightTimeBuffer,
		DefaultCurrency:        req.DefaultCurrency,
		ValidFrom:              req.ValidFrom,
		ValidTo:                req.ValidTo,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondData(c, rule)
}

func (s *Server) ListPricingRules(c *gin.Context) {
	rules, err := s.ruleSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondList(c, rules)
}

func (s *Server) GetPricingRule(c *gin.Context) {
	rule, err := s.ruleSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondData(c, rule)
}

// GetActivePricingRule returns the snapshot quotes are being priced with
// right now, including the zero-cost fallback when nothing is active.
func (s *Server) GetActivePricingRule(c *gin.Context) {
	rule, err := s.ruleSvc.Active(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondData(c, rule)
}

func (s *Server) ActivatePricingRule(c *gin.Context) {
	rule, err := s.ruleSvc.Activate(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondData(c, rule)
}
