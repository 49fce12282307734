package server

import (
	"github.com/gin-gonic/gin"

	aircraftdomain "github.com/skyharborlabs/skyharbor/internal/aircraft/domain"
)

type createAircraftRequest struct {
	TailNumber          string   `json:"tail_number"`
	Category            string   `json:"category"`
	Type                string   `json:"type"`
	CruiseSpeed         float64  `json:"cruise_speed"`
	HourlyRate          float64  `json:"hourly_rate"`
	HourlyOperatingCost float64  `json:"hourly_operating_cost"`
	PassengerCapacity   int      `json:"passenger_capacity"`
	Amenities           []string `json:"amenities"`
}

type setAvailabilityRequest struct {
	Available *bool `json:"available"`
	IsActive  *bool `json:"is_active"`
}

func (s *Server) CreateAircraft(c *gin.Context) {
	var req createAircraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	aircraft, err := s.aircraftSvc.Create(c.Request.Context(), &aircraftdomain.Aircraft{
		TailNumber:          req.TailNumber,
		Category:            req.Category,
		Type:                req.Type,
		CruiseSpeed:         req.CruiseSpeed,
		HourlyRate:          req.HourlyRate,
		HourlyOperatingCost: req.HourlyOperatingCost,
		PassengerCapacity:   req.PassengerCapacity,
		Amenities:           req.Amenities,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondData(c, aircraft)
}

func (s *Server) ListAircraft(c *gin.Context) {
	fleet, err := s.aircraftSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondList(c, fleet)
}

func (s *Server) GetAircraft(c *gin.Context) {
	aircraft, err := s.aircraftSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondData(c, aircraft)
}

func (s *Server) SetAircraftAvailability(c *gin.Context) {
	var req setAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	aircraft, err := s.aircraftSvc.SetAvailability(c.Request.Context(), c.Param("id"), req.Available, req.IsActive)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondData(c, aircraft)
}
